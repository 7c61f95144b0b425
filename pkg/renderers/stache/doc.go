// Package stache renders proposal templates written in a small
// handlebars-like dialect. Four directive kinds are recognised and evaluated
// as whole-template passes in a fixed order:
//
//	{{#each path}} … {{/each}}   iteration over a sequence in the outer context
//	{{#if path}} … {{/if}}       conditional block, body rendered recursively
//	{{{path}}}                   raw interpolation
//	{{path}}                     HTML-escaped interpolation
//
// Inside an iteration body only {{this.field}}, {{{this.field}}} and
// {{#unless @first}} … {{/unless}} are evaluated per item. Any other directive
// nested in the body is copied into the expanded output untouched and is
// picked up afterwards by the later passes, which resolve paths against the
// outer context, never the item.
//
// Rendering never fails on missing data: unresolved paths render as "" and
// directives that do not match the grammar are left as literal text. Engines
// created with WithStrict reject such templates instead.
package stache
