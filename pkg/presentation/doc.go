// Package presentation resolves the site configuration of a published
// proposal (agent contacts, forms, analytics, chat and feature toggles) into
// concrete strategies, and produces the pre-formatted head and body markup
// plus the SITE_CONFIG payload a page embeds.
//
// Each capability is resolved once by Resolve; unknown providers are
// reported as errors instead of being ignored at runtime.
package presentation
