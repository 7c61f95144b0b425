// Package engagement models the events a published proposal page emits
// (page views, section views, scroll depth and clicks) and the visitor
// feedback it collects. Events are validated on intake and persisted through
// a Recorder; Store is the gorm-backed implementation and Handler exposes
// the HTTP intake endpoints.
package engagement
