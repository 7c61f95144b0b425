// Package viewmodel shapes decoded trip documents into the flat,
// renderer-ready view model proposal templates consume. Shaping is pure and
// deterministic for a fixed clock: derivations are lookups plus formatting
// with explicit fallbacks, absent optional sections are omitted from the
// output entirely, and only the identity fields meta.clientName,
// meta.destination and meta.dates are mandatory. The Shaper implementation
// lives in internal/viewmodel; the types are re-exported here.
package viewmodel
