// Package engine is the public face of the template pipeline. It owns the
// partial registry and the whitespace mode, compiles template sources into
// reusable Templates and caches compiled results.
//
// Compiled templates are cached in a ristretto cache keyed by whitespace
// mode, registry generation and source. Every registry mutation starts a new
// generation, so a template compiled against an older set of partials is
// never handed out again.
package engine
