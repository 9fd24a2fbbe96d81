// Package interpreter renders a parsed template tree against view data.
//
// Rendering walks the tree with a context stack seeded with the view. Missing
// data never fails a render: unresolved variables print nothing and
// unresolved sections are skipped. The hard failures are a view that is
// neither a record nor a sequence, and recursive partials nested deeper than
// the configured limit.
//
// Recursive partials reach the interpreter as RuntimeTemplate nodes. They are
// parsed on first use, memoised in a treecache.Store, and rendered against
// the live stack so they behave like an inline expansion.
//
// An Interpreter holds no per-render state and may be used concurrently.
package interpreter
