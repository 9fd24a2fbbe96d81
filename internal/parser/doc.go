// Package parser folds a token stream into a template tree.
//
// Partials are resolved while parsing: a partial referenced from the
// template is tokenized and parsed in turn, and its nodes are spliced into
// the section that referenced it. A partial that (directly or through other
// partials) references itself cannot be inlined that way; such a reference
// becomes a tree.RuntimeTemplate leaf, parsed by ParseRuntime when a render
// reaches it.
//
// Parse errors are never recovered from internally. All of them wrap one of
// the sentinel errors declared in errors.go and can be tested with errors.Is.
package parser
