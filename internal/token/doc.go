// Package token splits raw template text into the flat sequence of structural
// tokens consumed by the parser.
//
// The tokenizer is deliberately tolerant: it never fails. Tags it cannot make
// sense of (for example an empty `{{}}`) are left in place as literal text.
//
// # Whitespace modes
//
// Three policies control how whitespace around tags is treated:
//
//   - Lazy leaves the template untouched. This is the default.
//   - Strict implements standalone-tag trimming: a section, partial, comment or
//     delimiter-change tag that sits alone on its own line takes its
//     indentation and trailing newline with it.
//   - Strip collapses every whitespace run of the input to a single space
//     before scanning.
package token
