// Package treecache provides a thread-safe, in-memory store of parsed
// partial trees.
//
// # Purpose
//
// A recursive partial is captured in the tree as a RuntimeTemplate and
// parsed again every time a render reaches it. The store memoises those
// parses so that deep recursion and repeated renders of the same compiled
// template reuse one subtree per partial and indentation.
//
// # Concurrency Model
//
// The store uses sync.Map. Entries are written once and then only read by
// concurrent renders, which is the access pattern sync.Map is optimised for.
// Cached trees are immutable, so sharing them needs no further locking.
//
// A store belongs to a single compiled template. The partial snapshot a
// RuntimeTemplate carries is fixed at parse time, which makes name plus
// indentation a complete key within that template.
package treecache
