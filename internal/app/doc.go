// Package app contains the core application logic of the mustachio command.
// It defines the App struct, its configuration, and the run lifecycle:
// reading a template and its partials from disk, loading view data, and
// writing the rendered, compacted or dumped result. It is decoupled from any
// specific entrypoint like a CLI.
package app
