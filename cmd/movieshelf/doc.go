// Package main hosts the movieshelf CLI entrypoint and command graph.
//
// Each catalog operation is a Cobra subcommand: list, add, delete, update,
// search, sort, stats, random, histogram and render, plus init, config
// scaffolding, and the interactive menu. Configuration is resolved once per
// invocation and every invocation logs under its own correlation id.
//
// Keep this package thin: behavior belongs in internal/catalog,
// internal/query and friends; commands only parse flags and present results.
package main
