// Package app wires application dependencies for the CLI.
//
// It builds the concrete tools and high-level services from the loaded
// configuration, exposing them via the App struct for commands to use.
package app
