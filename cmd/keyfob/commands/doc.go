// Package commands defines the keyfob CLI and wires dependencies for
// subcommands.
//
// Commands
//
//   - setup          Collect and bind the git identity; --generate adds keys
//   - backup ssh     Export the SSH pair to the storage directory
//   - backup gpg     Export a GPG key with its ownertrust
//   - restore ssh    Restore the SSH pair from storage or a repository
//   - restore gpg    Restore the GPG key and bind it for signing
//   - restore remote Restore both kinds straight from a repository
//
// Running keyfob with no arguments opens an interactive menu over the same
// operations.
//
// # Implementation
//
// The root command loads the configuration and builds the dependency graph
// (tool wrappers, services, prompter) before any subcommand runs, so handlers
// share one app context. Menu choices and subcommands resolve to the same
// operation enum and dispatch through a single table.
package commands
