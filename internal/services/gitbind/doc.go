// Package gitbind binds a validated identity and signing key to the global
// git configuration, and wires the shell environment so GPG can reach the
// terminal when git asks for a signature.
package gitbind
