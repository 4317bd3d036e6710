// Package setup sequences first-time host configuration: identity collection
// and binding, shell wiring, provider login, and optional key generation.
package setup
