// Package restore drives the restore state machine: locate a backup bundle,
// verify the external tooling, import the material, and bind GPG signing.
//
// A restore either completes for every requested kind or fails as a whole.
// Sources are tried in a fixed order, storage directory before remote
// repository, and the first location holding a complete artifact set for a
// kind wins. Remote clones live in a staging directory that is removed when
// the run ends, whatever the outcome.
package restore
