// Package run executes external tools behind a small interface so the
// services that shell out stay testable.
package run
