// Package gitcfg wraps the git config command line for global settings.
package gitcfg
