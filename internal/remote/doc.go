// Package remote wraps the hosting-provider CLI used for interactive login
// and for cloning the repository that carries a backup bundle.
package remote
