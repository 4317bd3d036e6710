package domain

import "context"

// Prompter supplies interactive answers. Implementations block indefinitely
// until the operator responds; tests substitute a scripted implementation.
type Prompter interface {
	// Ask prints the prompt and returns one trimmed line of input.
	Ask(prompt string) (string, error)
	// AskSecret reads a line without echo. The caller wipes the bytes.
	AskSecret(prompt string) ([]byte, error)
	// Confirm asks a yes/no question; def is the answer for empty input.
	Confirm(prompt string, def bool) (bool, error)
}

// PackageManager is the host package tooling behind precondition recovery:
// pkg on Termux, apt-get via sudo on Debian-like hosts. One contract,
// per-host implementations.
type PackageManager interface {
	Update(ctx context.Context) error
	Install(ctx context.Context, names ...string) error
}

// KeyStore owns discovery, generation and agent registration of the local key
// material.
type KeyStore interface {
	// DiscoverSSH looks for an ed25519 pair, then an rsa4096 pair, and
	// returns the first wholly-present one.
	DiscoverSSH() (KeyPair, bool, error)
	// GenerateSSH creates a pair with the given comment, preferring ed25519
	// and falling back to rsa4096, then registers it with the agent. An
	// existing pair of the same name is never overwritten without explicit
	// confirmation.
	GenerateSSH(ctx context.Context, comment string) (KeyPair, error)
	DiscoverGPG(ctx context.Context) (KeyPair, bool, error)
	GenerateGPG(ctx context.Context) (KeyPair, error)
	// ExportGPGPublic returns the armored public key for display. The block
	// is held in memory only; nothing is written to disk.
	ExportGPGPublic(ctx context.Context, keyID string) ([]byte, error)
}

// Bundler moves key material between the key store and a transfer location.
type Bundler interface {
	ExportSSH(pair KeyPair, dir string) (Bundle, error)
	ExportGPG(ctx context.Context, email, dir string) (Bundle, error)
	// Locate reports whether dir holds a complete artifact set for kind.
	Locate(dir string, kind Kind) (Bundle, bool)
	// ImportSSH installs the bundle's pair in the key directory. A pair of
	// the same name is never replaced without explicit confirmation.
	ImportSSH(ctx context.Context, b Bundle) (KeyPair, error)
	ImportGPG(ctx context.Context, b Bundle) (string, error)
}

// GitBinder applies validated identity and signing material to the global git
// configuration.
type GitBinder interface {
	BindIdentity(ctx context.Context, id Identity) error
	BindSigningKey(ctx context.Context, keyID string) error
	BindEditor(ctx context.Context) error
	EnsureTTYBinding() error
	// Bound reports everything this binder has applied during the session.
	Bound() Binding
}

// RemoteAuth drives the hosting-provider CLI: an opaque interactive login and
// repository cloning for remote-hosted bundles. Only success or failure of the
// login is ever inspected.
type RemoteAuth interface {
	EnsureLogin(ctx context.Context) error
	Clone(ctx context.Context, repo RepoRef, dest string) error
}
