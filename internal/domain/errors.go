package domain

import "errors"

// Error taxonomy. InvalidEmail is always recovered locally by re-prompting;
// ToolMissing is recovered once via the package manager and is fatal on the
// second check; everything else is fatal and terminates the run with a
// diagnostic. Wrap these with %w so callers can errors.Is them.
var (
	// ErrInvalidEmail is returned by the validator for input that does not
	// match the local@domain.tld grammar.
	ErrInvalidEmail = errors.New("invalid email address")

	// ErrBundleNotFound means no checked transfer location held a complete
	// artifact set for the requested kind.
	ErrBundleNotFound = errors.New("no complete backup bundle found")

	// ErrInconsistentBundle means a transfer location held some but not all
	// artifacts of a set. Nothing is imported from such a bundle.
	ErrInconsistentBundle = errors.New("backup bundle is incomplete")

	// ErrToolMissing means a required external tool is absent even after one
	// package-manager install attempt.
	ErrToolMissing = errors.New("required tool is not installed")

	// ErrGenerationFailure means key generation failed with no fallback left:
	// for SSH both ed25519 and rsa4096 failed, for GPG the single attempt.
	ErrGenerationFailure = errors.New("key generation failed")

	// ErrPartialKeyPair means exactly one of a pair's two files exists on
	// disk. The pair is neither usable nor safely regenerable, so every
	// operation refuses to proceed past it.
	ErrPartialKeyPair = errors.New("key pair is only partially present")

	// ErrKeyExists means an import would replace key material already in
	// place and the operator declined the overwrite. Nothing was moved.
	ErrKeyExists = errors.New("key material already in place")
)
