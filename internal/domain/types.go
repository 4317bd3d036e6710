package domain

// Identity is the user identity bound into git configuration and embedded in
// key comments. It is collected once per session from interactive input and is
// immutable afterwards; keyfob never persists it itself, only the external git
// configuration store does.
type Identity struct {
	Name  string
	Email string
}

// Kind tags key material as SSH or GPG.
type Kind int

const (
	KindSSH Kind = iota
	KindGPG
)

func (k Kind) String() string {
	switch k {
	case KindSSH:
		return "ssh"
	case KindGPG:
		return "gpg"
	}
	return "unknown"
}

// Algorithm identifies the concrete algorithm of a key pair. SSH pairs are
// ed25519 by preference with rsa4096 as the generation fallback; GPG key
// parameters are chosen inside the external GPG tool.
type Algorithm string

const (
	AlgoEd25519 Algorithm = "ed25519"
	AlgoRSA4096 Algorithm = "rsa4096"
	AlgoGPG     Algorithm = "gpg"
)

// KeyPair describes one wholly-present key pair. For SSH the Identifier is the
// key file basename and both paths point at the on-disk pair; for GPG the
// Identifier is the long key ID and the material lives in the GPG keyring, so
// the paths are empty. A pair with only one of its two files present is not a
// KeyPair; it is an inconsistent state reported as ErrPartialKeyPair.
type KeyPair struct {
	Kind        Kind
	Algorithm   Algorithm
	Identifier  string
	PublicPath  string
	PrivatePath string
}

// Artifact basenames inside a bundle. These are the wire contract with the
// transfer medium: a storage directory or repository holding a backup uses
// exactly these names. The SSH basenames double as the key file names in the
// local key directory.
const (
	ArtifactSSHEd25519    = "id_ed25519"
	ArtifactSSHRSA        = "id_rsa"
	ArtifactGPGPublic     = "id_gpg_public"
	ArtifactGPGPrivate    = "id_gpg_private"
	ArtifactGPGOwnertrust = "gpg_ownertrust"
)

// Bundle is a complete, filesystem-serialized export of one key pair, rooted
// at a transfer location. Public and Private are absolute artifact paths;
// Trust is set for GPG bundles only and is mandatory there, because GPG trust
// state does not survive a key import alone.
type Bundle struct {
	Kind    Kind
	Dir     string
	Public  string
	Private string
	Trust   string
}

// Artifacts returns the artifact paths present in the bundle, in import order.
func (b Bundle) Artifacts() []string {
	paths := []string{b.Public, b.Private}
	if b.Trust != "" {
		paths = append(paths, b.Trust)
	}
	return paths
}

// Binding mirrors the slice of global git configuration keyfob manages.
type Binding struct {
	Identity       Identity
	SigningKeyID   string
	SigningEnabled bool
	Editor         string
}

// RepoRef identifies a remote-hosted repository used as a transfer medium.
type RepoRef struct {
	Owner string `yaml:"owner"`
	Name  string `yaml:"name"`
}

func (r RepoRef) String() string { return r.Owner + "/" + r.Name }

// Operation is the closed set of things keyfob can be asked to do. The
// interactive menu and the subcommands both resolve to one of these and are
// dispatched through a single table.
type Operation int

const (
	OpSetup Operation = iota
	OpSetupGenerate
	OpBackupSSH
	OpBackupGPG
	OpRestoreSSH
	OpRestoreGPG
	OpRestoreRemote
)

func (o Operation) String() string {
	switch o {
	case OpSetup:
		return "setup"
	case OpSetupGenerate:
		return "setup with key generation"
	case OpBackupSSH:
		return "backup ssh"
	case OpBackupGPG:
		return "backup gpg"
	case OpRestoreSSH:
		return "restore ssh"
	case OpRestoreGPG:
		return "restore gpg"
	case OpRestoreRemote:
		return "restore from remote"
	}
	return "unknown"
}
