package bundle

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"keyfob/internal/domain"
	"keyfob/internal/gpg"
	"keyfob/internal/sshkey"
	"keyfob/internal/util/wipe"
)

// Service moves key material between the local key store and a transfer
// location. Exports copy; imports move, so that no successful import leaves
// plaintext private material behind at the source.
type Service struct {
	gpg    *gpg.Tool
	agent  *sshkey.Agent
	prompt domain.Prompter
	keyDir string
}

func New(g *gpg.Tool, agent *sshkey.Agent, p domain.Prompter, keyDir string) *Service {
	return &Service{gpg: g, agent: agent, prompt: p, keyDir: keyDir}
}

var _ domain.Bundler = (*Service)(nil)

// ExportSSH copies the pair's two files into dir under their artifact names.
func (s *Service) ExportSSH(pair domain.KeyPair, dir string) (domain.Bundle, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return domain.Bundle{}, err
	}
	b := domain.Bundle{
		Kind:    domain.KindSSH,
		Dir:     dir,
		Public:  filepath.Join(dir, pair.Identifier+".pub"),
		Private: filepath.Join(dir, pair.Identifier),
	}
	if err := copyFile(pair.PrivatePath, b.Private, 0o600); err != nil {
		return domain.Bundle{}, fmt.Errorf("export private key: %w", err)
	}
	if err := copyFile(pair.PublicPath, b.Public, 0o644); err != nil {
		return domain.Bundle{}, fmt.Errorf("export public key: %w", err)
	}
	return b, nil
}

// ExportGPG produces the three GPG artifacts for the key identified by
// email: armored public key, armored secret key and the ownertrust export.
// All three are written owner-only; the set is a plaintext secret.
func (s *Service) ExportGPG(ctx context.Context, email, dir string) (domain.Bundle, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return domain.Bundle{}, err
	}
	b := domain.Bundle{
		Kind:    domain.KindGPG,
		Dir:     dir,
		Public:  filepath.Join(dir, domain.ArtifactGPGPublic),
		Private: filepath.Join(dir, domain.ArtifactGPGPrivate),
		Trust:   filepath.Join(dir, domain.ArtifactGPGOwnertrust),
	}

	pub, err := s.gpg.ExportPublic(ctx, email)
	if err != nil {
		return domain.Bundle{}, err
	}
	if err := writeFile(b.Public, pub, 0o600); err != nil {
		return domain.Bundle{}, err
	}

	sec, err := s.gpg.ExportSecret(ctx, email)
	if err != nil {
		return domain.Bundle{}, err
	}
	err = writeFile(b.Private, sec, 0o600)
	wipe.Bytes(sec)
	if err != nil {
		return domain.Bundle{}, err
	}

	trust, err := s.gpg.ExportOwnertrust(ctx)
	if err != nil {
		return domain.Bundle{}, err
	}
	if err := writeFile(b.Trust, trust, 0o600); err != nil {
		return domain.Bundle{}, err
	}
	return b, nil
}

// Locate reports whether dir holds a complete artifact set for kind. A
// partial set does not count; completeness is re-verified at import time.
func (s *Service) Locate(dir string, kind domain.Kind) (domain.Bundle, bool) {
	switch kind {
	case domain.KindSSH:
		for _, base := range []string{domain.ArtifactSSHEd25519, domain.ArtifactSSHRSA} {
			priv := filepath.Join(dir, base)
			pub := priv + ".pub"
			if fileExists(priv) && fileExists(pub) {
				return domain.Bundle{Kind: kind, Dir: dir, Public: pub, Private: priv}, true
			}
		}
	case domain.KindGPG:
		b := domain.Bundle{
			Kind:    kind,
			Dir:     dir,
			Public:  filepath.Join(dir, domain.ArtifactGPGPublic),
			Private: filepath.Join(dir, domain.ArtifactGPGPrivate),
			Trust:   filepath.Join(dir, domain.ArtifactGPGOwnertrust),
		}
		if fileExists(b.Public) && fileExists(b.Private) && fileExists(b.Trust) {
			return b, true
		}
	}
	return domain.Bundle{}, false
}

// ImportSSH moves the pair into the key directory, tightens permissions and
// registers the private key with the agent. Both artifacts must be present;
// nothing is imported from a partial set. A pair already at the destination
// is replaced only after explicit confirmation, otherwise ErrKeyExists.
func (s *Service) ImportSSH(ctx context.Context, b domain.Bundle) (domain.KeyPair, error) {
	if !fileExists(b.Private) || !fileExists(b.Public) {
		return domain.KeyPair{}, fmt.Errorf("%w: ssh artifacts in %s", domain.ErrInconsistentBundle, b.Dir)
	}

	base := filepath.Base(b.Private)
	algo := domain.AlgoEd25519
	if base == domain.ArtifactSSHRSA {
		algo = domain.AlgoRSA4096
	}
	if err := os.MkdirAll(s.keyDir, 0o700); err != nil {
		return domain.KeyPair{}, err
	}

	pair := domain.KeyPair{
		Kind:        domain.KindSSH,
		Algorithm:   algo,
		Identifier:  base,
		PublicPath:  filepath.Join(s.keyDir, base+".pub"),
		PrivatePath: filepath.Join(s.keyDir, base),
	}
	if fileExists(pair.PrivatePath) || fileExists(pair.PublicPath) {
		overwrite, err := s.prompt.Confirm(
			fmt.Sprintf("An SSH key pair (%s) already exists. Replace it with the backup?", base), false)
		if err != nil {
			return domain.KeyPair{}, err
		}
		if !overwrite {
			return domain.KeyPair{}, fmt.Errorf("%s: %w", base, domain.ErrKeyExists)
		}
	}
	if err := moveFile(b.Private, pair.PrivatePath, 0o600); err != nil {
		return domain.KeyPair{}, fmt.Errorf("import private key: %w", err)
	}
	if err := moveFile(b.Public, pair.PublicPath, 0o644); err != nil {
		return domain.KeyPair{}, fmt.Errorf("import public key: %w", err)
	}

	if err := s.agent.AddKey(ctx, pair.PrivatePath, base, s.prompt); err != nil {
		return domain.KeyPair{}, err
	}
	return pair, nil
}

// ImportGPG imports public key, secret key and ownertrust, in that order,
// then opens the trust dialogue: imported ownertrust alone does not always
// yield a usable signing trust level. The source artifacts are removed once
// everything succeeded. Returns the imported key's long ID.
func (s *Service) ImportGPG(ctx context.Context, b domain.Bundle) (string, error) {
	for _, p := range b.Artifacts() {
		if !fileExists(p) {
			return "", fmt.Errorf("%w: missing %s in %s", domain.ErrInconsistentBundle, filepath.Base(p), b.Dir)
		}
	}

	armored, err := os.ReadFile(b.Public)
	if err != nil {
		return "", err
	}
	info, err := gpg.Describe(armored)
	if err != nil {
		return "", fmt.Errorf("inspect %s: %w", filepath.Base(b.Public), err)
	}

	if err := s.gpg.ImportKey(ctx, b.Public); err != nil {
		return "", err
	}
	if err := s.gpg.ImportKey(ctx, b.Private); err != nil {
		return "", err
	}
	if err := s.gpg.ImportOwnertrust(ctx, b.Trust); err != nil {
		return "", err
	}
	if err := s.gpg.EditTrust(ctx, info.KeyID); err != nil {
		return "", err
	}

	for _, p := range b.Artifacts() {
		if err := os.Remove(p); err != nil {
			return "", fmt.Errorf("remove imported artifact: %w", err)
		}
	}
	return info.KeyID, nil
}
