package sshkey

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"keyfob/internal/domain"
	"keyfob/internal/run"
)

// Tool generates and discovers SSH key pairs in one key directory.
type Tool struct {
	r      run.Runner
	keyDir string
}

func New(r run.Runner, keyDir string) *Tool {
	return &Tool{r: r, keyDir: keyDir}
}

// KeyDir returns the directory the tool operates in.
func (t *Tool) KeyDir() string { return t.keyDir }

// Discover looks for an ed25519 pair, then an rsa4096 pair, and returns the
// first wholly-present one. A pair with exactly one file on disk is reported
// as ErrPartialKeyPair rather than treated as absent.
func (t *Tool) Discover() (domain.KeyPair, bool, error) {
	for _, c := range []struct {
		base string
		algo domain.Algorithm
	}{
		{domain.ArtifactSSHEd25519, domain.AlgoEd25519},
		{domain.ArtifactSSHRSA, domain.AlgoRSA4096},
	} {
		priv := filepath.Join(t.keyDir, c.base)
		pub := priv + ".pub"
		havePriv := fileExists(priv)
		havePub := fileExists(pub)
		switch {
		case havePriv && havePub:
			return domain.KeyPair{
				Kind:        domain.KindSSH,
				Algorithm:   c.algo,
				Identifier:  c.base,
				PublicPath:  pub,
				PrivatePath: priv,
			}, true, nil
		case havePriv != havePub:
			return domain.KeyPair{}, false, fmt.Errorf("%w: %s", domain.ErrPartialKeyPair, c.base)
		}
	}
	return domain.KeyPair{}, false, nil
}

// Generate creates a pair with the given comment, preferring ed25519 and
// falling back to rsa4096 when the installed ssh-keygen rejects it.
// ssh-keygen runs attached to the terminal so the operator answers its
// passphrase prompts directly.
func (t *Tool) Generate(ctx context.Context, comment string) (domain.KeyPair, error) {
	if err := os.MkdirAll(t.keyDir, 0o700); err != nil {
		return domain.KeyPair{}, err
	}
	pair, edErr := t.generate(ctx, domain.AlgoEd25519, comment)
	if edErr == nil {
		return pair, nil
	}
	pair, rsaErr := t.generate(ctx, domain.AlgoRSA4096, comment)
	if rsaErr != nil {
		return domain.KeyPair{}, fmt.Errorf("%w: ed25519: %v; rsa4096: %v",
			domain.ErrGenerationFailure, edErr, rsaErr)
	}
	return pair, nil
}

func (t *Tool) generate(ctx context.Context, algo domain.Algorithm, comment string) (domain.KeyPair, error) {
	base := domain.ArtifactSSHEd25519
	args := []string{"-t", "ed25519"}
	if algo == domain.AlgoRSA4096 {
		base = domain.ArtifactSSHRSA
		args = []string{"-t", "rsa", "-b", "4096"}
	}
	priv := filepath.Join(t.keyDir, base)
	args = append(args, "-C", comment, "-f", priv)

	if _, err := t.r.Run(ctx, run.Cmd{Name: "ssh-keygen", Args: args, Interactive: true}); err != nil {
		return domain.KeyPair{}, err
	}
	// ssh-keygen writes 0600 itself; re-assert in case of exotic umasks.
	if err := os.Chmod(priv, 0o600); err != nil {
		return domain.KeyPair{}, fmt.Errorf("tighten %s: %w", priv, err)
	}
	if err := os.Chmod(priv+".pub", 0o644); err != nil {
		return domain.KeyPair{}, fmt.Errorf("chmod %s: %w", priv+".pub", err)
	}
	return domain.KeyPair{
		Kind:        domain.KindSSH,
		Algorithm:   algo,
		Identifier:  base,
		PublicPath:  priv + ".pub",
		PrivatePath: priv,
	}, nil
}

// Remove deletes both files of pair. Used after an explicit overwrite
// confirmation, never implicitly.
func (t *Tool) Remove(pair domain.KeyPair) error {
	for _, p := range []string{pair.PrivatePath, pair.PublicPath} {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

const stashSuffix = ".old"

// Stash renames the pair's files aside so a regeneration cannot clobber the
// only copy. The returned pair points at the set-aside files; put them back
// with Unstash, or drop them with Remove once a replacement exists.
func (t *Tool) Stash(pair domain.KeyPair) (domain.KeyPair, error) {
	stashed := pair
	stashed.PrivatePath += stashSuffix
	stashed.PublicPath += stashSuffix
	if err := os.Rename(pair.PrivatePath, stashed.PrivatePath); err != nil {
		return domain.KeyPair{}, err
	}
	if err := os.Rename(pair.PublicPath, stashed.PublicPath); err != nil {
		_ = os.Rename(stashed.PrivatePath, pair.PrivatePath)
		return domain.KeyPair{}, err
	}
	return stashed, nil
}

// Unstash undoes Stash, restoring the original file names.
func (t *Tool) Unstash(stashed domain.KeyPair) error {
	for _, p := range []string{stashed.PrivatePath, stashed.PublicPath} {
		if err := os.Rename(p, strings.TrimSuffix(p, stashSuffix)); err != nil {
			return err
		}
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
