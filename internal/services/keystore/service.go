package keystore

import (
	"context"
	"fmt"

	"keyfob/internal/domain"
	"keyfob/internal/gpg"
	"keyfob/internal/sshkey"
)

// Service owns the local key material: discovery and generation of SSH and
// GPG pairs, registration of SSH keys with the agent, and armored public
// export for upload to a hosting provider.
type Service struct {
	ssh    *sshkey.Tool
	agent  *sshkey.Agent
	gpg    *gpg.Tool
	prompt domain.Prompter
}

func New(ssh *sshkey.Tool, agent *sshkey.Agent, g *gpg.Tool, p domain.Prompter) *Service {
	return &Service{ssh: ssh, agent: agent, gpg: g, prompt: p}
}

var _ domain.KeyStore = (*Service)(nil)

// DiscoverSSH checks the key directory for an ed25519 pair, then an rsa4096
// pair, and returns the first wholly-present one.
func (s *Service) DiscoverSSH() (domain.KeyPair, bool, error) {
	return s.ssh.Discover()
}

// GenerateSSH creates a pair with the given comment and registers it with
// the agent. When a pair already exists the operator must confirm the
// overwrite explicitly; declining keeps the existing pair and returns it.
// A confirmed overwrite only sets the old pair aside until the replacement
// exists, so a failed generation never leaves the host keyless.
func (s *Service) GenerateSSH(ctx context.Context, comment string) (domain.KeyPair, error) {
	existing, ok, err := s.ssh.Discover()
	if err != nil {
		return domain.KeyPair{}, err
	}
	var stashed domain.KeyPair
	if ok {
		overwrite, err := s.prompt.Confirm(
			fmt.Sprintf("An SSH key pair (%s) already exists. Overwrite it?", existing.Identifier), false)
		if err != nil {
			return domain.KeyPair{}, err
		}
		if !overwrite {
			if err := s.agent.AddKey(ctx, existing.PrivatePath, comment, s.prompt); err != nil {
				return domain.KeyPair{}, err
			}
			return existing, nil
		}
		if stashed, err = s.ssh.Stash(existing); err != nil {
			return domain.KeyPair{}, err
		}
	}

	pair, err := s.ssh.Generate(ctx, comment)
	if err != nil {
		if ok {
			if rerr := s.ssh.Unstash(stashed); rerr != nil {
				return domain.KeyPair{}, fmt.Errorf("%w; restoring the previous pair failed too: %v", err, rerr)
			}
		}
		return domain.KeyPair{}, err
	}
	if ok {
		if err := s.ssh.Remove(stashed); err != nil {
			return domain.KeyPair{}, err
		}
	}
	if err := s.agent.AddKey(ctx, pair.PrivatePath, comment, s.prompt); err != nil {
		return domain.KeyPair{}, err
	}
	return pair, nil
}

// DiscoverGPG returns the newest key in the secret keyring, if any.
func (s *Service) DiscoverGPG(ctx context.Context) (domain.KeyPair, bool, error) {
	keys, err := s.gpg.ListSecretKeys(ctx)
	if err != nil {
		return domain.KeyPair{}, false, err
	}
	newest, ok := newestKey(keys)
	if !ok {
		return domain.KeyPair{}, false, nil
	}
	return gpgPair(newest.ID), true, nil
}

// GenerateGPG runs the interactive generation dialogue and returns the key
// it produced. GPG generation has no fallback: any failure, including gpg
// reporting no secret key afterwards, is a GenerationFailure.
func (s *Service) GenerateGPG(ctx context.Context) (domain.KeyPair, error) {
	if err := s.gpg.Generate(ctx); err != nil {
		return domain.KeyPair{}, fmt.Errorf("%w: %v", domain.ErrGenerationFailure, err)
	}
	keys, err := s.gpg.ListSecretKeys(ctx)
	if err != nil {
		return domain.KeyPair{}, err
	}
	newest, ok := newestKey(keys)
	if !ok {
		return domain.KeyPair{}, fmt.Errorf("%w: no secret key present after generation", domain.ErrGenerationFailure)
	}
	return gpgPair(newest.ID), nil
}

// ExportGPGPublic returns the armored public key for display. The block is
// held in memory only.
func (s *Service) ExportGPGPublic(ctx context.Context, keyID string) ([]byte, error) {
	return s.gpg.ExportPublic(ctx, keyID)
}

func newestKey(keys []gpg.SecretKey) (gpg.SecretKey, bool) {
	if len(keys) == 0 {
		return gpg.SecretKey{}, false
	}
	newest := keys[0]
	for _, k := range keys[1:] {
		if k.Created.After(newest.Created) {
			newest = k
		}
	}
	return newest, true
}

func gpgPair(id string) domain.KeyPair {
	return domain.KeyPair{Kind: domain.KindGPG, Algorithm: domain.AlgoGPG, Identifier: id}
}
