package setup

import (
	"context"
	"fmt"
	"io"
	"os"

	"keyfob/internal/domain"
	"keyfob/internal/sshkey"
	"keyfob/internal/validate"
)

// Service walks a host through first-time configuration: collect and bind the
// identity, wire the editor and terminal, offer a provider login and, on
// request, make sure key material exists.
type Service struct {
	keys   domain.KeyStore
	binder domain.GitBinder
	remote domain.RemoteAuth
	prompt domain.Prompter
	out    io.Writer
}

func New(keys domain.KeyStore, binder domain.GitBinder, remote domain.RemoteAuth,
	p domain.Prompter, out io.Writer) *Service {
	if out == nil {
		out = os.Stdout
	}
	return &Service{keys: keys, binder: binder, remote: remote, prompt: p, out: out}
}

// Run performs the setup sequence. With generate set it also ensures an SSH
// pair and a GPG signing key exist, reusing whatever the host already has. A
// failed provider login is reported and skipped; everything else is fatal.
func (s *Service) Run(ctx context.Context, generate bool) error {
	id, err := s.collectIdentity()
	if err != nil {
		return err
	}
	if err := s.binder.BindIdentity(ctx, id); err != nil {
		return err
	}
	if err := s.binder.BindEditor(ctx); err != nil {
		return err
	}
	if err := s.binder.EnsureTTYBinding(); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "git identity bound to %s <%s>\n", id.Name, id.Email)

	login, err := s.prompt.Confirm("Log in to GitHub now?", true)
	if err != nil {
		return err
	}
	if login {
		if err := s.remote.EnsureLogin(ctx); err != nil {
			fmt.Fprintf(s.out, "login failed, continuing without a provider session: %v\n", err)
		}
	}

	if !generate {
		return nil
	}
	if err := s.ensureSSH(ctx, id); err != nil {
		return err
	}
	return s.ensureGPG(ctx)
}

// collectIdentity asks until both answers pass validation. The loops are
// unbounded: setup cannot proceed on bad input, and the operator can always
// interrupt instead.
func (s *Service) collectIdentity() (domain.Identity, error) {
	var id domain.Identity
	for {
		name, err := s.prompt.Ask("Full name: ")
		if err != nil {
			return domain.Identity{}, err
		}
		if err := validate.Name(name); err != nil {
			fmt.Fprintln(s.out, err)
			continue
		}
		id.Name = name
		break
	}
	for {
		email, err := s.prompt.Ask("Email address: ")
		if err != nil {
			return domain.Identity{}, err
		}
		if err := validate.Email(email); err != nil {
			fmt.Fprintln(s.out, err)
			continue
		}
		id.Email = email
		break
	}
	return id, nil
}

func (s *Service) ensureSSH(ctx context.Context, id domain.Identity) error {
	pair, ok, err := s.keys.DiscoverSSH()
	if err != nil {
		return err
	}
	if ok {
		fmt.Fprintf(s.out, "reusing ssh key %s\n", pair.Identifier)
	} else {
		if pair, err = s.keys.GenerateSSH(ctx, id.Email); err != nil {
			return err
		}
	}

	fp, err := sshkey.Fingerprint(pair.PublicPath)
	if err != nil {
		return err
	}
	line, err := sshkey.PublicLine(pair.PublicPath)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "ssh key %s %s\npublic key for upload:\n%s\n", pair.Identifier, fp, line)
	return nil
}

func (s *Service) ensureGPG(ctx context.Context) error {
	pair, ok, err := s.keys.DiscoverGPG(ctx)
	if err != nil {
		return err
	}
	if ok {
		fmt.Fprintf(s.out, "reusing gpg key %s\n", pair.Identifier)
	} else {
		if pair, err = s.keys.GenerateGPG(ctx); err != nil {
			return err
		}
	}

	if err := s.binder.BindSigningKey(ctx, pair.Identifier); err != nil {
		return err
	}
	armored, err := s.keys.ExportGPGPublic(ctx, pair.Identifier)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "signing key %s bound; public key for upload:\n%s\n", pair.Identifier, armored)
	return nil
}
