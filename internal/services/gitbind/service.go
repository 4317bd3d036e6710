package gitbind

import (
	"context"
	"fmt"
	"os"
	"strings"

	"keyfob/internal/domain"
	"keyfob/internal/gitcfg"
)

// ttyLine routes pinentry to the controlling terminal. Without it gpg cannot
// ask for the key passphrase when git signs a commit over ssh or in tmux.
const ttyLine = `export GPG_TTY=$(tty)`

// Service writes identity and signing bindings to the global git
// configuration and keeps the shell startup file pointing GPG at the
// terminal. All git writes are last-write-wins. The service tracks what the
// session has bound so far; SigningEnabled only ever moves to true.
type Service struct {
	git     *gitcfg.Tool
	shellRC string
	bound   domain.Binding
}

var _ domain.GitBinder = (*Service)(nil)

// New returns a binder writing through git and appending to the shell
// startup file at shellRC.
func New(git *gitcfg.Tool, shellRC string) *Service {
	return &Service{git: git, shellRC: shellRC}
}

// Bound reports the bindings applied in this session.
func (s *Service) Bound() domain.Binding { return s.bound }

// BindIdentity records the commit author in the global configuration.
func (s *Service) BindIdentity(ctx context.Context, id domain.Identity) error {
	if err := s.git.Set(ctx, "user.name", id.Name); err != nil {
		return err
	}
	if err := s.git.Set(ctx, "user.email", id.Email); err != nil {
		return err
	}
	s.bound.Identity = id
	return nil
}

// BindSigningKey routes commit signatures through keyID and switches signing
// on. There is no disable path: once bound, signing stays on.
func (s *Service) BindSigningKey(ctx context.Context, keyID string) error {
	if err := s.git.Set(ctx, "user.signingkey", keyID); err != nil {
		return err
	}
	if err := s.git.Set(ctx, "commit.gpgsign", "true"); err != nil {
		return err
	}
	s.bound.SigningKeyID = keyID
	s.bound.SigningEnabled = true
	return nil
}

// BindEditor sets the commit message editor. The choice is fixed: vim is
// present on every host profile this tool targets.
func (s *Service) BindEditor(ctx context.Context) error {
	if err := s.git.Set(ctx, "core.editor", "vim"); err != nil {
		return err
	}
	s.bound.Editor = "vim"
	return nil
}

// EnsureTTYBinding appends the GPG_TTY export to the shell startup file,
// creating the file if needed. A file that already carries the line is left
// untouched, so repeated setups and restores stay idempotent.
func (s *Service) EnsureTTYBinding() error {
	data, err := os.ReadFile(s.shellRC)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("read %s: %w", s.shellRC, err)
	}
	for _, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) == ttyLine {
			return nil
		}
	}

	f, err := os.OpenFile(s.shellRC, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", s.shellRC, err)
	}
	prefix := ""
	if len(data) > 0 && data[len(data)-1] != '\n' {
		prefix = "\n"
	}
	if _, err := fmt.Fprintf(f, "%s%s\n", prefix, ttyLine); err != nil {
		f.Close()
		return fmt.Errorf("append to %s: %w", s.shellRC, err)
	}
	return f.Close()
}
