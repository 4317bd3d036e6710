package remote

import (
	"context"
	"fmt"

	"keyfob/internal/domain"
	"keyfob/internal/run"
)

// GH drives the GitHub CLI. Login is an opaque interactive flow owned by gh;
// only its success or failure is inspected here.
type GH struct {
	r run.Runner
}

func New(r run.Runner) *GH { return &GH{r: r} }

var _ domain.RemoteAuth = (*GH)(nil)

// EnsureLogin checks for an authenticated session and runs the interactive
// login flow when there is none.
func (g *GH) EnsureLogin(ctx context.Context) error {
	if _, err := g.r.Run(ctx, run.Cmd{Name: "gh", Args: []string{"auth", "status"}}); err == nil {
		return nil
	}
	if _, err := g.r.Run(ctx, run.Cmd{Name: "gh", Args: []string{"auth", "login"}, Interactive: true}); err != nil {
		return fmt.Errorf("gh login: %w", err)
	}
	return nil
}

// Clone checks out repo into dest using the CLI's stored credentials.
func (g *GH) Clone(ctx context.Context, repo domain.RepoRef, dest string) error {
	if _, err := g.r.Run(ctx, run.Cmd{Name: "gh", Args: []string{"repo", "clone", repo.String(), dest}}); err != nil {
		return fmt.Errorf("clone %s: %w", repo, err)
	}
	return nil
}
