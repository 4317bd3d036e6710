package gitcfg

import (
	"context"
	"fmt"

	"keyfob/internal/run"
)

// Tool writes to the global git configuration store. Set operations are
// last-write-wins, matching git's own semantics.
type Tool struct {
	r run.Runner
}

func New(r run.Runner) *Tool { return &Tool{r: r} }

// Set writes key=value into the global configuration.
func (t *Tool) Set(ctx context.Context, key, value string) error {
	if _, err := t.r.Run(ctx, run.Cmd{Name: "git", Args: []string{"config", "--global", key, value}}); err != nil {
		return fmt.Errorf("git config %s: %w", key, err)
	}
	return nil
}
