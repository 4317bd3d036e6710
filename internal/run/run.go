package run

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Cmd describes one external tool invocation.
type Cmd struct {
	Name  string
	Args  []string
	Stdin io.Reader

	// Interactive attaches the tool to the operator's terminal instead of
	// capturing output. Required by tools that drive their own UI, such as
	// gpg key generation and gh auth login.
	Interactive bool
}

// Runner executes external tools. Exec shells out on the host; tests
// substitute a scripted implementation.
type Runner interface {
	// Run executes c and returns its captured standard output. Interactive
	// commands return no output. Stderr is folded into the error.
	Run(ctx context.Context, c Cmd) ([]byte, error)
	// LookPath resolves name to an executable on PATH.
	LookPath(name string) (string, error)
}

// Exec runs commands on the host.
type Exec struct{}

var _ Runner = (*Exec)(nil)

func (Exec) Run(ctx context.Context, c Cmd) ([]byte, error) {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	if c.Interactive {
		cmd.Stdin = os.Stdin
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		if err := cmd.Run(); err != nil {
			return nil, fmt.Errorf("%s: %w", c.Name, err)
		}
		return nil, nil
	}

	var out, errs bytes.Buffer
	cmd.Stdin = c.Stdin
	cmd.Stdout = &out
	cmd.Stderr = &errs
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(errs.String()); msg != "" {
			return out.Bytes(), fmt.Errorf("%s: %w: %s", c.Name, err, msg)
		}
		return out.Bytes(), fmt.Errorf("%s: %w", c.Name, err)
	}
	return out.Bytes(), nil
}

func (Exec) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}
