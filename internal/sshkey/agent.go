package sshkey

import (
	"context"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"

	"keyfob/internal/domain"
	"keyfob/internal/run"
	"keyfob/internal/util/wipe"
)

// Agent registers private keys with the user's ssh-agent, starting one when
// SSH_AUTH_SOCK points nowhere.
type Agent struct {
	r run.Runner
}

func NewAgent(r run.Runner) *Agent { return &Agent{r: r} }

// AddKey loads the private key at path and hands it to the agent. Encrypted
// keys get their passphrase from p, re-asked until decryption succeeds.
func (a *Agent) AddKey(ctx context.Context, path, comment string, p domain.Prompter) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	key, err := ssh.ParseRawPrivateKey(raw)
	if err != nil {
		var missing *ssh.PassphraseMissingError
		if !errors.As(err, &missing) {
			return fmt.Errorf("parse %s: %w", path, err)
		}
		key, err = decrypt(raw, path, p)
		if err != nil {
			return err
		}
	}

	client, conn, err := a.connect(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := client.Add(agent.AddedKey{PrivateKey: key, Comment: comment}); err != nil {
		return fmt.Errorf("agent add %s: %w", filepath.Base(path), err)
	}
	return nil
}

func decrypt(raw []byte, path string, p domain.Prompter) (any, error) {
	for {
		pass, err := p.AskSecret(fmt.Sprintf("Enter passphrase for %s: ", filepath.Base(path)))
		if err != nil {
			return nil, err
		}
		key, err := ssh.ParseRawPrivateKeyWithPassphrase(raw, pass)
		wipe.Bytes(pass)
		if err == nil {
			return key, nil
		}
		if !errors.Is(err, x509.IncorrectPasswordError) {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}
}

// connect dials SSH_AUTH_SOCK, starting an agent process and exporting its
// socket into this process environment when the variable is unset.
func (a *Agent) connect(ctx context.Context) (agent.ExtendedAgent, io.Closer, error) {
	sock := os.Getenv("SSH_AUTH_SOCK")
	if sock == "" {
		out, err := a.r.Run(ctx, run.Cmd{Name: "ssh-agent", Args: []string{"-s"}})
		if err != nil {
			return nil, nil, fmt.Errorf("start ssh-agent: %w", err)
		}
		var pid string
		sock, pid, err = parseAgentOutput(string(out))
		if err != nil {
			return nil, nil, err
		}
		os.Setenv("SSH_AUTH_SOCK", sock)
		if pid != "" {
			os.Setenv("SSH_AGENT_PID", pid)
		}
	}
	conn, err := net.Dial("unix", sock)
	if err != nil {
		return nil, nil, fmt.Errorf("dial ssh-agent: %w", err)
	}
	return agent.NewClient(conn), conn, nil
}

// parseAgentOutput extracts SSH_AUTH_SOCK and SSH_AGENT_PID from the
// bourne-style output of ssh-agent -s.
func parseAgentOutput(out string) (sock, pid string, err error) {
	for _, line := range strings.Split(out, "\n") {
		for _, stmt := range strings.Split(line, ";") {
			stmt = strings.TrimSpace(stmt)
			if v, ok := strings.CutPrefix(stmt, "SSH_AUTH_SOCK="); ok {
				sock = v
			}
			if v, ok := strings.CutPrefix(stmt, "SSH_AGENT_PID="); ok {
				pid = v
			}
		}
	}
	if sock == "" {
		return "", "", fmt.Errorf("ssh-agent output: no SSH_AUTH_SOCK in %q", out)
	}
	return sock, pid, nil
}
