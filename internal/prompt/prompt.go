package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"keyfob/internal/domain"
)

// Terminal prompts on the operator's terminal. One buffered reader is shared
// across all reads so typed-ahead input is not lost between questions.
type Terminal struct {
	in  *bufio.Reader
	out io.Writer
	fd  int
}

var _ domain.Prompter = (*Terminal)(nil)

// NewTerminal returns a Prompter on os.Stdin and os.Stdout.
func NewTerminal() *Terminal {
	return &Terminal{
		in:  bufio.NewReader(os.Stdin),
		out: os.Stdout,
		fd:  int(os.Stdin.Fd()),
	}
}

// NewTerminalIO returns a Prompter on the given streams. Secret reads fall
// back to plain lines because no terminal descriptor is available.
func NewTerminalIO(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{in: bufio.NewReader(in), out: out, fd: -1}
}

// Ask prints the prompt and returns one line with surrounding space trimmed.
func (t *Terminal) Ask(prompt string) (string, error) {
	fmt.Fprint(t.out, prompt)
	line, err := t.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// AskSecret reads a line without echo when stdin is a terminal, and falls
// back to a plain read otherwise so piped input still works.
func (t *Terminal) AskSecret(prompt string) ([]byte, error) {
	fmt.Fprint(t.out, prompt)
	if term.IsTerminal(t.fd) {
		b, err := term.ReadPassword(t.fd)
		fmt.Fprintln(t.out)
		if err != nil {
			return nil, err
		}
		return b, nil
	}
	line, err := t.in.ReadString('\n')
	if err != nil && line == "" {
		return nil, err
	}
	return []byte(strings.TrimSpace(line)), nil
}

// Confirm asks a yes/no question. Empty input selects def; y/yes and n/no are
// matched case-insensitively and anything else re-asks.
func (t *Terminal) Confirm(prompt string, def bool) (bool, error) {
	suffix := " [y/N]: "
	if def {
		suffix = " [Y/n]: "
	}
	for {
		ans, err := t.Ask(prompt + suffix)
		if err != nil {
			return false, err
		}
		switch strings.ToLower(ans) {
		case "":
			return def, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
	}
}
