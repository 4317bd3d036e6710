package prompt_test

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"keyfob/internal/prompt"
)

func TestTerminal_Ask_TrimsLine(t *testing.T) {
	var out bytes.Buffer
	p := prompt.NewTerminalIO(strings.NewReader("  alice \n"), &out)

	got, err := p.Ask("Name: ")
	if err != nil {
		t.Fatalf("ask: %v", err)
	}
	if got != "alice" {
		t.Fatalf("got %q, want %q", got, "alice")
	}
	if out.String() != "Name: " {
		t.Fatalf("prompt not written, got %q", out.String())
	}
}

func TestTerminal_Ask_LastLineWithoutNewline(t *testing.T) {
	p := prompt.NewTerminalIO(strings.NewReader("bob"), io.Discard)
	got, err := p.Ask("")
	if err != nil {
		t.Fatalf("ask: %v", err)
	}
	if got != "bob" {
		t.Fatalf("got %q, want %q", got, "bob")
	}
}

func TestTerminal_Ask_EOF(t *testing.T) {
	p := prompt.NewTerminalIO(strings.NewReader(""), io.Discard)
	if _, err := p.Ask(""); !errors.Is(err, io.EOF) {
		t.Fatalf("want io.EOF, got %v", err)
	}
}

func TestTerminal_Confirm_DefaultOnEmpty(t *testing.T) {
	p := prompt.NewTerminalIO(strings.NewReader("\n\n"), io.Discard)

	ok, err := p.Confirm("overwrite", false)
	if err != nil || ok {
		t.Fatalf("got (%v, %v), want default false", ok, err)
	}
	ok, err = p.Confirm("proceed", true)
	if err != nil || !ok {
		t.Fatalf("got (%v, %v), want default true", ok, err)
	}
}

func TestTerminal_Confirm_ReasksOnGarbage(t *testing.T) {
	var out bytes.Buffer
	p := prompt.NewTerminalIO(strings.NewReader("what\nYES\n"), &out)

	ok, err := p.Confirm("proceed", false)
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if !ok {
		t.Fatal("want true after re-ask")
	}
	if n := strings.Count(out.String(), "proceed [y/N]: "); n != 2 {
		t.Fatalf("prompt shown %d times, want 2", n)
	}
}

func TestTerminal_AskSecret_PlainFallback(t *testing.T) {
	p := prompt.NewTerminalIO(strings.NewReader("hunter2\n"), io.Discard)
	b, err := p.AskSecret("Passphrase: ")
	if err != nil {
		t.Fatalf("ask secret: %v", err)
	}
	if string(b) != "hunter2" {
		t.Fatalf("got %q", b)
	}
}

func TestScript_RepliesInOrderAndRecords(t *testing.T) {
	s := prompt.NewScript("Ada", "y", "s3cret")

	name, err := s.Ask("Name: ")
	if err != nil || name != "Ada" {
		t.Fatalf("ask: got (%q, %v)", name, err)
	}
	ok, err := s.Confirm("continue", false)
	if err != nil || !ok {
		t.Fatalf("confirm: got (%v, %v)", ok, err)
	}
	sec, err := s.AskSecret("Passphrase: ")
	if err != nil || string(sec) != "s3cret" {
		t.Fatalf("secret: got (%q, %v)", sec, err)
	}

	if _, err := s.Ask("extra"); !errors.Is(err, io.EOF) {
		t.Fatalf("exhausted script: want io.EOF, got %v", err)
	}
	want := []string{"Name: ", "continue", "Passphrase: ", "extra"}
	if len(s.Asked) != len(want) {
		t.Fatalf("asked %v, want %v", s.Asked, want)
	}
	for i := range want {
		if s.Asked[i] != want[i] {
			t.Fatalf("asked[%d] = %q, want %q", i, s.Asked[i], want[i])
		}
	}
}
