package commands

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRoot_WritesDefaultsOnFirstRun(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("TERMUX_VERSION", "")
	t.Setenv("PREFIX", "")

	path := filepath.Join(home, "conf", "config.yaml")
	root := newRoot()
	root.SetArgs([]string{"--config", path, "backup", "ssh"})
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)

	// backup ssh fails on an empty host; the pre-run must still have
	// persisted the detected defaults.
	if err := root.Execute(); err == nil {
		t.Fatal("backup ssh with no key pair: want error")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("config not written on first run: %v", err)
	}
	if !strings.Contains(string(data), "profile: debian") {
		t.Fatalf("written config:\n%s", data)
	}
	if !strings.Contains(string(data), filepath.Join(home, ".ssh")) {
		t.Fatalf("config lacks the detected key dir:\n%s", data)
	}
}

func TestRoot_LeavesExistingConfigAlone(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := filepath.Join(home, "config.yaml")
	body := "profile: termux\nkey_dir: /nowhere/keys\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("seed config: %v", err)
	}

	root := newRoot()
	root.SetArgs([]string{"--config", path, "backup", "ssh"})
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	_ = root.Execute() // fails on discovery; the config must survive as-is

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	if string(data) != body {
		t.Fatalf("config rewritten:\n%s", data)
	}
}
