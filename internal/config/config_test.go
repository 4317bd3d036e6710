package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"keyfob/internal/config"
	"keyfob/internal/domain"
)

func TestDetectProfile(t *testing.T) {
	t.Setenv("TERMUX_VERSION", "")
	t.Setenv("PREFIX", "")
	if got := config.DetectProfile(); got != config.ProfileDebian {
		t.Fatalf("got %q, want debian", got)
	}

	t.Setenv("TERMUX_VERSION", "0.118.0")
	if got := config.DetectProfile(); got != config.ProfileTermux {
		t.Fatalf("got %q, want termux", got)
	}

	t.Setenv("TERMUX_VERSION", "")
	t.Setenv("PREFIX", "/data/data/com.termux/files/usr")
	if got := config.DetectProfile(); got != config.ProfileTermux {
		t.Fatalf("got %q, want termux via PREFIX", got)
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("TERMUX_VERSION", "")
	t.Setenv("PREFIX", "")

	cfg, err := config.Load(filepath.Join(home, "nope", "config.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Profile != config.ProfileDebian {
		t.Fatalf("profile = %q, want debian", cfg.Profile)
	}
	if cfg.KeyDir != filepath.Join(home, ".ssh") {
		t.Fatalf("key dir = %q", cfg.KeyDir)
	}
	if cfg.StorageDir != filepath.Join(home, "Downloads") {
		t.Fatalf("storage dir = %q", cfg.StorageDir)
	}
	if cfg.ShellRC != filepath.Join(home, ".bashrc") {
		t.Fatalf("shell rc = %q", cfg.ShellRC)
	}
}

func TestLoad_PartialFileFillsProfileDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := filepath.Join(home, "config.yaml")
	body := "profile: termux\nbackup_repo:\n  owner: octocat\n  name: dotkeys\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Profile != config.ProfileTermux {
		t.Fatalf("profile = %q, want termux", cfg.Profile)
	}
	if cfg.StorageDir != filepath.Join(home, "storage", "downloads") {
		t.Fatalf("storage dir = %q, want termux default", cfg.StorageDir)
	}
	want := domain.RepoRef{Owner: "octocat", Name: "dotkeys"}
	if cfg.BackupRepo != want {
		t.Fatalf("backup repo = %+v, want %+v", cfg.BackupRepo, want)
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := filepath.Join(home, ".config", "keyfob", "config.yaml")
	in := &config.Config{
		Profile:    config.ProfileDebian,
		KeyDir:     "/tmp/keys",
		StorageDir: "/tmp/transfer",
		ShellRC:    "/tmp/rc",
		BackupRepo: domain.RepoRef{Owner: "octocat", Name: "dotkeys"},
	}
	if err := config.Save(path, in); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := config.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if *got != *in {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, in)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("config mode = %o, want 600", info.Mode().Perm())
	}
	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("save left extra files behind: %v", entries)
	}
}
