// Package config loads the keyfob configuration file and detects the host
// profile that selects package tooling and storage defaults.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"keyfob/internal/domain"
)

// Profile names the host flavor keyfob is running on.
type Profile string

const (
	// ProfileTermux is Android's Termux environment: pkg, shared storage
	// under ~/storage.
	ProfileTermux Profile = "termux"
	// ProfileDebian covers Debian-like hosts: apt-get via sudo, ~/Downloads.
	ProfileDebian Profile = "debian"
)

// Config is the on-disk configuration. Empty fields fall back to the profile
// defaults when loaded.
type Config struct {
	Profile    Profile        `yaml:"profile,omitempty"`
	KeyDir     string         `yaml:"key_dir,omitempty"`
	StorageDir string         `yaml:"storage_dir,omitempty"`
	ShellRC    string         `yaml:"shell_rc,omitempty"`
	BackupRepo domain.RepoRef `yaml:"backup_repo,omitempty"`
}

// DetectProfile inspects the environment for Termux markers.
func DetectProfile() Profile {
	if os.Getenv("TERMUX_VERSION") != "" || strings.Contains(os.Getenv("PREFIX"), "com.termux") {
		return ProfileTermux
	}
	return ProfileDebian
}

// Default returns the configuration for profile with every field filled.
func Default(profile Profile) *Config {
	home, _ := os.UserHomeDir()

	storage := filepath.Join(home, "Downloads")
	if profile == ProfileTermux {
		storage = filepath.Join(home, "storage", "downloads")
	}
	return &Config{
		Profile:    profile,
		KeyDir:     filepath.Join(home, ".ssh"),
		StorageDir: storage,
		ShellRC:    filepath.Join(home, ".bashrc"),
	}
}

// DefaultPath returns the default configuration file path.
func DefaultPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "keyfob", "config.yaml")
}

// Load reads the configuration at path, falling back to profile defaults for
// a missing file or for any field left empty.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(DetectProfile()), nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	if cfg.Profile == "" {
		cfg.Profile = DetectProfile()
	}
	def := Default(cfg.Profile)
	if cfg.KeyDir == "" {
		cfg.KeyDir = def.KeyDir
	}
	if cfg.StorageDir == "" {
		cfg.StorageDir = def.StorageDir
	}
	if cfg.ShellRC == "" {
		cfg.ShellRC = def.ShellRC
	}
	return &cfg, nil
}

// Save writes cfg to path owner-only, via a temp file and rename so a failed
// write cannot leave a truncated config behind. Parent directories are
// created as needed.
func Save(path string, cfg *Config) error {
	if path == "" {
		path = DefaultPath()
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	f, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Chmod(0o600); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
