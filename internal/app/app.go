package app

import (
	"io"

	"keyfob/internal/config"
	"keyfob/internal/domain"
	"keyfob/internal/gitcfg"
	"keyfob/internal/gpg"
	"keyfob/internal/pkgmgr"
	"keyfob/internal/remote"
	"keyfob/internal/run"
	"keyfob/internal/services/bundle"
	"keyfob/internal/services/gitbind"
	"keyfob/internal/services/keystore"
	"keyfob/internal/services/restore"
	"keyfob/internal/services/setup"
	"keyfob/internal/sshkey"
)

// App bundles the configured services and tools for the CLI.
type App struct {
	Config  *config.Config
	Prompt  domain.Prompter
	Keys    domain.KeyStore
	Bundler domain.Bundler
	Binder  domain.GitBinder
	Setup   *setup.Service
	Restore *restore.Service
}

// New constructs the dependency graph from cfg. Every external tool runs
// through r, every question goes through p, and out receives progress output.
func New(cfg *config.Config, r run.Runner, p domain.Prompter, out io.Writer) *App {
	gpgTool := gpg.New(r)
	sshTool := sshkey.New(r, cfg.KeyDir)
	agent := sshkey.NewAgent(r)

	keys := keystore.New(sshTool, agent, gpgTool, p)
	bundler := bundle.New(gpgTool, agent, p, cfg.KeyDir)
	binder := gitbind.New(gitcfg.New(r), cfg.ShellRC)
	gh := remote.New(r)
	pm := pkgmgr.New(cfg.Profile, r)

	return &App{
		Config:  cfg,
		Prompt:  p,
		Keys:    keys,
		Bundler: bundler,
		Binder:  binder,
		Setup:   setup.New(keys, binder, gh, p, out),
		Restore: restore.New(bundler, binder, gh, pm, r, p, restore.Config{
			StorageDir:  cfg.StorageDir,
			DefaultRepo: cfg.BackupRepo,
			Packages:    pkgmgr.Packages(cfg.Profile),
			Out:         out,
		}),
	}
}
