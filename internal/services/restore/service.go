package restore

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"keyfob/internal/domain"
	"keyfob/internal/run"
)

// State names one phase of a restore. Every run walks Start through Done in
// order; Failed is reachable from any phase and ends the run.
type State int

const (
	StateStart State = iota
	StateLocate
	StateVerify
	StateImport
	StateBind
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateStart:
		return "start"
	case StateLocate:
		return "locate bundle"
	case StateVerify:
		return "verify preconditions"
	case StateImport:
		return "import"
	case StateBind:
		return "bind"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// tools maps each key kind to the external tool its import depends on.
var tools = map[domain.Kind]string{
	domain.KindSSH: "ssh-keygen",
	domain.KindGPG: "gpg",
}

// Config carries the host-derived knobs of a restore: where bundles live
// locally, which repository to offer as the remote default, and what the
// package manager must install per kind when a tool is absent.
type Config struct {
	StorageDir  string
	DefaultRepo domain.RepoRef
	Packages    map[domain.Kind][]string
	Out         io.Writer
}

// Request selects what to restore. RemoteOnly skips the storage-directory
// check and goes straight to a remote-hosted bundle.
type Request struct {
	Kinds      []domain.Kind
	RemoteOnly bool
}

// Result reports the restored identifiers: the key file basename for SSH,
// the long key ID for GPG.
type Result struct {
	Identifiers map[domain.Kind]string
}

// Service walks a restore request through the phases, delegating the work to
// the bundle, binder, remote and package-manager collaborators. One request
// is processed at a time.
type Service struct {
	bundler domain.Bundler
	binder  domain.GitBinder
	remote  domain.RemoteAuth
	pkgs    domain.PackageManager
	runner  run.Runner
	prompt  domain.Prompter
	cfg     Config
}

func New(bundler domain.Bundler, binder domain.GitBinder, remote domain.RemoteAuth,
	pkgs domain.PackageManager, r run.Runner, p domain.Prompter, cfg Config) *Service {
	if cfg.Out == nil {
		cfg.Out = os.Stdout
	}
	return &Service{bundler: bundler, binder: binder, remote: remote, pkgs: pkgs, runner: r, prompt: p, cfg: cfg}
}

// Run restores every requested kind or nothing: the first failure ends the
// run with the failing phase wrapped into the error. A staging clone, once
// created, is removed no matter how the run ends.
func (s *Service) Run(ctx context.Context, req Request) (Result, error) {
	s.enter(StateStart, describe(req))

	bundles, cleanup, err := s.locate(ctx, req)
	if cleanup != nil {
		defer cleanup()
	}
	if err != nil {
		return Result{}, s.fail(StateLocate, err)
	}

	s.enter(StateVerify, "")
	for _, kind := range req.Kinds {
		if err := s.ensureTool(ctx, kind); err != nil {
			return Result{}, s.fail(StateVerify, err)
		}
	}

	s.enter(StateImport, "")
	res := Result{Identifiers: make(map[domain.Kind]string)}
	for _, kind := range req.Kinds {
		id, err := s.importOne(ctx, kind, bundles[kind])
		if err != nil {
			return Result{}, s.fail(StateImport, err)
		}
		fmt.Fprintf(s.cfg.Out, "imported %s key %s\n", kind, id)
		res.Identifiers[kind] = id
	}

	if keyID, ok := res.Identifiers[domain.KindGPG]; ok {
		s.enter(StateBind, "signing key "+keyID)
		if err := s.binder.BindSigningKey(ctx, keyID); err != nil {
			return Result{}, s.fail(StateBind, err)
		}
		if err := s.binder.EnsureTTYBinding(); err != nil {
			return Result{}, s.fail(StateBind, err)
		}
	}

	s.enter(StateDone, "")
	return res, nil
}

// locate finds a complete bundle for every requested kind: first the storage
// directory, then a remote-hosted repository cloned into a fresh staging
// directory. The returned cleanup removes the staging clone and is non-nil as
// soon as the clone directory exists, even when locating ultimately fails.
func (s *Service) locate(ctx context.Context, req Request) (map[domain.Kind]domain.Bundle, func(), error) {
	s.enter(StateLocate, "")
	found := make(map[domain.Kind]domain.Bundle)

	if !req.RemoteOnly {
		for _, kind := range req.Kinds {
			if b, ok := s.bundler.Locate(s.cfg.StorageDir, kind); ok {
				fmt.Fprintf(s.cfg.Out, "found %s bundle in %s\n", kind, s.cfg.StorageDir)
				found[kind] = b
			}
		}
		if len(found) == len(req.Kinds) {
			return found, nil, nil
		}
	}

	repo, ok, err := s.askRepo()
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		return nil, nil, missingErr(req.Kinds, found)
	}

	if err := s.remote.EnsureLogin(ctx); err != nil {
		return nil, nil, err
	}
	staging, err := os.MkdirTemp("", "keyfob-restore-*")
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() { os.RemoveAll(staging) }

	dest := filepath.Join(staging, repo.Name)
	fmt.Fprintf(s.cfg.Out, "cloning %s\n", repo)
	if err := s.remote.Clone(ctx, repo, dest); err != nil {
		return nil, cleanup, err
	}
	for _, kind := range req.Kinds {
		if _, ok := found[kind]; ok {
			continue
		}
		if b, ok := s.bundler.Locate(dest, kind); ok {
			fmt.Fprintf(s.cfg.Out, "found %s bundle in %s\n", kind, repo)
			found[kind] = b
		}
	}
	if len(found) != len(req.Kinds) {
		return nil, cleanup, missingErr(req.Kinds, found)
	}
	return found, cleanup, nil
}

// askRepo prompts for the backup repository, offering the configured one as
// the default. Empty answers with no default mean there is no remote source.
func (s *Service) askRepo() (domain.RepoRef, bool, error) {
	def := s.cfg.DefaultRepo
	owner, err := s.prompt.Ask(withDefault("Backup repository owner", def.Owner))
	if err != nil {
		return domain.RepoRef{}, false, err
	}
	if owner == "" {
		owner = def.Owner
	}
	name, err := s.prompt.Ask(withDefault("Backup repository name", def.Name))
	if err != nil {
		return domain.RepoRef{}, false, err
	}
	if name == "" {
		name = def.Name
	}
	if owner == "" || name == "" {
		return domain.RepoRef{}, false, nil
	}
	return domain.RepoRef{Owner: owner, Name: name}, true, nil
}

// ensureTool checks PATH for the kind's tool and, when absent, runs one
// package-manager recovery before the final check. Recovery failures are
// reported but only the final check decides.
func (s *Service) ensureTool(ctx context.Context, kind domain.Kind) error {
	tool := tools[kind]
	if _, err := s.runner.LookPath(tool); err == nil {
		return nil
	}
	fmt.Fprintf(s.cfg.Out, "%s not found, installing %s\n", tool, strings.Join(s.cfg.Packages[kind], " "))
	if err := s.pkgs.Update(ctx); err != nil {
		fmt.Fprintf(s.cfg.Out, "package index update failed: %v\n", err)
	}
	if err := s.pkgs.Install(ctx, s.cfg.Packages[kind]...); err != nil {
		fmt.Fprintf(s.cfg.Out, "install failed: %v\n", err)
	}
	if _, err := s.runner.LookPath(tool); err != nil {
		return fmt.Errorf("%s: %w", tool, domain.ErrToolMissing)
	}
	return nil
}

func (s *Service) importOne(ctx context.Context, kind domain.Kind, b domain.Bundle) (string, error) {
	switch kind {
	case domain.KindGPG:
		return s.bundler.ImportGPG(ctx, b)
	default:
		pair, err := s.bundler.ImportSSH(ctx, b)
		if err != nil {
			return "", err
		}
		return pair.Identifier, nil
	}
}

func (s *Service) enter(st State, detail string) {
	if detail == "" {
		fmt.Fprintf(s.cfg.Out, "[%s]\n", st)
		return
	}
	fmt.Fprintf(s.cfg.Out, "[%s] %s\n", st, detail)
}

func (s *Service) fail(st State, err error) error {
	s.enter(StateFailed, err.Error())
	return fmt.Errorf("%s: %w", st, err)
}

func describe(req Request) string {
	names := make([]string, len(req.Kinds))
	for i, k := range req.Kinds {
		names[i] = k.String()
	}
	d := "restore " + strings.Join(names, "+")
	if req.RemoteOnly {
		d += " from remote"
	}
	return d
}

func withDefault(label, def string) string {
	if def == "" {
		return label + ": "
	}
	return fmt.Sprintf("%s [%s]: ", label, def)
}

func missingErr(kinds []domain.Kind, found map[domain.Kind]domain.Bundle) error {
	var missing []string
	for _, k := range kinds {
		if _, ok := found[k]; !ok {
			missing = append(missing, k.String())
		}
	}
	return fmt.Errorf("no complete %s bundle in any source: %w",
		strings.Join(missing, ", "), domain.ErrBundleNotFound)
}
