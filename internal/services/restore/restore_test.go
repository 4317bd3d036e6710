package restore_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ProtonMail/gopenpgp/v3/crypto"

	"keyfob/internal/config"
	"keyfob/internal/domain"
	"keyfob/internal/gitcfg"
	"keyfob/internal/gpg"
	"keyfob/internal/pkgmgr"
	"keyfob/internal/prompt"
	"keyfob/internal/remote"
	"keyfob/internal/run/runtest"
	"keyfob/internal/services/bundle"
	"keyfob/internal/services/gitbind"
	"keyfob/internal/services/restore"
	"keyfob/internal/sshkey"
	"keyfob/internal/sshkey/sshkeytest"
)

// harness wires a restore service over the real collaborators, all driving
// the same scripted runner.
type harness struct {
	r       *runtest.Runner
	svc     *restore.Service
	out     *bytes.Buffer
	storage string
	keyDir  string
	shellRC string
}

func newHarness(t *testing.T, p domain.Prompter, repo domain.RepoRef) *harness {
	t.Helper()
	h := &harness{
		r:       runtest.New(),
		out:     &bytes.Buffer{},
		storage: t.TempDir(),
		keyDir:  t.TempDir(),
		shellRC: filepath.Join(t.TempDir(), ".bashrc"),
	}
	bundler := bundle.New(gpg.New(h.r), sshkey.NewAgent(h.r), p, h.keyDir)
	binder := gitbind.New(gitcfg.New(h.r), h.shellRC)
	h.svc = restore.New(bundler, binder, remote.New(h.r), pkgmgr.NewTermux(h.r), h.r, p,
		restore.Config{
			StorageDir:  h.storage,
			DefaultRepo: repo,
			Packages:    pkgmgr.Packages(config.ProfileTermux),
			Out:         h.out,
		})
	return h
}

// writeGPGBundle places a complete GPG artifact set in dir. The public block
// is a real armored key so the import can describe it; the rest is filler.
func writeGPGBundle(t *testing.T, dir string) string {
	t.Helper()
	key, err := crypto.PGP().KeyGeneration().
		AddUserId("Ada Lovelace", "ada@example.org").
		New().
		GenerateKey()
	if err != nil {
		t.Fatalf("generate pgp key: %v", err)
	}
	pub, err := key.ToPublic()
	if err != nil {
		t.Fatalf("to public: %v", err)
	}
	armored, err := pub.Armor()
	if err != nil {
		t.Fatalf("armor: %v", err)
	}
	for name, data := range map[string]string{
		domain.ArtifactGPGPublic:     armored,
		domain.ArtifactGPGPrivate:    "SECRET",
		domain.ArtifactGPGOwnertrust: "FPR:6:",
	} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(data), 0o600); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return fmt.Sprintf("%016X", pub.GetEntity().PrimaryKey.KeyId)
}

func TestRun_StorageWinsOverRemote(t *testing.T) {
	sock, _ := sshkeytest.StartAgent(t)
	t.Setenv("SSH_AUTH_SOCK", sock)

	h := newHarness(t, prompt.NewScript(), domain.RepoRef{})
	sshkeytest.WriteKeyPair(t, h.storage, "id_ed25519", nil)

	res, err := h.svc.Run(context.Background(), restore.Request{Kinds: []domain.Kind{domain.KindSSH}})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.Identifiers[domain.KindSSH] != "id_ed25519" {
		t.Fatalf("identifier = %q", res.Identifiers[domain.KindSSH])
	}
	if _, err := os.Stat(filepath.Join(h.keyDir, "id_ed25519")); err != nil {
		t.Fatal("key not installed in the key directory")
	}
	if h.r.Saw("gh") {
		t.Fatal("remote consulted although storage had the bundle")
	}
	// Import moves the artifacts out of storage.
	if _, err := os.Stat(filepath.Join(h.storage, "id_ed25519")); !os.IsNotExist(err) {
		t.Fatal("source artifact left behind in storage")
	}
	if !strings.Contains(h.out.String(), "[done]") {
		t.Fatalf("missing done transition in output:\n%s", h.out.String())
	}
}

func TestRun_SSHRestoreBindsNothing(t *testing.T) {
	sock, _ := sshkeytest.StartAgent(t)
	t.Setenv("SSH_AUTH_SOCK", sock)

	h := newHarness(t, prompt.NewScript(), domain.RepoRef{})
	sshkeytest.WriteKeyPair(t, h.storage, "id_ed25519", nil)

	if _, err := h.svc.Run(context.Background(), restore.Request{Kinds: []domain.Kind{domain.KindSSH}}); err != nil {
		t.Fatalf("run: %v", err)
	}
	// Only the GPG leg of a restore touches git and the shell rc.
	if h.r.Saw("git") {
		t.Fatal("ssh restore wrote to git config")
	}
	if _, err := os.Stat(h.shellRC); !os.IsNotExist(err) {
		t.Fatal("ssh restore wrote the shell rc")
	}
}

func TestRun_GPGBindsSigningKey(t *testing.T) {
	h := newHarness(t, prompt.NewScript(), domain.RepoRef{})
	wantID := writeGPGBundle(t, h.storage)

	res, err := h.svc.Run(context.Background(), restore.Request{Kinds: []domain.Kind{domain.KindGPG}})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.Identifiers[domain.KindGPG] != wantID {
		t.Fatalf("identifier = %q, want %q", res.Identifiers[domain.KindGPG], wantID)
	}

	if !h.r.Saw("git", "config", "--global", "user.signingkey", wantID) {
		t.Fatal("signing key not bound")
	}
	if !h.r.Saw("git", "config", "--global", "commit.gpgsign", "true") {
		t.Fatal("signing not enabled")
	}
	rc, err := os.ReadFile(h.shellRC)
	if err != nil || !strings.Contains(string(rc), "export GPG_TTY=$(tty)") {
		t.Fatalf("GPG_TTY binding missing: %v %q", err, rc)
	}
	for _, name := range []string{domain.ArtifactGPGPublic, domain.ArtifactGPGPrivate, domain.ArtifactGPGOwnertrust} {
		if _, err := os.Stat(filepath.Join(h.storage, name)); !os.IsNotExist(err) {
			t.Fatalf("source artifact %s left behind", name)
		}
	}
}

func TestRun_FallsBackToRemote(t *testing.T) {
	sock, _ := sshkeytest.StartAgent(t)
	t.Setenv("SSH_AUTH_SOCK", sock)

	h := newHarness(t, prompt.NewScript("octo", "backup"), domain.RepoRef{})

	var staging string
	h.r.On("gh", []string{"repo", "clone"}, runtest.Response{Do: func() {
		dest := h.r.Calls[len(h.r.Calls)-1].Args[3]
		staging = filepath.Dir(dest)
		if err := os.MkdirAll(dest, 0o700); err != nil {
			t.Errorf("mkdir clone dest: %v", err)
			return
		}
		sshkeytest.WriteKeyPair(t, dest, "id_ed25519", nil)
	}})

	res, err := h.svc.Run(context.Background(), restore.Request{Kinds: []domain.Kind{domain.KindSSH}})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.Identifiers[domain.KindSSH] != "id_ed25519" {
		t.Fatalf("identifier = %q", res.Identifiers[domain.KindSSH])
	}
	if !h.r.Saw("gh", "repo", "clone", "octo/backup") {
		t.Fatal("requested repository not cloned")
	}
	if staging == "" {
		t.Fatal("clone never ran")
	}
	if _, err := os.Stat(staging); !os.IsNotExist(err) {
		t.Fatal("staging clone not removed")
	}
}

func TestRun_DefaultRepoFillsEmptyAnswers(t *testing.T) {
	sock, _ := sshkeytest.StartAgent(t)
	t.Setenv("SSH_AUTH_SOCK", sock)

	h := newHarness(t, prompt.NewScript("", ""), domain.RepoRef{Owner: "octo", Name: "backup"})
	h.r.On("gh", []string{"repo", "clone"}, runtest.Response{Do: func() {
		dest := h.r.Calls[len(h.r.Calls)-1].Args[3]
		if err := os.MkdirAll(dest, 0o700); err != nil {
			t.Errorf("mkdir clone dest: %v", err)
			return
		}
		sshkeytest.WriteKeyPair(t, dest, "id_ed25519", nil)
	}})

	if _, err := h.svc.Run(context.Background(), restore.Request{Kinds: []domain.Kind{domain.KindSSH}}); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !h.r.Saw("gh", "repo", "clone", "octo/backup") {
		t.Fatal("configured default repository not used")
	}
}

func TestRun_RemoteOnlySkipsStorage(t *testing.T) {
	h := newHarness(t, prompt.NewScript("", ""), domain.RepoRef{})
	writeGPGBundle(t, h.storage)

	_, err := h.svc.Run(context.Background(),
		restore.Request{Kinds: []domain.Kind{domain.KindGPG}, RemoteOnly: true})
	if !errors.Is(err, domain.ErrBundleNotFound) {
		t.Fatalf("got %v, want ErrBundleNotFound", err)
	}
	if h.r.Saw("gh") {
		t.Fatal("no repository was named, nothing should have been cloned")
	}
	// The storage bundle must be ignored, not consumed.
	if _, err := os.Stat(filepath.Join(h.storage, domain.ArtifactGPGPrivate)); err != nil {
		t.Fatal("storage bundle was touched despite remote-only request")
	}
}

func TestRun_NoSourceAnywhere(t *testing.T) {
	h := newHarness(t, prompt.NewScript("", ""), domain.RepoRef{})

	_, err := h.svc.Run(context.Background(), restore.Request{Kinds: []domain.Kind{domain.KindSSH}})
	if !errors.Is(err, domain.ErrBundleNotFound) {
		t.Fatalf("got %v, want ErrBundleNotFound", err)
	}
	if !strings.Contains(err.Error(), "ssh") {
		t.Fatalf("error does not name the missing kind: %v", err)
	}
	if !strings.Contains(h.out.String(), "[failed]") {
		t.Fatalf("missing failed transition in output:\n%s", h.out.String())
	}
}

func TestRun_InstallsMissingTool(t *testing.T) {
	h := newHarness(t, prompt.NewScript(), domain.RepoRef{})
	writeGPGBundle(t, h.storage)

	h.r.Missing("gpg")
	h.r.On("pkg", []string{"install", "-y", "gnupg"}, runtest.Response{Do: func() {
		h.r.Found("gpg")
	}})

	if _, err := h.svc.Run(context.Background(), restore.Request{Kinds: []domain.Kind{domain.KindGPG}}); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !h.r.Saw("pkg", "update", "-y") {
		t.Fatal("package index never updated")
	}
	if !h.r.Saw("pkg", "install", "-y", "gnupg") {
		t.Fatal("gnupg never installed")
	}
}

func TestRun_ToolStillMissingIsFatal(t *testing.T) {
	h := newHarness(t, prompt.NewScript(), domain.RepoRef{})
	writeGPGBundle(t, h.storage)
	h.r.Missing("gpg")

	_, err := h.svc.Run(context.Background(), restore.Request{Kinds: []domain.Kind{domain.KindGPG}})
	if !errors.Is(err, domain.ErrToolMissing) {
		t.Fatalf("got %v, want ErrToolMissing", err)
	}
	if !strings.Contains(err.Error(), "verify preconditions") {
		t.Fatalf("error does not name the failing phase: %v", err)
	}
	// One recovery attempt only, and nothing imported after it failed.
	if !h.r.Saw("pkg", "install", "-y", "gnupg") {
		t.Fatal("recovery install never attempted")
	}
	if _, err := os.Stat(filepath.Join(h.storage, domain.ArtifactGPGPrivate)); err != nil {
		t.Fatal("bundle must survive a failed precondition check")
	}
}
