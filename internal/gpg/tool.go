package gpg

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"keyfob/internal/run"
)

// Tool wraps the external gpg binary. Key generation and trust editing run
// attached to the terminal because gpg drives those dialogues itself; the
// export and import operations capture output instead.
type Tool struct {
	r run.Runner
}

func New(r run.Runner) *Tool { return &Tool{r: r} }

// SecretKey is one entry of the secret keyring listing.
type SecretKey struct {
	ID      string
	Created time.Time
}

// Generate runs the interactive key generation dialogue. The key parameters
// (kind, size, expiry, identity, passphrase) are all collected by gpg.
func (t *Tool) Generate(ctx context.Context) error {
	_, err := t.r.Run(ctx, run.Cmd{Name: "gpg", Args: []string{"--full-generate-key"}, Interactive: true})
	return err
}

// ListSecretKeys returns the keys with secret material in the keyring.
func (t *Tool) ListSecretKeys(ctx context.Context) ([]SecretKey, error) {
	out, err := t.r.Run(ctx, run.Cmd{Name: "gpg", Args: []string{"--list-secret-keys", "--with-colons"}})
	if err != nil {
		return nil, err
	}
	return parseSecretKeys(string(out)), nil
}

// parseSecretKeys extracts the key ID and creation time from the sec records
// of a --with-colons listing.
func parseSecretKeys(out string) []SecretKey {
	var keys []SecretKey
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Split(line, ":")
		if len(fields) < 6 || fields[0] != "sec" {
			continue
		}
		key := SecretKey{ID: fields[4]}
		if sec, err := strconv.ParseInt(fields[5], 10, 64); err == nil {
			key.Created = time.Unix(sec, 0)
		}
		keys = append(keys, key)
	}
	return keys
}

// ExportPublic returns the armored public key for ref (a key ID or an email).
func (t *Tool) ExportPublic(ctx context.Context, ref string) ([]byte, error) {
	out, err := t.r.Run(ctx, run.Cmd{Name: "gpg", Args: []string{"--armor", "--export", ref}})
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("gpg holds no public key for %q", ref)
	}
	return out, nil
}

// ExportSecret returns the armored secret key for ref. gpg prompts for the
// key passphrase on the terminal when one is set.
func (t *Tool) ExportSecret(ctx context.Context, ref string) ([]byte, error) {
	out, err := t.r.Run(ctx, run.Cmd{Name: "gpg", Args: []string{"--armor", "--export-secret-keys", ref}})
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("gpg holds no secret key for %q", ref)
	}
	return out, nil
}

// ExportOwnertrust returns the ownertrust database. Trust state does not
// survive a key import alone, so backups must carry it.
func (t *Tool) ExportOwnertrust(ctx context.Context) ([]byte, error) {
	return t.r.Run(ctx, run.Cmd{Name: "gpg", Args: []string{"--export-ownertrust"}})
}

// ImportKey imports the key material in the file at path.
func (t *Tool) ImportKey(ctx context.Context, path string) error {
	if _, err := t.r.Run(ctx, run.Cmd{Name: "gpg", Args: []string{"--import", path}}); err != nil {
		return err
	}
	return nil
}

// ImportOwnertrust loads an ownertrust export. The keys it names must already
// be in the keyring, so this always runs after ImportKey.
func (t *Tool) ImportOwnertrust(ctx context.Context, path string) error {
	if _, err := t.r.Run(ctx, run.Cmd{Name: "gpg", Args: []string{"--import-ownertrust", path}}); err != nil {
		return err
	}
	return nil
}

// EditTrust opens the interactive trust dialogue for keyID so the operator
// can assign a trust level to a freshly imported key.
func (t *Tool) EditTrust(ctx context.Context, keyID string) error {
	_, err := t.r.Run(ctx, run.Cmd{Name: "gpg", Args: []string{"--edit-key", keyID, "trust"}, Interactive: true})
	return err
}
