package sshkey

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/crypto/ssh"
)

// Fingerprint returns the SHA256 fingerprint of the public key file at path.
func Fingerprint(pubPath string) (string, error) {
	b, err := os.ReadFile(pubPath)
	if err != nil {
		return "", err
	}
	key, _, _, _, err := ssh.ParseAuthorizedKey(b)
	if err != nil {
		return "", fmt.Errorf("parse %s: %w", pubPath, err)
	}
	return ssh.FingerprintSHA256(key), nil
}

// PublicLine returns the authorized_keys line at path, trimmed for display.
func PublicLine(pubPath string) (string, error) {
	b, err := os.ReadFile(pubPath)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}
