// Package gpg wraps the external GPG tool: key generation, keyring listing,
// armored export and import of keys and ownertrust, and trust editing. The
// cryptography itself stays inside gpg; this package only sequences it and
// inspects armored material via gopenpgp.
package gpg
