// Package bundle serializes key material to a portable artifact set and
// imports such sets back into the local key store.
//
// A bundle is a fixed-name file set at a transfer location: id_ed25519 /
// id_rsa plus .pub for SSH, and id_gpg_public, id_gpg_private,
// gpg_ownertrust for GPG. Imports are all-or-nothing: a partial set is an
// inconsistent bundle, never a partial success. Key material already in the
// destination is never replaced without confirmation.
package bundle
