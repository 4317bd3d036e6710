// Package keystore implements key pair discovery and generation over the
// ssh-keygen, ssh-agent and gpg collaborators.
package keystore
