// Package sshkey wraps ssh-keygen and the ssh-agent protocol: key pair
// discovery and generation in the key directory, and registration of private
// keys with a running agent, starting one when none is reachable.
package sshkey
