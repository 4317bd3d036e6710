// Package pkgmgr implements the host package tooling behind precondition
// recovery: pkg on Termux, apt-get via sudo elsewhere. One contract, two
// hosts.
package pkgmgr
