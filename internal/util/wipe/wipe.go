// Package wipe clears sensitive buffers once they are no longer needed.
package wipe

import "crypto/subtle"

// Bytes overwrites b with zeros in a constant-time friendly way.
func Bytes(b []byte) {
	if len(b) == 0 {
		return
	}
	zero := make([]byte, len(b))
	subtle.ConstantTimeCopy(1, b, zero)
}
