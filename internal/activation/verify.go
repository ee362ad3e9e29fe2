package activation

import (
	"crypto/sha256"
	"crypto/subtle"
)

// Verify reports whether the presented credential matches the expected
// token. Both inputs are hashed before the comparison so the running time
// depends on neither the position of the first differing byte nor the
// lengths of the inputs.
func Verify(presented, expected []byte) bool {
	p := sha256.Sum256(presented)
	e := sha256.Sum256(expected)
	return subtle.ConstantTimeCompare(p[:], e[:]) == 1
}
