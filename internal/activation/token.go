// Package activation implements the cross-process activation protocol:
// a loopback HTTP listener guarded by a per-session bearer token, a
// file-based discovery record the hotkey helper reads to find it, and a
// dispatcher that hands validated requests to the UI execution context.
package activation

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// tokenBytes is the raw token size. 32 bytes gives 256 bits of entropy.
const tokenBytes = 32

// Token is the per-session activation secret. It is generated once at
// process start, lives only in memory and in the discovery record, and
// must never be logged.
type Token string

// GenerateToken produces a new token from the OS entropy source.
// Failure to read entropy means the process cannot proceed safely.
func GenerateToken() (Token, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return Token(base64.RawURLEncoding.EncodeToString(buf)), nil
}

// String masks the token so accidental formatting never leaks it
func (t Token) String() string {
	return "<redacted>"
}
