package activation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestVerify(t *testing.T) {
	t.Run("equal inputs match", func(t *testing.T) {
		assert.True(t, Verify([]byte("secret-token"), []byte("secret-token")))
	})

	t.Run("different inputs do not match", func(t *testing.T) {
		assert.False(t, Verify([]byte("secret-token"), []byte("secret-tokeX")))
	})

	t.Run("empty presented credential does not match", func(t *testing.T) {
		assert.False(t, Verify(nil, []byte("secret-token")))
	})

	t.Run("length difference does not match", func(t *testing.T) {
		assert.False(t, Verify([]byte("secret"), []byte("secret-token")))
		assert.False(t, Verify([]byte("secret-token-extra"), []byte("secret-token")))
	})

	t.Run("empty matches empty", func(t *testing.T) {
		assert.True(t, Verify([]byte{}, []byte{}))
	})
}

func TestVerifyProperties(t *testing.T) {
	t.Run("any input matches itself", func(t *testing.T) {
		rapid.Check(t, func(t *rapid.T) {
			token := rapid.SliceOfN(rapid.Byte(), 0, 128).Draw(t, "token")
			if !Verify(token, token) {
				t.Fatalf("token did not verify against itself")
			}
		})
	})

	t.Run("flipping any byte fails verification", func(t *testing.T) {
		rapid.Check(t, func(t *rapid.T) {
			token := rapid.SliceOfN(rapid.Byte(), 1, 128).Draw(t, "token")
			idx := rapid.IntRange(0, len(token)-1).Draw(t, "idx")

			presented := make([]byte, len(token))
			copy(presented, token)
			presented[idx] ^= byte(rapid.IntRange(1, 255).Draw(t, "flip"))

			if Verify(presented, token) {
				t.Fatalf("corrupted credential verified at index %d", idx)
			}
		})
	})
}
