package encryption

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKey(t *testing.T) {
	t.Run("hex key", func(t *testing.T) {
		key, err := ParseKey(strings.Repeat("ab", KeySize))
		require.NoError(t, err)
		assert.Len(t, key, KeySize)
		assert.Equal(t, byte(0xab), key[0])
	})

	t.Run("raw key", func(t *testing.T) {
		key, err := ParseKey("0123456789abcdef0123456789abcdeX")
		require.NoError(t, err)
		assert.Equal(t, []byte("0123456789abcdef0123456789abcdeX"), key)
	})

	t.Run("short key rejected", func(t *testing.T) {
		_, err := ParseKey("default_key")
		assert.Error(t, err)
	})

	t.Run("long key rejected", func(t *testing.T) {
		_, err := ParseKey(strings.Repeat("k", 40))
		assert.Error(t, err)
	})
}

func TestDeriveKey(t *testing.T) {
	a, err := DeriveKey("correct horse", "salt")
	require.NoError(t, err)
	b, err := DeriveKey("correct horse", "salt")
	require.NoError(t, err)
	c, err := DeriveKey("correct horse", "other")
	require.NoError(t, err)

	assert.Len(t, a, KeySize)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)

	_, err = DeriveKey("", "salt")
	assert.Error(t, err)

	_, err = NewCipher(a)
	assert.NoError(t, err)
}
