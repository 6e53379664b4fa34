package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	t.Setenv("DATA_ENCRYPTION_KEY", "0123456789abcdef0123456789abcdef")

	ciphertext, err := EncryptText("dear diary, today went well")
	require.NoError(t, err)
	assert.NotEqual(t, "dear diary, today went well", ciphertext)

	plaintext, err := DecryptText(ciphertext)
	require.NoError(t, err)
	assert.Equal(t, "dear diary, today went well", plaintext)
}

func TestEncryptRequiresFullLengthKey(t *testing.T) {
	t.Setenv("DATA_ENCRYPTION_KEY", "short")

	_, err := EncryptText("anything")
	assert.Error(t, err)
}

func TestDecryptRejectsTamperedCiphertext(t *testing.T) {
	t.Setenv("DATA_ENCRYPTION_KEY", "0123456789abcdef0123456789abcdef")

	_, err := DecryptText("bm90IHJlYWwgY2lwaGVydGV4dCBhdCBhbGwsIHNvcnJ5")
	assert.Error(t, err)
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("hunter22")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", hash)

	assert.True(t, CheckPassword("hunter22", hash))
	assert.False(t, CheckPassword("hunter23", hash))
}
