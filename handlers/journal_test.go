package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranscriptSealRoundTrip(t *testing.T) {
	t.Setenv("DATA_ENCRYPTION_KEY", "0123456789abcdef0123456789abcdef")

	sealed, err := sealTranscript("today I finished the garden bed")
	require.NoError(t, err)
	assert.NotEqual(t, "today I finished the garden bed", sealed)

	assert.Equal(t, "today I finished the garden bed", openTranscript(sealed))
}

func TestTranscriptSealWithoutKeyIsPassthrough(t *testing.T) {
	t.Setenv("DATA_ENCRYPTION_KEY", "")

	sealed, err := sealTranscript("plain text stays plain")
	require.NoError(t, err)
	assert.Equal(t, "plain text stays plain", sealed)
	assert.Equal(t, "plain text stays plain", openTranscript(sealed))
}

func TestOpenTranscriptFallsBackToStoredValue(t *testing.T) {
	t.Setenv("DATA_ENCRYPTION_KEY", "0123456789abcdef0123456789abcdef")

	// Rows written before encryption was enabled are not valid
	// ciphertext; they come back verbatim.
	assert.Equal(t, "legacy plaintext row", openTranscript("legacy plaintext row"))
}
