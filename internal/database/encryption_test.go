package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncryptor_DisabledPassthrough(t *testing.T) {
	t.Setenv("RANSOMSIM_ENCRYPTION_SECRET", "")

	enc, err := newEncryptor()
	require.NoError(t, err)
	assert.False(t, enc.enabled())

	out, err := enc.encrypt("plain")
	require.NoError(t, err)
	assert.Equal(t, "plain", out)

	out, err = enc.decrypt("plain")
	require.NoError(t, err)
	assert.Equal(t, "plain", out)
}

func TestEncryptor_RoundTrip(t *testing.T) {
	t.Setenv("RANSOMSIM_ENCRYPTION_SECRET", "correct horse battery staple")

	enc, err := newEncryptor()
	require.NoError(t, err)
	assert.True(t, enc.enabled())

	ciphertext, err := enc.encrypt("the demand is $500000")
	require.NoError(t, err)
	assert.NotEqual(t, "the demand is $500000", ciphertext)

	plaintext, err := enc.decrypt(ciphertext)
	require.NoError(t, err)
	assert.Equal(t, "the demand is $500000", plaintext)
}

func TestEncryptor_RandomNonce(t *testing.T) {
	t.Setenv("RANSOMSIM_ENCRYPTION_SECRET", "correct horse battery staple")

	enc, err := newEncryptor()
	require.NoError(t, err)

	first, err := enc.encrypt("same input")
	require.NoError(t, err)
	second, err := enc.encrypt("same input")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestEncryptor_DecryptGarbage(t *testing.T) {
	t.Setenv("RANSOMSIM_ENCRYPTION_SECRET", "correct horse battery staple")

	enc, err := newEncryptor()
	require.NoError(t, err)

	_, err = enc.decrypt("not base64 at all!!!")
	assert.Error(t, err)

	_, err = enc.decrypt("c2hvcnQ=")
	assert.Error(t, err)
}
