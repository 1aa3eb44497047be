package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 64 hex chars = 32 bytes = valid AES-256 key
const testKey = "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"

func TestNewAesGcmService_ValidKey(t *testing.T) {
	svc, err := NewAesGcmService(testKey)
	require.NoError(t, err)
	assert.NotNil(t, svc)
}

func TestNewAesGcmService_InvalidHex(t *testing.T) {
	svc, err := NewAesGcmService("zzzz")
	assert.Error(t, err)
	assert.Nil(t, svc)
}

func TestNewAesGcmService_WrongKeyLength(t *testing.T) {
	tests := []struct {
		name   string
		hexKey string
	}{
		{"too short (31 bytes)", "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcd"},
		{"too long (33 bytes)", "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef00"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := NewAesGcmService(tt.hexKey)
			assert.Error(t, err)
			assert.Nil(t, svc)
		})
	}
}

func TestEncryptDecrypt_Roundtrip(t *testing.T) {
	svc, err := NewAesGcmService(testKey)
	require.NoError(t, err)

	plaintexts := []string{
		"tok_xyz",
		"",
		"a much longer access token with spaces and ünïcode 字",
	}

	for _, plaintext := range plaintexts {
		ciphertext, err := svc.Encrypt(plaintext)
		require.NoError(t, err)
		assert.NotEqual(t, plaintext, ciphertext)

		decrypted, err := svc.Decrypt(ciphertext)
		require.NoError(t, err)
		assert.Equal(t, plaintext, decrypted)
	}
}

func TestEncrypt_UniqueNonces(t *testing.T) {
	svc, err := NewAesGcmService(testKey)
	require.NoError(t, err)

	// Same plaintext twice must produce different envelopes.
	ct1, err := svc.Encrypt("same-value")
	require.NoError(t, err)
	ct2, err := svc.Encrypt("same-value")
	require.NoError(t, err)

	assert.NotEqual(t, ct1, ct2)
}

func TestDecrypt_InvalidHex(t *testing.T) {
	svc, err := NewAesGcmService(testKey)
	require.NoError(t, err)

	_, err = svc.Decrypt("not-valid-hex!!!")
	assert.ErrorIs(t, err, ErrMalformedCiphertext)
}

func TestDecrypt_TooShort(t *testing.T) {
	svc, err := NewAesGcmService(testKey)
	require.NoError(t, err)

	_, err = svc.Decrypt("abcd")
	assert.ErrorIs(t, err, ErrMalformedCiphertext)
}

func TestDecrypt_TamperedCiphertext(t *testing.T) {
	svc, err := NewAesGcmService(testKey)
	require.NoError(t, err)

	ciphertext, err := svc.Encrypt("secret")
	require.NoError(t, err)

	// Flip a byte in the ciphertext (after the nonce)
	tampered := []byte(ciphertext)
	tampered[len(tampered)-1] ^= 0xff
	_, err = svc.Decrypt(string(tampered))
	assert.ErrorIs(t, err, ErrMalformedCiphertext)
}

func TestDecrypt_WrongKey(t *testing.T) {
	svc1, err := NewAesGcmService(testKey)
	require.NoError(t, err)
	svc2, err := NewAesGcmService("fedcba9876543210fedcba9876543210fedcba9876543210fedcba9876543210")
	require.NoError(t, err)

	ciphertext, err := svc1.Encrypt("secret")
	require.NoError(t, err)

	_, err = svc2.Decrypt(ciphertext)
	assert.ErrorIs(t, err, ErrMalformedCiphertext)
}

func TestNoopService_Passthrough(t *testing.T) {
	svc := NoopService{}

	ciphertext, err := svc.Encrypt("plaintext")
	require.NoError(t, err)
	assert.Equal(t, "plaintext", ciphertext)

	decrypted, err := svc.Decrypt("plaintext")
	require.NoError(t, err)
	assert.Equal(t, "plaintext", decrypted)
}
