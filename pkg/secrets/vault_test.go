package secrets

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const testKeyHex = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

func TestNewVaultRejectsBadKeys(t *testing.T) {
	_, err := NewVault("not-hex")
	require.Error(t, err)

	_, err = NewVault("abcd")
	require.Error(t, err)
}

func TestIssueRoundTrip(t *testing.T) {
	vault, err := NewVault(testKeyHex)
	require.NoError(t, err)

	issued, err := vault.Issue()
	require.NoError(t, err)
	require.Len(t, issued.Plain, 32)
	require.Equal(t, strings.ToLower(issued.Plain), issued.Plain)

	ivHex, cipherHex, ok := strings.Cut(issued.Encrypted, ":")
	require.True(t, ok)
	require.Len(t, ivHex, 32)
	require.NotEmpty(t, cipherHex)

	plain, err := vault.Decrypt(issued.Encrypted)
	require.NoError(t, err)
	require.Equal(t, issued.Plain, plain)
}

func TestIssueUsesFreshIVs(t *testing.T) {
	vault, err := NewVault(testKeyHex)
	require.NoError(t, err)

	first, err := vault.Encrypt("same plaintext")
	require.NoError(t, err)
	second, err := vault.Encrypt("same plaintext")
	require.NoError(t, err)
	require.NotEqual(t, first, second)
}

func TestVerify(t *testing.T) {
	vault, err := NewVault(testKeyHex)
	require.NoError(t, err)

	issued, err := vault.Issue()
	require.NoError(t, err)

	require.NoError(t, vault.Verify(issued.Encrypted, issued.Plain))

	// Flip one bit of the supplied key.
	raw, err := hex.DecodeString(issued.Plain)
	require.NoError(t, err)
	raw[0] ^= 0x01
	err = vault.Verify(issued.Encrypted, hex.EncodeToString(raw))
	require.ErrorIs(t, err, ErrKeyMismatch)
}

func TestDecryptMalformedRecords(t *testing.T) {
	vault, err := NewVault(testKeyHex)
	require.NoError(t, err)

	for _, record := range []string{
		"",
		"no-separator",
		":abcd",
		"abcd:",
		"zzzz:abcd",
		"00112233445566778899aabbccddeeff:zz",
		"00112233445566778899aabbccddeeff:abcdef", // not block aligned
	} {
		_, err := vault.Decrypt(record)
		require.ErrorIs(t, err, ErrMalformedRecord, "record %q", record)
	}
}
