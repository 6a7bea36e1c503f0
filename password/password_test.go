package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolicyValidateChange(t *testing.T) {
	p := DefaultPolicy()

	assert.ErrorIs(t, p.ValidateChange("old", "longenough", "longenougH"), ErrMismatch)
	assert.ErrorIs(t, p.ValidateChange("old", "short", "short"), ErrTooShort)
	assert.ErrorIs(t, p.ValidateChange("old", "short", "shorter"), ErrMismatch, "mismatch is reported first")
	assert.NoError(t, p.ValidateChange("old", "12345678", "12345678"))

	assert.NoError(t, p.ValidateChange("same-password", "same-password", "same-password"))
	p.RejectUnchanged = true
	assert.ErrorIs(t, p.ValidateChange("same-password", "same-password", "same-password"), ErrUnchanged)
}

func TestPolicyMessage(t *testing.T) {
	err := Policy{MinLength: 12}.Validate("elevenchars")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 12 characters")

	assert.NoError(t, Policy{}.Validate("8 chars!"), "zero policy falls back to the default length")
}

func TestHashAndVerify(t *testing.T) {
	h, err := NewHasher(DefaultHashConfig())
	require.NoError(t, err)

	encoded, err := h.Hash("P@ssw0rd-Ascii")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(encoded, "$argon2id$v=19$m=8192,t=1,p=1$"), encoded)

	ok, err := h.Verify("P@ssw0rd-Ascii", encoded)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Verify("P@ssw0rd-ascii", encoded)
	require.NoError(t, err)
	assert.False(t, ok)

	again, err := h.Hash("P@ssw0rd-Ascii")
	require.NoError(t, err)
	assert.NotEqual(t, encoded, again, "salts differ")
}

func TestVerifyRejectsMalformedHashes(t *testing.T) {
	h, err := NewHasher(DefaultHashConfig())
	require.NoError(t, err)
	good, err := h.Hash("password")
	require.NoError(t, err)
	parts := strings.Split(good, "$")

	for name, encoded := range map[string]string{
		"empty":         "",
		"bcrypt":        "$2a$10$abcdefghijklmnopqrstuv",
		"wrong version": strings.Replace(good, "v=19", "v=16", 1),
		"low memory":    strings.Replace(good, "m=8192", "m=1024", 1),
		"unknown param": strings.Replace(good, "p=1", "x=1", 1),
		"bad salt":      strings.Join([]string{"", parts[1], parts[2], parts[3], "!!", parts[5]}, "$"),
		"short key":     strings.Join([]string{"", parts[1], parts[2], parts[3], parts[4], "AAAA"}, "$"),
	} {
		_, err := h.Verify("password", encoded)
		assert.ErrorIs(t, err, ErrInvalidHash, name)
	}
}

func TestNewHasherRejectsWeakConfig(t *testing.T) {
	cfg := DefaultHashConfig()
	cfg.SaltLength = 8
	_, err := NewHasher(cfg)
	assert.Error(t, err)
}
