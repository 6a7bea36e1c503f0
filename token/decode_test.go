package token

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/MrEthical07/goRate/identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testHeader = `{"alg":"HS256","typ":"JWT"}`

func compact(payload string) string {
	enc := base64.RawURLEncoding
	return enc.EncodeToString([]byte(testHeader)) + "." + enc.EncodeToString([]byte(payload)) + ".c2ln"
}

func TestDecodeOwnerScenario(t *testing.T) {
	raw := compact(`{"sub":"u1","email":"a@b.com","role":"OWNER"}`)

	id, err := DecodeIdentity(raw)
	require.NoError(t, err)
	assert.Equal(t, identity.Identity{UserID: "u1", Email: "a@b.com", Role: identity.RoleOwner}, id)
}

func TestDecodeEveryRecognizedRole(t *testing.T) {
	for _, role := range identity.Roles() {
		claims, err := Decode(compact(`{"sub":"u","email":"e@x","role":"` + string(role) + `"}`))
		require.NoError(t, err, role)
		assert.Equal(t, role, claims.Identity().Role)
	}
}

func TestDecodeRejectsWrongSegmentCount(t *testing.T) {
	good := compact(`{"sub":"u1","email":"a@b.com","role":"USER"}`)
	cases := []string{
		"",
		"onlyone",
		"two.parts",
		good + ".extra",
		"a.b.c.d.e",
	}
	for _, raw := range cases {
		_, err := Decode(raw)
		require.Error(t, err, raw)
		assert.True(t, errors.Is(err, ErrMalformed), raw)
		assert.True(t, errors.Is(err, ErrSegmentCount), raw)
	}
}

func TestDecodeRejectsBadPayloadEncoding(t *testing.T) {
	_, err := Decode("aGVhZA.!!!not-base64!!!.c2ln")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformed))
	assert.True(t, errors.Is(err, ErrPayloadEncoding))
}

func TestDecodeRejectsNonObjectPayload(t *testing.T) {
	for _, payload := range []string{`not json`, `[1,2,3]`, `"string"`, `{"sub":42,"role":"USER"}`} {
		_, err := Decode(compact(payload))
		require.Error(t, err, payload)
		assert.True(t, errors.Is(err, ErrPayloadFormat), payload)
	}
}

func TestDecodeRejectsUnknownRole(t *testing.T) {
	for _, payload := range []string{
		`{"sub":"u1","email":"a@b.com","role":"SUPERUSER"}`,
		`{"sub":"u1","email":"a@b.com","role":"admin"}`,
		`{"sub":"u1","email":"a@b.com"}`,
		`null`,
	} {
		_, err := Decode(compact(payload))
		require.Error(t, err, payload)
		assert.True(t, errors.Is(err, ErrUnknownRole), payload)
		assert.True(t, errors.Is(err, identity.ErrUnknownRole), payload)
	}
}

func TestDecodeKeepsUnderlyingCause(t *testing.T) {
	_, err := Decode("aGVhZA.!!!not-base64!!!.c2ln")
	var corrupt base64.CorruptInputError
	assert.True(t, errors.As(err, &corrupt), "base64 cause lost: %v", err)

	_, err = Decode(compact(`not json`))
	var syntax *json.SyntaxError
	assert.True(t, errors.As(err, &syntax), "json cause lost: %v", err)

	_, err = Decode(compact(`{"sub":"u1","role":"ROOT"}`))
	assert.True(t, errors.Is(err, ErrMalformed))
	assert.True(t, errors.Is(err, ErrUnknownRole))
	assert.True(t, errors.Is(err, identity.ErrUnknownRole))
}

func TestDecodeToleratesPaddedPayload(t *testing.T) {
	enc := base64.URLEncoding
	raw := enc.EncodeToString([]byte(testHeader)) + "." +
		enc.EncodeToString([]byte(`{"sub":"u1","email":"a@b.com","role":"ADMIN"}`)) + ".sig"

	id, err := DecodeIdentity(raw)
	require.NoError(t, err)
	assert.Equal(t, identity.RoleAdmin, id.Role)
}

func TestDecodeIgnoresHeaderAndSignature(t *testing.T) {
	enc := base64.RawURLEncoding
	raw := "garbage." + enc.EncodeToString([]byte(`{"sub":"u1","email":"a@b.com","role":"USER"}`)) + "."

	id, err := DecodeIdentity(raw)
	require.NoError(t, err)
	assert.Equal(t, "u1", id.UserID)
}

func TestClaimsExpired(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)

	claims, err := Decode(compact(`{"sub":"u1","role":"USER","exp":1699999990}`))
	require.NoError(t, err)
	assert.True(t, claims.Expired(now, 0))
	assert.False(t, claims.Expired(now, 30*time.Second))

	noExp, err := Decode(compact(`{"sub":"u1","role":"USER"}`))
	require.NoError(t, err)
	assert.False(t, noExp.Expired(now, 0))
}
