package token

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/MrEthical07/goRate/identity"
	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrMalformed wraps every decode failure.
	ErrMalformed = errors.New("malformed credential token")
	// ErrSegmentCount is returned when the token does not have exactly three segments.
	ErrSegmentCount = errors.New("token must have three segments")
	// ErrPayloadEncoding is returned when the payload is not valid base64url.
	ErrPayloadEncoding = errors.New("token payload is not base64url")
	// ErrPayloadFormat is returned when the payload is not a JSON object with the expected claims.
	ErrPayloadFormat = errors.New("token payload is not a claims object")
	// ErrUnknownRole is returned when the role claim is outside the closed role set.
	ErrUnknownRole = errors.New("token role is not recognized")
)

const segmentCount = 3

// segments decodes with padding tolerated; some issuers pad their payloads.
var segments = jwt.NewParser(jwt.WithPaddingAllowed())

// Decode splits raw into header, payload and signature and decodes the
// payload. The header and signature are left untouched.
func Decode(raw string) (*Claims, error) {
	parts := strings.Split(raw, ".")
	if len(parts) != segmentCount {
		return nil, malformed(ErrSegmentCount, fmt.Errorf("got %d", len(parts)))
	}

	payload, err := segments.DecodeSegment(parts[1])
	if err != nil {
		return nil, malformed(ErrPayloadEncoding, err)
	}

	return decodePayload(payload)
}

func decodePayload(payload []byte) (*Claims, error) {
	var claims Claims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, malformed(ErrPayloadFormat, err)
	}
	if _, err := identity.ParseRole(claims.Role); err != nil {
		return nil, malformed(ErrUnknownRole, err)
	}
	return &claims, nil
}

// DecodeIdentity is Decode followed by Claims.Identity.
func DecodeIdentity(raw string) (identity.Identity, error) {
	claims, err := Decode(raw)
	if err != nil {
		return identity.Identity{}, err
	}
	return claims.Identity(), nil
}

func malformed(kind, cause error) error {
	return fmt.Errorf("%w: %w: %w", ErrMalformed, kind, cause)
}
