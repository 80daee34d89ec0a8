package session

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"dropwatch/internal/common"
)

// DecodeIdentity reads the claims of a signed token without verifying its
// signature; verification is the server's job on every subsequent request,
// the client only needs the embedded identity.
//
// Token issuers are inconsistent about the payload shape: the subject claim
// may be a JSON-encoded object, an object, a bare user id, or absent with
// the identity spread over the top-level claims. The decode tries each in
// turn and fails with common.ErrMalformedToken only when no usable identity
// fields can be extracted at all. The role is normalized to lower case.
func DecodeIdentity(token string) (Identity, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return Identity{}, fmt.Errorf("%w: %v", common.ErrMalformedToken, err)
	}

	src := subjectFields(claims)
	if src == nil {
		// Flat-claims issuer: the claim set itself is the identity.
		src = claims
	}

	id := Identity{
		ID:    stringifyID(src["id"]),
		Email: stringField(src, "email", "username"),
		Role:  strings.ToLower(stringField(src, "role")),
	}
	if id.ID == "" {
		// Some issuers put the user id in a scalar subject.
		if sub, ok := claims["sub"].(string); ok && !strings.HasPrefix(sub, "{") {
			id.ID = sub
		}
	}

	if id.ID == "" && id.Email == "" {
		return Identity{}, fmt.Errorf("%w: no identity fields in claims", common.ErrMalformedToken)
	}
	return id, nil
}

// subjectFields extracts the subject claim as a field map, handling both the
// object form and the JSON-string form. Returns nil when the subject is
// absent or not an object.
func subjectFields(claims jwt.MapClaims) map[string]any {
	switch sub := claims["sub"].(type) {
	case map[string]any:
		return sub
	case string:
		var m map[string]any
		if err := json.Unmarshal([]byte(sub), &m); err == nil {
			return m
		}
	}
	return nil
}

func stringField(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if v, ok := m[k].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

// stringifyID renders a claim value that may be a JSON number or a string.
func stringifyID(v any) string {
	switch id := v.(type) {
	case string:
		return id
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64)
	case json.Number:
		return id.String()
	default:
		return ""
	}
}
