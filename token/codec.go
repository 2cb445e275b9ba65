// Package token decodes session tokens issued by the library backend into an Identity.
//
// Signatures and expiry are not verified here. The decoded identity only drives
// client-side view gating; the backend rejects stale or forged tokens itself.
package token

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	jwt "github.com/golang-jwt/jwt/v5"
)

var (
	ErrNoToken      = errors.New("token: empty")
	ErrMalformed    = errors.New("token: malformed")
	ErrMissingClaim = errors.New("token: missing identity claim")
	ErrUnknownRole  = errors.New("token: unknown role")
)

// identityClaim is the "sub" claim as the backend writes it.
type identityClaim struct {
	ID       *int64 `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Decode extracts the identity from the payload segment of raw.
func Decode(raw string) (Identity, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Identity{}, ErrNoToken
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	sub, ok := claims["sub"]
	if !ok || sub == nil {
		return Identity{}, fmt.Errorf("%w: sub", ErrMissingClaim)
	}

	var payload []byte
	switch v := sub.(type) {
	case string:
		// Some issuers stringify the identity object.
		payload = []byte(v)
	case map[string]any:
		data, err := json.Marshal(v)
		if err != nil {
			return Identity{}, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		payload = data
	default:
		return Identity{}, fmt.Errorf("%w: sub has type %T", ErrMalformed, sub)
	}

	var claim identityClaim
	if err := json.Unmarshal(payload, &claim); err != nil {
		return Identity{}, fmt.Errorf("%w: sub: %v", ErrMalformed, err)
	}
	switch {
	case claim.ID == nil:
		return Identity{}, fmt.Errorf("%w: sub.id", ErrMissingClaim)
	case strings.TrimSpace(claim.Username) == "":
		return Identity{}, fmt.Errorf("%w: sub.username", ErrMissingClaim)
	case claim.Role == "":
		return Identity{}, fmt.Errorf("%w: sub.role", ErrMissingClaim)
	}
	role, err := ParseRole(claim.Role)
	if err != nil {
		return Identity{}, err
	}

	return Identity{ID: *claim.ID, Username: claim.Username, Role: role}, nil
}

// Codec turns possibly-absent tokens into optional identities and logs failures
// instead of returning them.
type Codec struct {
	logger *slog.Logger
}

// NewCodec returns a Codec logging to logger (slog.Default when nil).
func NewCodec(logger *slog.Logger) *Codec {
	if logger == nil {
		logger = slog.Default()
	}
	return &Codec{logger: logger}
}

// Identity reports the identity carried by raw. An empty raw yields false
// without logging; any decode failure is logged and yields false.
func (c *Codec) Identity(raw string) (Identity, bool) {
	if strings.TrimSpace(raw) == "" {
		return Identity{}, false
	}
	id, err := Decode(raw)
	if err != nil {
		c.logger.Warn("invalid session token", "error", err)
		return Identity{}, false
	}
	return id, true
}
