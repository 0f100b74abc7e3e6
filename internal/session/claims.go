package session

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/existflow/unicompass/internal/model"
)

// tokenClaims are the access-token claims the client cares about.
type tokenClaims struct {
	Username string   `json:"username"`
	Groups   []string `json:"groups"`
	IsStaff  bool     `json:"is_staff"`
	jwt.RegisteredClaims
}

// DecodeIdentity decodes identity claims from an access token. The decode
// is purely local and unverified: the client only uses the result for UI
// gating, so signature verification stays the server's job. It fails
// closed, returning an error for anything that is not a well-formed JWT.
func DecodeIdentity(access string) (*model.Identity, error) {
	claims := &tokenClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(access, claims); err != nil {
		return nil, fmt.Errorf("failed to decode token: %w", err)
	}

	id := &model.Identity{
		Username: claims.Username,
		Groups:   claims.Groups,
		IsStaff:  claims.IsStaff,
	}
	if id.Username == "" {
		id.Username = claims.Subject
	}
	return id, nil
}
