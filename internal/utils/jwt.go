package utils // helper functions for token creation and hashing

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AccessToken is a signed dashboard JWT together with its expiry.  The
// token goes into the Authorization header of dashboard requests.
type AccessToken struct {
	Token string
	Exp   time.Time // UTC expiration time
}

// NewAccessToken builds and signs an HS256 JWT for a dashboard admin.
// The claims carry the admin id as subject plus the role, so the role
// middleware can gate superadmin-only routes without a DB lookup.
func NewAccessToken(secret string, adminID uint64, role string, ttlMin int) (AccessToken, error) {
	exp := time.Now().UTC().Add(time.Duration(ttlMin) * time.Minute)
	claims := jwt.MapClaims{
		"sub":  adminID,
		"role": role,
		"exp":  exp.Unix(),
		"iat":  time.Now().UTC().Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}
