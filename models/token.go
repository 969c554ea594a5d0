package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// AuthClaims is the claim set carried by a campaign custom token.
// Older tokens nest the same fields under "claims"; see utils.ParseAuthClaims.
type AuthClaims struct {
	PlayerID        string `json:"playerid,omitempty"`
	UserID          int64  `json:"userid,omitempty"`
	IsGM            bool   `json:"is_gm,omitempty"`
	CurrentCampaign string `json:"currentcampaign,omitempty"`

	jwt.RegisteredClaims
}

// Token wraps a signed campaign token with its parsed claims.
type Token struct {
	// Token is the underlying JWT token. Excluded from JSON serialization
	// because only the compact string form is meaningful outside the process.
	*jwt.Token `json:"-"`

	AuthClaims

	// SignedString is the compact JWS representation of the token.
	SignedString string `json:"-"`
}

// String returns the compact JWS serialization of the token.
// It implements the [fmt.Stringer] interface.
func (t *Token) String() string {
	return t.SignedString
}

// Auth is the result of authenticating against a backend.
type Auth struct {
	UID      string
	PlayerID string
	IsGM     bool
	Campaign string
	// Expires is the unix time the token stops being accepted, 0 if unknown.
	Expires int64
}
