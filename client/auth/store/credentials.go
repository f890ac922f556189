package store

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
)

// Credentials represents the session credential pair
type Credentials struct {
	AccessToken  string    `json:"access,omitempty"`
	RefreshToken string    `json:"refresh,omitempty"`
	Subject      string    `json:"username,omitempty"`
	Expiry       time.Time `json:"expiry,omitempty"`
}

// HasAccess returns true if an access token is present
func (c Credentials) HasAccess() bool {
	return c.AccessToken != ""
}

// CanRefresh returns true if a refresh token is present
func (c Credentials) CanRefresh() bool {
	return c.RefreshToken != ""
}

// IsZero returns true when nothing is stored
func (c Credentials) IsZero() bool {
	return c.AccessToken == "" && c.RefreshToken == "" && c.Subject == ""
}

// Token converts credentials to an oauth2 token
func (c Credentials) Token() *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  c.AccessToken,
		TokenType:    "Bearer",
		RefreshToken: c.RefreshToken,
		Expiry:       c.Expiry,
	}
}

// expiryOf reads the exp claim of a JWT access token without verifying it;
// opaque tokens yield a zero time.
func expiryOf(accessToken string) time.Time {
	if accessToken == "" {
		return time.Time{}
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(accessToken, claims); err != nil {
		return time.Time{}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}
