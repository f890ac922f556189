package mock

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// createAccessToken creates a signed JWT access token for username
func (b *Backend) createAccessToken(username string) (string, error) {
	now := time.Now()
	jti := uuid.NewString()
	claims := jwt.MapClaims{
		"sub":        username,
		"exp":        now.Add(b.AccessTTL).Unix(),
		"iat":        now.Unix(),
		"jti":        jti,
		"token_type": "access",
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(b.Key)
	if err != nil {
		return "", err
	}
	b.accessTokens.Put(jti, true)
	return token, nil
}

// verifyAccessToken returns token subject when valid
func (b *Backend) verifyAccessToken(tokenString string) (string, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return b.Key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}
	jti, _ := claims["jti"].(string)
	if valid, _ := b.accessTokens.Get(jti); !valid {
		return "", errors.New("token revoked")
	}
	return claims.GetSubject()
}

func (b *Backend) createRefreshToken(username string) string {
	token := "r-" + uuid.NewString()
	b.refreshTokens.Put(token, username)
	return token
}
