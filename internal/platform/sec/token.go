// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// sessionTokenEntropy is the number of random bytes carried in the jti claim.
const sessionTokenEntropy = 32

// ErrInvalidToken is returned when a bearer token is malformed or its signature does not verify.
var ErrInvalidToken = errors.New("sec: invalid session token")

// SessionClaims is the payload signed into every bearer session token.
//
// The claims only prove the token was minted by this server. Whether the
// session is still alive is decided by the session store, which is why
// expiry is not validated while parsing.
type SessionClaims struct {
	jwt.RegisteredClaims
}

// TokenService mints and verifies HS256 session tokens.
type TokenService struct {
	secret []byte
	issuer string
}

// NewTokenService creates a new TokenService signing with the shared secret.
func NewTokenService(secret, issuer string) *TokenService {
	return &TokenService{secret: []byte(secret), issuer: issuer}
}

/*
Issue mints a new bearer token bound to userID.

Every token carries a fresh random jti, so two tokens are never equal
even for the same user and second.

Returns:
  - string: The signed token
  - error: Entropy or signing failures
*/
func (service *TokenService) Issue(userID string, issuedAt time.Time, timeToLive time.Duration) (string, error) {
	jti, err := GenerateSecureToken(sessionTokenEntropy)
	if err != nil {
		return "", err
	}

	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   userID,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(timeToLive)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(service.secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signed, nil
}

// Verify checks the signature and issuer of a token and returns its claims.
func (service *TokenService) Verify(tokenString string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(token *jwt.Token) (any, error) {
			return service.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.Issuer != service.issuer || claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
