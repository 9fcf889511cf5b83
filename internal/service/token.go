package service

import (
	"errors"
	"fmt"
	"time"

	"user_auth/internal/apperrors"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is the lifetime of an issued token when none is configured.
const DefaultTokenTTL = time.Hour

// Claims defines JWT claims
type Claims struct {
	jwt.RegisteredClaims
	UserID int `json:"user_id"`
}

// TokenAuthenticator issues and verifies HS256 tokens with a process-wide secret.
// It keeps no per-token state: validity is signature plus expiry.
type TokenAuthenticator struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

var _ Tokens = (*TokenAuthenticator)(nil)

func NewTokenAuthenticator(secret []byte, ttl time.Duration) *TokenAuthenticator {
	if ttl == 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenAuthenticator{secret: secret, ttl: ttl, now: time.Now}
}

// Issue returns a signed token for userID expiring ttl from now.
func (a *TokenAuthenticator) Issue(userID int) (string, error) {
	if userID <= 0 {
		return "", fmt.Errorf("%w: user id must be positive", apperrors.ErrInvalidInput)
	}
	now := a.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID: userID,
	})
	signed, err := token.SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify parses the token and returns the embedded user id.
// Anything that is not a correctly signed HS256 token carrying a user id is
// apperrors.ErrMalformedToken; a valid one at or past its expiry is
// apperrors.ErrTokenExpired.
func (a *TokenAuthenticator) Verify(accessToken string) (int, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(accessToken, claims, a.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, apperrors.ErrTokenExpired
		}
		return 0, fmt.Errorf("%w: %v", apperrors.ErrMalformedToken, err)
	}
	if !token.Valid || claims.UserID <= 0 {
		return 0, apperrors.ErrMalformedToken
	}
	return claims.UserID, nil
}

func (a *TokenAuthenticator) keyFunc(token *jwt.Token) (interface{}, error) {
	// Ensure HMAC signing is used
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
	}
	return a.secret, nil
}
