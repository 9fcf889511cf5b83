package service

import (
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"strings"
	"testing"
	"time"

	"user_auth/internal/apperrors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-signing-secret")

func newTestAuthenticator(now time.Time) *TokenAuthenticator {
	a := NewTokenAuthenticator(testSecret, time.Hour)
	a.now = func() time.Time { return now }
	return a
}

func signClaims(t *testing.T, method jwt.SigningMethod, key any, claims jwt.Claims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return s
}

// flipChar returns s with the byte at i replaced by a different base64url character.
func flipChar(s string, i int) string {
	repl := byte('A')
	if s[i] == 'A' {
		repl = 'B'
	}
	return s[:i] + string(repl) + s[i+1:]
}

func TestTokenAuthenticator_IssueThenVerify(t *testing.T) {
	a := NewTokenAuthenticator(testSecret, time.Hour)

	token, err := a.Issue(99)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Len(t, strings.Split(token, "."), 3, "compact JWS has three segments")

	uid, err := a.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, 99, uid)
}

func TestTokenAuthenticator_IssueEmbedsOneHourExpiry(t *testing.T) {
	issuedAt := time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC)
	a := newTestAuthenticator(issuedAt)

	token, err := a.Issue(5)
	require.NoError(t, err)

	claims := &Claims{}
	_, _, err = jwt.NewParser().ParseUnverified(token, claims)
	require.NoError(t, err)
	require.NotNil(t, claims.ExpiresAt)
	assert.True(t, claims.ExpiresAt.Time.Equal(issuedAt.Add(time.Hour)))
	assert.Equal(t, 5, claims.UserID)
}

func TestTokenAuthenticator_IssueRejectsNonPositiveID(t *testing.T) {
	a := NewTokenAuthenticator(testSecret, time.Hour)
	_, err := a.Issue(0)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestTokenAuthenticator_ValidityWindow(t *testing.T) {
	issuedAt := time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC)
	token, err := newTestAuthenticator(issuedAt).Issue(11)
	require.NoError(t, err)

	tests := []struct {
		name    string
		at      time.Time
		wantErr error
	}{
		{name: "just issued", at: issuedAt},
		{name: "one second before expiry", at: issuedAt.Add(time.Hour - time.Second)},
		{name: "exactly at expiry", at: issuedAt.Add(time.Hour), wantErr: apperrors.ErrTokenExpired},
		{name: "after expiry", at: issuedAt.Add(2 * time.Hour), wantErr: apperrors.ErrTokenExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uid, err := newTestAuthenticator(tt.at).Verify(token)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.False(t, errors.Is(err, apperrors.ErrMalformedToken))
				assert.Zero(t, uid)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 11, uid)
		})
	}
}

func TestTokenAuthenticator_Malformed(t *testing.T) {
	now := time.Now()
	a := NewTokenAuthenticator(testSecret, time.Hour)

	good, err := a.Issue(5)
	require.NoError(t, err)
	parts := strings.Split(good, ".")
	payloadStart := len(parts[0]) + 1
	sigStart := payloadStart + len(parts[1]) + 1

	rsaKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	valid := jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		IssuedAt:  jwt.NewNumericDate(now),
	}

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "not a jwt", token: "not-a-jwt"},
		{name: "flipped signature byte", token: flipChar(good, sigStart)},
		{name: "flipped payload byte", token: flipChar(good, payloadStart+len(parts[1])/2)},
		{name: "truncated signature", token: good[:len(good)-4]},
		{
			name:  "signed with different key",
			token: signClaims(t, jwt.SigningMethodHS256, []byte("different-key"), &Claims{RegisteredClaims: valid, UserID: 5}),
		},
		{
			name:  "unexpected algorithm RS256",
			token: signClaims(t, jwt.SigningMethodRS256, rsaKey, &Claims{RegisteredClaims: valid, UserID: 5}),
		},
		{
			name:  "alg none",
			token: signClaims(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, &Claims{RegisteredClaims: valid, UserID: 5}),
		},
		{
			name:  "missing expiry",
			token: signClaims(t, jwt.SigningMethodHS256, testSecret, &Claims{UserID: 5}),
		},
		{
			name:  "missing user id",
			token: signClaims(t, jwt.SigningMethodHS256, testSecret, &Claims{RegisteredClaims: valid}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uid, err := a.Verify(tt.token)
			assert.ErrorIs(t, err, apperrors.ErrMalformedToken)
			assert.Zero(t, uid)
		})
	}
}

func TestTokenAuthenticator_ExpiredWithBadSignatureIsMalformed(t *testing.T) {
	past := time.Now().Add(-2 * time.Hour)
	token := signClaims(t, jwt.SigningMethodHS256, []byte("other"), &Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(past)},
		UserID:           3,
	})

	_, err := NewTokenAuthenticator(testSecret, time.Hour).Verify(token)
	assert.ErrorIs(t, err, apperrors.ErrMalformedToken)
}

func TestTokenAuthenticator_DefaultTTL(t *testing.T) {
	a := NewTokenAuthenticator(testSecret, 0)
	assert.Equal(t, DefaultTokenTTL, a.ttl)
}
