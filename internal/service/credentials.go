package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"user_auth/internal/apperrors"
	"user_auth/internal/models"
	"user_auth/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// bcrypt ignores everything past 72 bytes; longer passwords are rejected
// instead of being silently truncated.
const maxPasswordBytes = 72

// dummyPassword is hashed once per store and compared against when the
// username is unknown, so both failure paths cost one bcrypt comparison.
const dummyPassword = "timing-equalizer"

var generateFromPassword = bcrypt.GenerateFromPassword

// CredentialStore handles registration and password verification.
type CredentialStore struct {
	authRepo  repository.Authorization
	cost      int
	dummyHash []byte
}

var _ Credentials = (*CredentialStore)(nil)

// NewCredentialStore returns a store hashing with the given bcrypt cost.
// An out-of-range cost falls back to bcrypt.DefaultCost.
func NewCredentialStore(repo repository.Authorization, cost int) (*CredentialStore, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	dummy, err := generateFromPassword([]byte(dummyPassword), cost)
	if err != nil {
		return nil, fmt.Errorf("hash timing-equalizer password: %w", err)
	}
	return &CredentialStore{authRepo: repo, cost: cost, dummyHash: dummy}, nil
}

// Register hashes the password and creates a new user. A taken username
// yields apperrors.ErrDuplicateUsername and leaves the store unchanged.
func (s *CredentialStore) Register(ctx context.Context, username, password string) (int, error) {
	username, err := normalizeUsername(username)
	if err != nil {
		return 0, err
	}
	hash, err := hashPassword(password, s.cost)
	if err != nil {
		return 0, err
	}
	return s.authRepo.Create(ctx, username, hash)
}

// Verify returns the id of the user identified by username and password.
// On apperrors.ErrInvalidCredentials the matched user's id is still returned
// so the failure can be attributed in the audit trail; it does not authenticate.
func (s *CredentialStore) Verify(ctx context.Context, username, password string) (int, error) {
	username, err := normalizeUsername(username)
	if err != nil {
		return 0, err
	}

	u, err := s.authRepo.GetByUsername(ctx, username)
	if err != nil {
		return 0, err
	}
	if u == nil {
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
		return 0, apperrors.ErrUserNotFound
	}

	// bcrypt only reads the first 72 bytes, so a longer password could match a
	// stored one it differs from. Register never stores such a password.
	if len(password) > maxPasswordBytes {
		_ = verifyPassword(u.PasswordHash, password)
		return u.ID, apperrors.ErrInvalidCredentials
	}

	if err := verifyPassword(u.PasswordHash, password); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return u.ID, apperrors.ErrInvalidCredentials
		}
		return 0, fmt.Errorf("compare password hash for user %d: %w", u.ID, err)
	}
	return u.ID, nil
}

// Lookup resolves a user id (typically taken from a verified token) to the user record.
func (s *CredentialStore) Lookup(ctx context.Context, userID int) (models.User, error) {
	u, err := s.authRepo.GetByID(ctx, userID)
	if err != nil {
		return models.User{}, err
	}
	if u == nil {
		return models.User{}, apperrors.ErrUserNotFound
	}
	return *u, nil
}

func normalizeUsername(username string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return "", fmt.Errorf("%w: username is required", apperrors.ErrInvalidInput)
	}
	return username, nil
}

// helper: hash password safely
func hashPassword(password string, cost int) (string, error) {
	if strings.TrimSpace(password) == "" {
		return "", fmt.Errorf("%w: password is required", apperrors.ErrInvalidInput)
	}
	if len(password) > maxPasswordBytes {
		return "", fmt.Errorf("%w: password must be at most %d bytes", apperrors.ErrInvalidInput, maxPasswordBytes)
	}
	hash, err := generateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// helper: verify password against hash
func verifyPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
