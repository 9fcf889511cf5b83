package service

import (
	"context"
	"time"

	"user_auth/internal/config"
	"user_auth/internal/logger"
	"user_auth/internal/models"
	"user_auth/internal/repository"
)

// Credentials is the sole authority on whether a username/password pair identifies a user.
type Credentials interface {
	Register(ctx context.Context, username, password string) (int, error)
	Verify(ctx context.Context, username, password string) (int, error)
	Lookup(ctx context.Context, userID int) (models.User, error)
}

// Tokens issues and verifies stateless bearer tokens.
type Tokens interface {
	Issue(userID int) (string, error)
	Verify(token string) (int, error)
}

// Audit records authentication events and lists them back.
type Audit interface {
	Record(ctx context.Context, e models.AuthEvent)
	List(ctx context.Context, f EventFilter) ([]models.AuthEvent, error)
}

// Retention runs the background loop that prunes old audit events.
// Stop via context cancellation in main() for graceful shutdown.
type Retention interface {
	Run(ctx context.Context, tick time.Duration)
}

type Service struct {
	Credentials
	Tokens
	Audit
	Retention
}

// NewService wires the repository layer into concrete services using the
// startup configuration.
func NewService(repos *repository.Repository, cfg *config.Config, log *logger.Logger) (*Service, error) {
	log = logger.OrNop(log)
	creds, err := NewCredentialStore(repos.Auth, cfg.Auth.BcryptCost)
	if err != nil {
		return nil, err
	}
	return &Service{
		Credentials: creds,
		Tokens:      NewTokenAuthenticator([]byte(cfg.JWT.Secret), cfg.JWT.TTL),
		Audit:       NewAuditService(repos.EventRepo, log),
		Retention:   NewRetentionService(repos.EventRepo, cfg.Audit.Retention, log),
	}, nil
}
