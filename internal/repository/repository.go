package repository

import (
	"context"
	"database/sql"
	"time"

	"user_auth/internal/models"
)

type Authorization interface {
	Create(ctx context.Context, username, hash string) (int, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByID(ctx context.Context, id int) (*models.User, error)
}

type EventRepo interface {
	Append(ctx context.Context, e models.AuthEvent) error
	List(ctx context.Context, f EventFilter) ([]models.AuthEvent, error)
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// EventFilter narrows List results. Zero values mean "no constraint".
type EventFilter struct {
	UserID int
	From   time.Time // inclusive
	To     time.Time // inclusive
	Type   string
}

type Repository struct {
	Auth      Authorization
	EventRepo EventRepo
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Auth:      NewUserRepository(db),
		EventRepo: NewEventSQLite(db),
	}
}
