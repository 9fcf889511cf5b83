package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"user_auth/internal/apperrors"
	"user_auth/internal/logger"
	"user_auth/internal/models"
	"user_auth/internal/repository"
)

type AuditService struct {
	eventRepo repository.EventRepo
	log       *logger.Logger
}

func NewAuditService(eventRepo repository.EventRepo, log *logger.Logger) *AuditService {
	return &AuditService{eventRepo: eventRepo, log: logger.OrNop(log)}
}

var errInvalidTimeRange = fmt.Errorf("%w: 'from' must be <= 'to'", apperrors.ErrInvalidInput)

// Record appends an event. The audit trail is best-effort: a failed write is
// logged and never fails the request that triggered it.
func (s *AuditService) Record(ctx context.Context, e models.AuthEvent) {
	if err := s.eventRepo.Append(ctx, e); err != nil {
		s.log.Warnw("audit_append_failed", "type", e.Type, "user_id", e.UserID, "err", err)
	}
}

// normalizeToUTC returns t in UTC, preserving zero time values.
func normalizeToUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}

// normalizeEventType trims spaces and uppercases the event type filter.
func normalizeEventType(s string) string {
	return strings.TrimSpace(strings.ToUpper(s))
}

// normalizeAndValidateFilter prepares query parameters and validates the time range.
func normalizeAndValidateFilter(f EventFilter) (repository.EventFilter, error) {
	from := normalizeToUTC(f.From)
	to := normalizeToUTC(f.To)

	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return repository.EventFilter{}, errInvalidTimeRange
	}

	return repository.EventFilter{
		UserID: f.UserID,
		From:   from,
		To:     to,
		Type:   normalizeEventType(f.Type),
	}, nil
}

func (s *AuditService) List(ctx context.Context, f EventFilter) ([]models.AuthEvent, error) {
	rf, err := normalizeAndValidateFilter(f)
	if err != nil {
		return nil, err
	}
	return s.eventRepo.List(ctx, rf)
}
