package service

import (
	"context"
	"time"

	"user_auth/internal/logger"
	"user_auth/internal/repository"
)

// RetentionService prunes audit events older than the retention window.
type RetentionService struct {
	eventRepo repository.EventRepo
	retention time.Duration
	log       *logger.Logger
}

// NewRetentionService returns a pruner; a non-positive retention keeps events forever.
func NewRetentionService(eventRepo repository.EventRepo, retention time.Duration, log *logger.Logger) *RetentionService {
	return &RetentionService{
		eventRepo: eventRepo,
		retention: retention,
		log:       logger.OrNop(log),
	}
}

// Run ticks at the given interval until ctx is canceled.
func (s *RetentionService) Run(ctx context.Context, tick time.Duration) {
	if s.retention <= 0 || tick <= 0 {
		return
	}
	t := time.NewTicker(tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			_, _ = s.prune(ctx, now)
		}
	}
}

// prune deletes everything older than now - retention.
func (s *RetentionService) prune(ctx context.Context, now time.Time) (int64, error) {
	cutoff := now.Add(-s.retention).UTC()
	n, err := s.eventRepo.DeleteBefore(ctx, cutoff)
	if err != nil {
		s.log.Errorw("audit_prune_failed", "cutoff", cutoff, "err", err)
		return 0, err
	}
	if n > 0 {
		s.log.Infow("audit_pruned", "deleted", n, "cutoff", cutoff)
	}
	return n, nil
}
