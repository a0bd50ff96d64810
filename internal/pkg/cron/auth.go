package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/timeyeet/timeyeet-backend-go/internal/domain/auth"
)

const (
	refreshTokenPurgeInterval = 6 * time.Hour
	refreshTokenRetention = 7 * 24 * time.Hour
)

// AuthJobs contains session housekeeping jobs
type AuthJobs struct {
	refreshTokens auth.RefreshTokenRepository
	logger        *slog.Logger
	now           func() time.Time
}

func NewAuthJobs(refreshTokens auth.RefreshTokenRepository, logger *slog.Logger) *AuthJobs {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthJobs{refreshTokens: refreshTokens, logger: logger, now: time.Now}
}

func (j *AuthJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("purge_stale_refresh_tokens", refreshTokenPurgeInterval, j.PurgeStaleRefreshTokens)
}

// PurgeStaleRefreshTokens deletes refresh tokens that expired or were
// revoked more than a week ago.
func (j *AuthJobs) PurgeStaleRefreshTokens(ctx context.Context) error {
	deleted, err := j.refreshTokens.DeleteStaleRefreshTokens(ctx, j.now().Add(-refreshTokenRetention))
	if err != nil {
		return err
	}
	if deleted > 0 {
		j.logger.Info("Cron: purged refresh tokens", "count", deleted)
	}
	return nil
}
