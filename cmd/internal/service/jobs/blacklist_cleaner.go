package jobs

import (
	"context"
	"fmt"
	"time"

	"notetaker/cmd/internal/utils"

	"github.com/labstack/gommon/log"
	"github.com/robfig/cron/v3"
)

const CleanInterval = 1 * time.Hour

type TokenRepository interface {
	DeleteExpired(before int64) (int64, error)
}

// BlacklistCleaner drops revoked tokens once they would have expired anyway.
type BlacklistCleaner struct {
	tokenRepo TokenRepository
	interval  time.Duration
	now       func() int64
}

func NewBlacklistCleaner(repo TokenRepository) *BlacklistCleaner {
	return &BlacklistCleaner{
		tokenRepo: repo,
		interval:  CleanInterval,
		now:       utils.NowUTC,
	}
}

// Start runs the sweep on every interval until ctx is done.
func (c *BlacklistCleaner) Start(ctx context.Context) {
	scheduler := cron.New(cron.WithLocation(time.UTC))

	// cron schedules have a one second resolution.
	seconds := max(int(c.interval.Seconds()), 1)
	if _, err := scheduler.AddFunc(fmt.Sprintf("@every %ds", seconds), c.cleanup); err != nil {
		log.Errorf("Cleaner: failed to schedule blacklist sweep: %v", err)
		return
	}

	scheduler.Start()
	log.Info("Token blacklist cleaner cron started")

	<-ctx.Done()
	log.Info("Stopping token blacklist cleaner...")
	<-scheduler.Stop().Done()
}

func (c *BlacklistCleaner) cleanup() {
	cutoff := c.now()

	removed, err := c.tokenRepo.DeleteExpired(cutoff)
	if err != nil {
		log.Errorf("Cleaner: failed to delete expired blacklist entries: %v", err)
		return
	}

	if removed > 0 {
		log.Debugf("Cleaner: swept %d blacklist entries expired before %d", removed, cutoff)
	}
}
