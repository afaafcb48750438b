package jobs

import (
	"context"
	"time"

	"crowd-bidding/utils"
)

// RoundCloser closes every expired active round
type RoundCloser interface {
	CloseExpiredRounds(ctx context.Context) (int, error)
}

// RoundSweeperJob closes expired rounds in the background so winners are
// decided even when nobody polls.
type RoundSweeperJob struct {
	Closer  RoundCloser
	Timeout time.Duration
}

func NewRoundSweeperJob(closer RoundCloser) *RoundSweeperJob {
	return &RoundSweeperJob{Closer: closer, Timeout: 30 * time.Second}
}

// Run performs one sweep and returns how many rounds it closed
func (j *RoundSweeperJob) Run(ctx context.Context) int {
	ctx, cancel := context.WithTimeout(ctx, j.Timeout)
	defer cancel()

	closed, err := j.Closer.CloseExpiredRounds(ctx)
	if err != nil {
		utils.Error("round sweeper: sweep failed", map[string]any{"closed": closed, "error": err.Error()})
		return closed
	}
	if closed > 0 {
		utils.Info("round sweeper: closed expired rounds", map[string]any{"closed": closed})
	}
	return closed
}

// Start sweeps every interval until ctx is cancelled
func (j *RoundSweeperJob) Start(ctx context.Context, interval time.Duration) {
	utils.Info("round sweeper: started", map[string]any{"interval": interval.String()})
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				utils.Info("round sweeper: stopped", nil)
				return
			case <-ticker.C:
				j.Run(ctx)
			}
		}
	}()
}
