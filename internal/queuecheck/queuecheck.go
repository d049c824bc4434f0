// Package queuecheck implements the build-queue depth probe.
package queuecheck

import (
	"context"
	"fmt"
	"time"

	"github.com/HerbHall/cicheck/internal/check"
	"github.com/HerbHall/cicheck/internal/jenkins"
	"go.uber.org/zap"
)

// Config holds the queue probe thresholds. Warn and Crit apply to the queue
// length with a strict ">" comparison; check.ThresholdUnset disables a rule.
// StuckAfter additionally flags items waiting longer than the duration
// (0 disables the age rule; items the server itself marks stuck always
// count).
type Config struct {
	Warn       int
	Crit       int
	StuckAfter time.Duration
}

// Run fetches the queue and evaluates it.
func Run(ctx context.Context, client *jenkins.Client, cfg Config, logger *zap.Logger) (check.Result, error) {
	items, err := client.QueueItems(ctx)
	if err != nil {
		return check.Result{}, err
	}
	logger.Debug("fetched build queue", zap.Int("items", len(items)))
	return Evaluate(items, time.Now(), cfg), nil
}

// Evaluate applies the queue thresholds at the given point in time.
func Evaluate(items []jenkins.QueueItem, now time.Time, cfg Config) check.Result {
	stuck := 0
	var long []string
	for _, item := range items {
		queuedAt := time.UnixMilli(item.InQueueSince)
		age := now.Sub(queuedAt)
		isStuck := item.Stuck || (cfg.StuckAfter > 0 && age >= cfg.StuckAfter)
		if isStuck {
			stuck++
			line := fmt.Sprintf("item %d queued for %s", item.ID, age.Round(time.Second))
			if item.Why != "" {
				line += ": " + item.Why
			}
			long = append(long, line)
		}
	}

	res := check.Result{Severity: check.OK, Long: long}
	switch {
	case cfg.Crit != check.ThresholdUnset && len(items) > cfg.Crit:
		res.Severity = check.Critical
		res.Message = fmt.Sprintf("%d items queued (> %d)", len(items), cfg.Crit)
	case cfg.Warn != check.ThresholdUnset && len(items) > cfg.Warn:
		res.Severity = check.Warning
		res.Message = fmt.Sprintf("%d items queued (> %d)", len(items), cfg.Warn)
	case stuck > 0:
		res.Severity = check.Warning
		res.Message = fmt.Sprintf("%d of %d queued items stuck", stuck, len(items))
	default:
		res.Message = fmt.Sprintf("%d items queued", len(items))
	}

	res.Perfdata = []check.Perfdatum{
		{Label: "queue", Value: float64(len(items)), Warn: cfg.Warn, Crit: cfg.Crit, Max: -1},
		check.Counter("stuck", stuck),
	}
	return res
}
