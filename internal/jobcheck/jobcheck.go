// Package jobcheck implements the job-status probe: it classifies each job's
// color (the last build outcome) and applies thresholds on the failed count,
// or checks one named job directly.
package jobcheck

import (
	"context"
	"fmt"
	"strings"

	"github.com/HerbHall/cicheck/internal/check"
	"github.com/HerbHall/cicheck/internal/jenkins"
	"go.uber.org/zap"
)

// Config holds the job probe settings. Warn and Crit apply to the failed-job
// count with a strict ">" comparison in fleet mode; Job switches to
// single-job mode.
type Config struct {
	Job  string
	Warn int
	Crit int
}

type outcome int

const (
	healthy outcome = iota
	unstable
	failing
	skipped // disabled, not built, or aborted
)

// classify maps a job color to its build outcome. The "_anime" suffix marks
// an in-progress build and inherits the previous outcome.
func classify(color string) outcome {
	switch strings.TrimSuffix(color, "_anime") {
	case "red":
		return failing
	case "yellow":
		return unstable
	case "blue", "green":
		return healthy
	default:
		return skipped
	}
}

// Run fetches the job list and evaluates it.
func Run(ctx context.Context, client *jenkins.Client, cfg Config, logger *zap.Logger) (check.Result, error) {
	jobs, err := client.Jobs(ctx)
	if err != nil {
		return check.Result{}, err
	}
	logger.Debug("fetched jobs", zap.Int("jobs", len(jobs)))
	return Evaluate(jobs, cfg), nil
}

// Evaluate applies the job rules. In single-job mode a failing job is
// CRITICAL, an unstable one WARNING, and a missing one UNKNOWN.
func Evaluate(jobs []jenkins.Job, cfg Config) check.Result {
	if cfg.Job != "" {
		return evaluateSingle(jobs, cfg.Job)
	}

	var failed, unstableCount, considered int
	var long []string
	for _, j := range jobs {
		switch classify(j.Color) {
		case failing:
			failed++
			considered++
			long = append(long, fmt.Sprintf("job %s: failing", j.Name))
		case unstable:
			unstableCount++
			considered++
			long = append(long, fmt.Sprintf("job %s: unstable", j.Name))
		case healthy:
			considered++
		}
	}

	res := check.Result{Severity: check.OK, Long: long}
	switch {
	case cfg.Crit != check.ThresholdUnset && failed > cfg.Crit:
		res.Severity = check.Critical
		res.Message = fmt.Sprintf("%d of %d jobs failing (> %d)", failed, considered, cfg.Crit)
	case cfg.Warn != check.ThresholdUnset && failed > cfg.Warn:
		res.Severity = check.Warning
		res.Message = fmt.Sprintf("%d of %d jobs failing (> %d)", failed, considered, cfg.Warn)
	case failed > 0:
		res.Severity = check.Warning
		res.Message = fmt.Sprintf("%d of %d jobs failing", failed, considered)
	case unstableCount > 0:
		res.Severity = check.Warning
		res.Message = fmt.Sprintf("%d of %d jobs unstable", unstableCount, considered)
	default:
		res.Message = fmt.Sprintf("%d jobs healthy", considered)
	}

	res.Perfdata = []check.Perfdatum{
		{Label: "failed", Value: float64(failed), Warn: cfg.Warn, Crit: cfg.Crit, Max: float64(considered)},
		check.Counter("unstable", unstableCount),
		check.Counter("jobs", considered),
	}
	return res
}

func evaluateSingle(jobs []jenkins.Job, name string) check.Result {
	for _, j := range jobs {
		if j.Name != name {
			continue
		}
		switch classify(j.Color) {
		case failing:
			return check.Result{Severity: check.Critical, Message: fmt.Sprintf("job %s is failing", name)}
		case unstable:
			return check.Result{Severity: check.Warning, Message: fmt.Sprintf("job %s is unstable", name)}
		case healthy:
			return check.Result{Severity: check.OK, Message: fmt.Sprintf("job %s is healthy", name)}
		default:
			return check.Result{Severity: check.OK, Message: fmt.Sprintf("job %s has no build to judge (%s)", name, j.Color)}
		}
	}
	return check.Unknownf("job %s not found", name)
}
