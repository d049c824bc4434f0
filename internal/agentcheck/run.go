package agentcheck

import (
	"context"
	"fmt"

	"github.com/HerbHall/cicheck/internal/check"
	"github.com/HerbHall/cicheck/internal/jenkins"
	"github.com/HerbHall/cicheck/internal/statestore"
	"go.uber.org/zap"
)

// Config controls one agent-probe invocation.
type Config struct {
	// Name restricts the probe to a single agent; empty means the fleet.
	Name string
	// Stateful enables transition detection against the persisted state.
	Stateful   bool
	Thresholds Thresholds
}

// Runner wires the agent probe's collaborators.
type Runner struct {
	client *jenkins.Client
	store  statestore.Store
	logger *zap.Logger
}

// NewRunner creates an agent-probe runner. store may be nil when the probe
// runs stateless.
func NewRunner(client *jenkins.Client, store statestore.Store, logger *zap.Logger) *Runner {
	return &Runner{client: client, store: store, logger: logger}
}

// Run performs one poll. Fetch and decode failures surface as errors and map
// to UNKNOWN in the caller; every other path yields a concrete verdict.
func (r *Runner) Run(ctx context.Context, cfg Config) (check.Result, error) {
	computers, err := r.client.Computers(ctx)
	if err != nil {
		return check.Result{}, err
	}

	snapshots := make([]EntitySnapshot, len(computers))
	for i, c := range computers {
		snapshots[i] = FromComputer(c)
	}

	agg := Aggregate(snapshots, cfg.Name)
	r.logger.Debug("aggregated agent poll",
		zap.Int("agents", agg.Totals.Entities),
		zap.Int("offline", agg.Totals.Offline),
		zap.Int("executors", agg.Totals.Executors),
		zap.Int("running_executors", agg.Totals.RunningExecutors),
	)

	var trans *TransitionOutcome
	if cfg.Stateful && r.store != nil {
		instanceKey := statestore.InstanceKey(r.client.BaseURL())
		prev := r.store.Load(ctx, instanceKey)
		if len(prev) > 0 {
			out := DetectTransitions(prev, agg.Statuses)
			trans = &out
			r.logger.Debug("detected transitions",
				zap.Int("events", len(out.Events)),
				zap.String("severity", out.Severity.String()),
			)
		} else {
			r.logger.Debug("no prior state, skipping transition detection",
				zap.String("instance", instanceKey))
		}
		// A persistence failure must not block the verdict; it is traced
		// inside the store and ignored here.
		_ = r.store.Save(ctx, instanceKey, agg.Statuses)
	}

	result := Evaluate(agg, trans, cfg.Thresholds)
	result.Perfdata = perfdata(agg.Totals, cfg.Thresholds)
	result.Long = longOutput(agg, trans)
	return result, nil
}

func perfdata(t AggregateTotals, th Thresholds) []check.Perfdatum {
	data := []check.Perfdatum{
		check.Counter("agents", t.Entities),
		{Label: "offline", Value: float64(t.Offline), Warn: check.ThresholdUnset, Crit: check.ThresholdUnset, Max: float64(t.Entities)},
		{Label: "busy_executors", Value: float64(t.RunningExecutors), Warn: check.ThresholdUnset, Crit: check.ThresholdUnset, Max: float64(t.Executors)},
	}
	if pct, ok := t.OfflineRatioPct(); ok {
		data = append(data, check.Perfdatum{
			Label: "offline_pct", Value: pct, UOM: "%",
			Warn: th.OfflineWarnPct, Crit: th.OfflineCritPct, Max: 100,
		})
	}
	if pct, ok := t.UtilizationPct(); ok {
		data = append(data, check.Perfdatum{
			Label: "busy_pct", Value: pct, UOM: "%",
			Warn: th.ExecutorWarnPct, Crit: th.ExecutorCritPct, Max: 100,
		})
	}
	return data
}

func longOutput(agg Aggregation, trans *TransitionOutcome) []string {
	lines := make([]string, 0, len(agg.Entities))
	for _, e := range agg.Entities {
		if e.Offline {
			line := fmt.Sprintf("agent %s: offline", e.Name)
			if e.TemporarilyOffline {
				line += " (temporarily)"
			}
			if e.OfflineCause != "" {
				line += ": " + e.OfflineCause
			}
			lines = append(lines, line)
			continue
		}
		running, total := e.ExecutorCounts()
		lines = append(lines, fmt.Sprintf("agent %s: online, %d of %d executors busy", e.Name, running, total))
	}
	if trans != nil {
		for _, ev := range trans.Events {
			lines = append(lines, ev.Message())
		}
	}
	return lines
}
