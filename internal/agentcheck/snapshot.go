// Package agentcheck implements the agent-status probe: it folds the polled
// agent snapshots into totals, diffs them against the previously persisted
// state to detect online/offline transitions, and applies the ordered
// threshold rules that produce the final verdict.
package agentcheck

import (
	"github.com/HerbHall/cicheck/internal/jenkins"
	"github.com/HerbHall/cicheck/internal/statestore"
)

// EntitySnapshot is one agent's status at poll time.
type EntitySnapshot struct {
	Name               string
	ExecutorsIdle      []bool
	Offline            bool
	TemporarilyOffline bool
	OfflineCause       string
}

// FromComputer converts a decoded API computer into a snapshot.
func FromComputer(c jenkins.Computer) EntitySnapshot {
	idle := make([]bool, len(c.Executors))
	for i, e := range c.Executors {
		idle[i] = e.Idle
	}
	return EntitySnapshot{
		Name:               c.DisplayName,
		ExecutorsIdle:      idle,
		Offline:            c.Offline,
		TemporarilyOffline: c.TemporarilyOffline,
		OfflineCause:       c.OfflineCauseReason,
	}
}

// SimpleStatus reduces the snapshot to the persisted online/offline summary.
func (s EntitySnapshot) SimpleStatus() statestore.SimpleStatus {
	if s.Offline {
		return statestore.StatusOffline
	}
	return statestore.StatusOnline
}

// ExecutorCounts returns the running and total executor counts.
func (s EntitySnapshot) ExecutorCounts() (running, total int) {
	total = len(s.ExecutorsIdle)
	for _, idle := range s.ExecutorsIdle {
		if !idle {
			running++
		}
	}
	return running, total
}

// UtilizationPct returns the executor utilization percentage. ok is false
// when the agent has zero executors; such agents are excluded from every
// ratio-based threshold check.
func (s EntitySnapshot) UtilizationPct() (pct float64, ok bool) {
	running, total := s.ExecutorCounts()
	if total == 0 {
		return 0, false
	}
	return float64(running) * 100 / float64(total), true
}
