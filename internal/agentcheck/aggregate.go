package agentcheck

import "github.com/HerbHall/cicheck/internal/statestore"

// AggregateTotals holds the fleet-wide counts for one poll. Computed fresh
// each invocation, never persisted.
type AggregateTotals struct {
	Entities         int
	Offline          int
	Executors        int
	RunningExecutors int
}

// Aggregation is the result of folding one poll's snapshots.
type Aggregation struct {
	Totals AggregateTotals
	// Entities holds the snapshots that survived the name filter, in poll
	// order.
	Entities []EntitySnapshot
	// Statuses is the working name→status map handed to the state store
	// after transition detection.
	Statuses map[string]statestore.SimpleStatus
}

// Aggregate folds snapshots into totals and the working status map. When
// only is non-empty, agents with other names are ignored entirely.
func Aggregate(snapshots []EntitySnapshot, only string) Aggregation {
	agg := Aggregation{Statuses: make(map[string]statestore.SimpleStatus)}

	for _, s := range snapshots {
		if only != "" && s.Name != only {
			continue
		}
		agg.Entities = append(agg.Entities, s)
		agg.Statuses[s.Name] = s.SimpleStatus()

		agg.Totals.Entities++
		if s.Offline {
			agg.Totals.Offline++
		}
		running, total := s.ExecutorCounts()
		agg.Totals.Executors += total
		agg.Totals.RunningExecutors += running
	}
	return agg
}

// OfflineRatioPct returns the fleet offline percentage. ok is false when no
// agents were polled.
func (t AggregateTotals) OfflineRatioPct() (pct float64, ok bool) {
	if t.Entities == 0 {
		return 0, false
	}
	return float64(t.Offline) * 100 / float64(t.Entities), true
}

// UtilizationPct returns the fleet executor utilization percentage. ok is
// false when the fleet exposes no executors.
func (t AggregateTotals) UtilizationPct() (pct float64, ok bool) {
	if t.Executors == 0 {
		return 0, false
	}
	return float64(t.RunningExecutors) * 100 / float64(t.Executors), true
}
