package agentcheck

import (
	"fmt"

	"github.com/HerbHall/cicheck/internal/check"
)

// Thresholds holds the four configurable percentage pairs. A value of
// check.ThresholdUnset disables the corresponding rule.
type Thresholds struct {
	OfflineWarnPct  int
	OfflineCritPct  int
	ExecutorWarnPct int
	ExecutorCritPct int
}

// UnsetThresholds returns a Thresholds with every rule disabled.
func UnsetThresholds() Thresholds {
	return Thresholds{
		OfflineWarnPct:  check.ThresholdUnset,
		OfflineCritPct:  check.ThresholdUnset,
		ExecutorWarnPct: check.ThresholdUnset,
		ExecutorCritPct: check.ThresholdUnset,
	}
}

type trigger struct {
	severity check.Severity
	message  string
}

// Evaluate applies the ordered threshold rules and merges in the transition
// outcome (nil when state comparison is disabled or there is no history).
// The first rule to trigger at CRITICAL decides the verdict; failing that,
// the first to trigger at WARNING; otherwise the probe is OK.
//
// The offline ratio intentionally uses a strict ">" comparison while the
// executor ratios use ">="; the asymmetry is inherited behavior and must not
// be unified without a compatibility decision.
func Evaluate(agg Aggregation, trans *TransitionOutcome, th Thresholds) check.Result {
	if agg.Totals.Entities == 0 {
		return check.Result{Severity: check.OK, Message: "no agents found"}
	}

	var triggers []trigger

	// Per-agent executor utilization, critical before warning, poll order.
	for _, sev := range []check.Severity{check.Critical, check.Warning} {
		pct := th.ExecutorCritPct
		if sev == check.Warning {
			pct = th.ExecutorWarnPct
		}
		if pct == check.ThresholdUnset {
			continue
		}
		for _, e := range agg.Entities {
			util, ok := e.UtilizationPct()
			if !ok || util < float64(pct) {
				continue
			}
			running, total := e.ExecutorCounts()
			triggers = append(triggers, trigger{sev, fmt.Sprintf(
				"agent %s: %d of %d executors busy (%.0f%% >= %d%%)",
				e.Name, running, total, util, pct)})
			break
		}
	}

	if trans != nil && trans.Severity > check.OK {
		triggers = append(triggers, trigger{trans.Severity, trans.Message})
	}

	if offline, ok := agg.Totals.OfflineRatioPct(); ok {
		if th.OfflineCritPct != check.ThresholdUnset && offline > float64(th.OfflineCritPct) {
			triggers = append(triggers, trigger{check.Critical, fmt.Sprintf(
				"%d of %d agents offline (%.0f%% > %d%%)",
				agg.Totals.Offline, agg.Totals.Entities, offline, th.OfflineCritPct)})
		}
		if th.OfflineWarnPct != check.ThresholdUnset && offline > float64(th.OfflineWarnPct) {
			triggers = append(triggers, trigger{check.Warning, fmt.Sprintf(
				"%d of %d agents offline (%.0f%% > %d%%)",
				agg.Totals.Offline, agg.Totals.Entities, offline, th.OfflineWarnPct)})
		}
	}

	if util, ok := agg.Totals.UtilizationPct(); ok {
		if th.ExecutorCritPct != check.ThresholdUnset && util >= float64(th.ExecutorCritPct) {
			triggers = append(triggers, trigger{check.Critical, fmt.Sprintf(
				"%d of %d executors busy (%.0f%% >= %d%%)",
				agg.Totals.RunningExecutors, agg.Totals.Executors, util, th.ExecutorCritPct)})
		}
		if th.ExecutorWarnPct != check.ThresholdUnset && util >= float64(th.ExecutorWarnPct) {
			triggers = append(triggers, trigger{check.Warning, fmt.Sprintf(
				"%d of %d executors busy (%.0f%% >= %d%%)",
				agg.Totals.RunningExecutors, agg.Totals.Executors, util, th.ExecutorWarnPct)})
		}
	}

	for _, want := range []check.Severity{check.Critical, check.Warning} {
		for _, tr := range triggers {
			if tr.severity == want {
				return check.Result{Severity: tr.severity, Message: tr.message}
			}
		}
	}

	online := agg.Totals.Entities - agg.Totals.Offline
	return check.Result{
		Severity: check.OK,
		Message:  fmt.Sprintf("%d of %d agents online", online, agg.Totals.Entities),
	}
}
