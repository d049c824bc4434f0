package agentcheck

import (
	"fmt"
	"sort"

	"github.com/HerbHall/cicheck/internal/check"
	"github.com/HerbHall/cicheck/internal/statestore"
)

// TransitionKind classifies how one agent changed between polls.
type TransitionKind int

const (
	Unchanged TransitionKind = iota
	TurnedOffline
	TurnedOnline
	Appeared
	Removed
)

// Transition is one agent's classification against the previous poll.
type Transition struct {
	Name string
	Kind TransitionKind
}

// Severity returns the alarm contribution of this transition. An agent going
// offline is critical; agents coming back, appearing, or vanishing warrant a
// look but not a page.
func (t Transition) Severity() check.Severity {
	switch t.Kind {
	case TurnedOffline:
		return check.Critical
	case TurnedOnline, Appeared, Removed:
		return check.Warning
	default:
		return check.OK
	}
}

// Message renders the human-readable event description.
func (t Transition) Message() string {
	switch t.Kind {
	case TurnedOffline:
		return fmt.Sprintf("agent %s went offline", t.Name)
	case TurnedOnline:
		return fmt.Sprintf("agent %s came back online", t.Name)
	case Appeared:
		return fmt.Sprintf("agent %s appeared", t.Name)
	case Removed:
		return fmt.Sprintf("agent %s was removed", t.Name)
	default:
		return ""
	}
}

// TransitionOutcome is the merged verdict of all per-agent transitions.
type TransitionOutcome struct {
	Severity check.Severity
	// Message describes the representative triggering agent: the last one,
	// in sorted-name order, holding the maximum severity.
	Message string
	// Events holds every non-unchanged transition in sorted-name order,
	// changed agents first, then appeared, then removed.
	Events []Transition
}

// DetectTransitions diffs the previous persisted mapping against the current
// one. Callers skip it entirely on the first run (empty previous mapping);
// a poll with no history must not raise transition alarms.
func DetectTransitions(prev, cur map[string]statestore.SimpleStatus) TransitionOutcome {
	var out TransitionOutcome

	for _, name := range sortedKeys(cur) {
		prevStatus, known := prev[name]
		switch {
		case !known:
			out.add(Transition{Name: name, Kind: Appeared})
		case prevStatus == cur[name]:
			// Unchanged agents contribute nothing.
		case cur[name] == statestore.StatusOffline:
			out.add(Transition{Name: name, Kind: TurnedOffline})
		default:
			out.add(Transition{Name: name, Kind: TurnedOnline})
		}
	}

	for _, name := range sortedKeys(prev) {
		if _, still := cur[name]; !still {
			out.add(Transition{Name: name, Kind: Removed})
		}
	}
	return out
}

func (o *TransitionOutcome) add(t Transition) {
	o.Events = append(o.Events, t)
	if sev := t.Severity(); sev >= o.Severity {
		o.Severity = sev
		o.Message = t.Message()
	}
}

func sortedKeys(m map[string]statestore.SimpleStatus) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
