// Package check defines the severity taxonomy, result model, and plugin-style
// output rendering shared by all cicheck probes.
package check

// Severity is the outcome class of a probe, ordered so that a larger value
// always outranks a smaller one when verdicts are merged.
type Severity int

const (
	OK Severity = iota
	Warning
	Critical
	// Unknown is reserved for transport, decode, and internal errors.
	// Threshold logic never produces it.
	Unknown
)

func (s Severity) String() string {
	switch s {
	case OK:
		return "OK"
	case Warning:
		return "WARNING"
	case Critical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// ExitCode maps the severity to the conventional monitoring-plugin exit code.
func (s Severity) ExitCode() int {
	switch s {
	case OK:
		return 0
	case Warning:
		return 1
	case Critical:
		return 2
	default:
		return 3
	}
}

// Max returns the more severe of a and b. Unknown outranks everything.
func Max(a, b Severity) Severity {
	if b > a {
		return b
	}
	return a
}
