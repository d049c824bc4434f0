package check

import (
	"fmt"
	"strconv"
	"strings"
)

// ThresholdUnset disables a threshold rule and suppresses the corresponding
// perfdata range field.
const ThresholdUnset = -1

// Perfdatum is one performance-data token rendered as
// label=value[uom];warn;crit;;max. Warn and Crit use ThresholdUnset when the
// rule is disabled; Max < 0 omits the field.
type Perfdatum struct {
	Label string
	Value float64
	UOM   string
	Warn  int
	Crit  int
	Max   float64
}

func (p Perfdatum) render() string {
	var b strings.Builder
	b.WriteString(p.Label)
	b.WriteByte('=')
	b.WriteString(strconv.FormatFloat(p.Value, 'f', -1, 64))
	b.WriteString(p.UOM)
	b.WriteByte(';')
	if p.Warn != ThresholdUnset {
		b.WriteString(strconv.Itoa(p.Warn))
	}
	b.WriteByte(';')
	if p.Crit != ThresholdUnset {
		b.WriteString(strconv.Itoa(p.Crit))
	}
	b.WriteByte(';')
	b.WriteByte(';')
	if p.Max >= 0 {
		b.WriteString(strconv.FormatFloat(p.Max, 'f', -1, 64))
	}
	return b.String()
}

// Result is the complete verdict of one probe invocation.
type Result struct {
	Severity Severity
	Message  string
	Perfdata []Perfdatum
	// Long holds extended detail lines printed after the summary line.
	Long []string
}

// Unknownf builds an Unknown result from an error path.
func Unknownf(format string, args ...any) Result {
	return Result{Severity: Unknown, Message: fmt.Sprintf(format, args...)}
}

// Counter is a convenience constructor for a plain count token with no
// threshold range.
func Counter(label string, value int) Perfdatum {
	return Perfdatum{Label: label, Value: float64(value), Warn: ThresholdUnset, Crit: ThresholdUnset, Max: -1}
}
