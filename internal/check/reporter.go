package check

import (
	"fmt"
	"io"
	"strings"
)

// Reporter renders results in the monitoring-plugin text format:
// summary line, optional |perfdata suffix, optional long-output lines.
type Reporter struct {
	out io.Writer
	// SuppressPerfdata drops the |... suffix entirely.
	SuppressPerfdata bool
}

// NewReporter creates a reporter writing to out.
func NewReporter(out io.Writer) *Reporter {
	return &Reporter{out: out}
}

// Report writes the result and returns the process exit code the caller
// should terminate with.
func (r *Reporter) Report(res Result) int {
	fmt.Fprintf(r.out, "%s: %s", res.Severity, res.Message)
	if !r.SuppressPerfdata && len(res.Perfdata) > 0 {
		tokens := make([]string, len(res.Perfdata))
		for i, p := range res.Perfdata {
			tokens[i] = p.render()
		}
		fmt.Fprintf(r.out, " | %s", strings.Join(tokens, " "))
	}
	fmt.Fprintln(r.out)
	for _, line := range res.Long {
		fmt.Fprintln(r.out, line)
	}
	return res.Severity.ExitCode()
}
