// Package metrics exports probe results in the Prometheus textfile-collector
// format, so a node_exporter can pick up the same numbers the scheduler sees.
package metrics

import (
	"fmt"
	"strings"

	"github.com/HerbHall/cicheck/internal/check"
	"github.com/prometheus/client_golang/prometheus"
)

// WriteTextfile writes the result's perfdata and severity as gauges to path.
// Metric names follow cicheck_<probe>_<label>.
func WriteTextfile(path, probe string, res check.Result) error {
	reg := prometheus.NewRegistry()

	status := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: fmt.Sprintf("cicheck_%s_status", sanitize(probe)),
		Help: "Probe verdict as a monitoring-plugin exit code (0 ok, 1 warning, 2 critical, 3 unknown).",
	})
	status.Set(float64(res.Severity.ExitCode()))
	if err := reg.Register(status); err != nil {
		return fmt.Errorf("register status gauge: %w", err)
	}

	seen := map[string]bool{}
	for _, p := range res.Perfdata {
		name := fmt.Sprintf("cicheck_%s_%s", sanitize(probe), sanitize(p.Label))
		if seen[name] {
			continue
		}
		seen[name] = true

		g := prometheus.NewGauge(prometheus.GaugeOpts{
			Name: name,
			Help: fmt.Sprintf("Perfdata token %q from the %s probe.", p.Label, probe),
		})
		g.Set(p.Value)
		if err := reg.Register(g); err != nil {
			return fmt.Errorf("register gauge %s: %w", name, err)
		}
	}

	if err := prometheus.WriteToTextfile(path, reg); err != nil {
		return fmt.Errorf("write textfile %q: %w", path, err)
	}
	return nil
}

func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		default:
			return '_'
		}
	}, s)
}
