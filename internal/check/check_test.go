package check

import (
	"strings"
	"testing"
)

func TestSeverityOrder(t *testing.T) {
	if !(OK < Warning && Warning < Critical && Critical < Unknown) {
		t.Fatal("severity constants are not totally ordered")
	}
}

func TestSeverityString(t *testing.T) {
	tests := []struct {
		sev  Severity
		want string
	}{
		{OK, "OK"},
		{Warning, "WARNING"},
		{Critical, "CRITICAL"},
		{Unknown, "UNKNOWN"},
		{Severity(99), "UNKNOWN"},
	}
	for _, tt := range tests {
		if got := tt.sev.String(); got != tt.want {
			t.Errorf("Severity(%d).String() = %q, want %q", tt.sev, got, tt.want)
		}
	}
}

func TestSeverityExitCode(t *testing.T) {
	tests := []struct {
		sev  Severity
		want int
	}{
		{OK, 0},
		{Warning, 1},
		{Critical, 2},
		{Unknown, 3},
	}
	for _, tt := range tests {
		if got := tt.sev.ExitCode(); got != tt.want {
			t.Errorf("%s.ExitCode() = %d, want %d", tt.sev, got, tt.want)
		}
	}
}

func TestMax(t *testing.T) {
	if got := Max(OK, Critical); got != Critical {
		t.Errorf("Max(OK, Critical) = %v, want Critical", got)
	}
	if got := Max(Critical, Warning); got != Critical {
		t.Errorf("Max(Critical, Warning) = %v, want Critical", got)
	}
	if got := Max(Warning, Warning); got != Warning {
		t.Errorf("Max(Warning, Warning) = %v, want Warning", got)
	}
}

func TestPerfdatumRender(t *testing.T) {
	tests := []struct {
		name string
		p    Perfdatum
		want string
	}{
		{
			"full range",
			Perfdatum{Label: "busy_pct", Value: 75, UOM: "%", Warn: 80, Crit: 90, Max: 100},
			"busy_pct=75%;80;90;;100",
		},
		{
			"unset thresholds",
			Counter("agents", 12),
			"agents=12;;;;",
		},
		{
			"fractional value",
			Perfdatum{Label: "rtt", Value: 12.5, UOM: "ms", Warn: 100, Crit: 500, Max: -1},
			"rtt=12.5ms;100;500;;",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.p.render(); got != tt.want {
				t.Errorf("render() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReporter(t *testing.T) {
	res := Result{
		Severity: Warning,
		Message:  "3 of 10 agents offline (30% > 20%)",
		Perfdata: []Perfdatum{Counter("offline", 3), Counter("agents", 10)},
		Long:     []string{"agent node-1: offline (disk full)"},
	}

	var sb strings.Builder
	code := NewReporter(&sb).Report(res)

	if code != 1 {
		t.Errorf("Report() exit code = %d, want 1", code)
	}
	got := sb.String()
	want := "WARNING: 3 of 10 agents offline (30% > 20%) | offline=3;;;; agents=10;;;;\nagent node-1: offline (disk full)\n"
	if got != want {
		t.Errorf("Report() output = %q, want %q", got, want)
	}
}

func TestReporterSuppressPerfdata(t *testing.T) {
	var sb strings.Builder
	r := NewReporter(&sb)
	r.SuppressPerfdata = true
	r.Report(Result{Severity: OK, Message: "10 of 10 agents online", Perfdata: []Perfdatum{Counter("agents", 10)}})

	if strings.Contains(sb.String(), "|") {
		t.Errorf("Report() output contains perfdata despite suppression: %q", sb.String())
	}
}

func TestUnknownf(t *testing.T) {
	res := Unknownf("fetch %s: %v", "http://ci.local", "timeout")
	if res.Severity != Unknown {
		t.Errorf("Unknownf severity = %v, want Unknown", res.Severity)
	}
	if res.Message != "fetch http://ci.local: timeout" {
		t.Errorf("Unknownf message = %q", res.Message)
	}
}
