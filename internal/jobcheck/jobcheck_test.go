package jobcheck

import (
	"testing"

	"github.com/HerbHall/cicheck/internal/check"
	"github.com/HerbHall/cicheck/internal/jenkins"
)

func unset() Config {
	return Config{Warn: check.ThresholdUnset, Crit: check.ThresholdUnset}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		color string
		want  outcome
	}{
		{"blue", healthy},
		{"green", healthy},
		{"blue_anime", healthy},
		{"red", failing},
		{"red_anime", failing},
		{"yellow", unstable},
		{"yellow_anime", unstable},
		{"disabled", skipped},
		{"notbuilt", skipped},
		{"aborted", skipped},
		{"grey", skipped},
	}
	for _, tt := range tests {
		if got := classify(tt.color); got != tt.want {
			t.Errorf("classify(%q) = %v, want %v", tt.color, got, tt.want)
		}
	}
}

func TestEvaluateFleet(t *testing.T) {
	jobs := []jenkins.Job{
		{Name: "good", Color: "blue"},
		{Name: "bad", Color: "red"},
		{Name: "shaky", Color: "yellow"},
		{Name: "off", Color: "disabled"},
	}

	res := Evaluate(jobs, unset())

	if res.Severity != check.Warning {
		t.Errorf("severity = %v, want Warning (one failing job, no thresholds)", res.Severity)
	}
	if res.Message != "1 of 3 jobs failing" {
		t.Errorf("message = %q", res.Message)
	}
	if len(res.Long) != 2 {
		t.Errorf("long = %v, want failing and unstable lines", res.Long)
	}
}

func TestEvaluateFleetThresholds(t *testing.T) {
	jobs := []jenkins.Job{
		{Name: "a", Color: "red"},
		{Name: "b", Color: "red"},
		{Name: "c", Color: "blue"},
	}

	tests := []struct {
		name string
		cfg  Config
		want check.Severity
	}{
		{"crit wins over warn", Config{Warn: 0, Crit: 1}, check.Critical},
		{"warn only", Config{Warn: 1, Crit: 10}, check.Warning},
		{"thresholds tolerate failures", Config{Warn: 2, Crit: 2}, check.OK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Evaluate(jobs, tt.cfg)
			if res.Severity != tt.want {
				t.Errorf("severity = %v, want %v", res.Severity, tt.want)
			}
		})
	}
}

func TestEvaluateFleetAllHealthy(t *testing.T) {
	res := Evaluate([]jenkins.Job{{Name: "a", Color: "blue"}}, unset())
	if res.Severity != check.OK || res.Message != "1 jobs healthy" {
		t.Errorf("result = %v %q", res.Severity, res.Message)
	}
}

func TestEvaluateUnstableOnlyWarns(t *testing.T) {
	res := Evaluate([]jenkins.Job{{Name: "a", Color: "yellow"}}, unset())
	if res.Severity != check.Warning {
		t.Errorf("severity = %v, want Warning", res.Severity)
	}
}

func TestEvaluateSingleJob(t *testing.T) {
	jobs := []jenkins.Job{
		{Name: "deploy", Color: "red"},
		{Name: "build", Color: "yellow"},
		{Name: "docs", Color: "blue"},
		{Name: "legacy", Color: "disabled"},
	}

	tests := []struct {
		job  string
		want check.Severity
	}{
		{"deploy", check.Critical},
		{"build", check.Warning},
		{"docs", check.OK},
		{"legacy", check.OK},
		{"ghost", check.Unknown},
	}
	for _, tt := range tests {
		cfg := unset()
		cfg.Job = tt.job
		res := Evaluate(jobs, cfg)
		if res.Severity != tt.want {
			t.Errorf("Evaluate(job=%q) severity = %v, want %v", tt.job, res.Severity, tt.want)
		}
	}
}
