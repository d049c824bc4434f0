package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/HerbHall/cicheck/internal/check"
)

func TestWriteTextfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cicheck_agent.prom")
	res := check.Result{
		Severity: check.Warning,
		Perfdata: []check.Perfdatum{
			check.Counter("agents", 10),
			{Label: "offline_pct", Value: 30, UOM: "%", Warn: 20, Crit: 40, Max: 100},
		},
	}

	if err := WriteTextfile(path, "agent", res); err != nil {
		t.Fatalf("WriteTextfile() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read textfile: %v", err)
	}
	content := string(data)

	for _, want := range []string{
		"cicheck_agent_status 1",
		"cicheck_agent_agents 10",
		"cicheck_agent_offline_pct 30",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("textfile missing %q:\n%s", want, content)
		}
	}
}

func TestWriteTextfileDuplicateLabels(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.prom")
	res := check.Result{
		Severity: check.OK,
		Perfdata: []check.Perfdatum{check.Counter("queue", 1), check.Counter("queue", 2)},
	}

	if err := WriteTextfile(path, "queue", res); err != nil {
		t.Fatalf("WriteTextfile() with duplicate labels error = %v", err)
	}
}

func TestSanitize(t *testing.T) {
	if got := sanitize("busy-executors.pct"); got != "busy_executors_pct" {
		t.Errorf("sanitize() = %q", got)
	}
}
