package statestore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
)

const filePrefix = "cicheck_state_"

// Compile-time interface guard.
var _ Store = (*FileStore)(nil)

// FileStore persists state as a plain text file, one name=status pair per
// line. The format is human-debuggable and stable across versions; lines
// starting with '#' and blank lines are ignored.
type FileStore struct {
	dir    string
	logger *zap.Logger
}

// NewFileStore creates a store writing under dir. An empty dir means the
// system temporary directory.
func NewFileStore(dir string, logger *zap.Logger) *FileStore {
	if dir == "" {
		dir = os.TempDir()
	}
	return &FileStore{dir: dir, logger: logger}
}

func (s *FileStore) path(instanceKey string) string {
	return filepath.Join(s.dir, filePrefix+instanceKey)
}

// Load reads the persisted mapping for instanceKey. Missing files and
// malformed lines are skipped silently; the first run has no history.
func (s *FileStore) Load(_ context.Context, instanceKey string) map[string]SimpleStatus {
	state := make(map[string]SimpleStatus)

	data, err := os.ReadFile(s.path(instanceKey))
	if err != nil {
		s.logger.Debug("no prior state", zap.String("path", s.path(instanceKey)), zap.Error(err))
		return state
	}

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		name, status, ok := strings.Cut(line, "=")
		if !ok || name == "" || !SimpleStatus(status).valid() {
			s.logger.Debug("skipping malformed state line", zap.String("line", line))
			continue
		}
		state[name] = SimpleStatus(status)
	}
	return state
}

// Save rewrites the full mapping for instanceKey. Entries absent from state
// are dropped; there is no merge with stale content.
func (s *FileStore) Save(_ context.Context, instanceKey string, state map[string]SimpleStatus) error {
	names := make([]string, 0, len(state))
	for name := range state {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		fmt.Fprintf(&b, "%s=%s\n", name, state[name])
	}

	path := s.path(instanceKey)
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		s.logger.Debug("failed to write state", zap.String("path", path), zap.Error(err))
		return fmt.Errorf("write state %q: %w", path, err)
	}
	return nil
}
