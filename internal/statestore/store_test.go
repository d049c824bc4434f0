package statestore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestInstanceKey(t *testing.T) {
	tests := []struct {
		target string
		want   string
	}{
		{"http://ci.example.com:8080", "ci.example.com_8080"},
		{"https://ci.example.com/jenkins/", "ci.example.com_jenkins"},
		{"ci.example.com", "ci.example.com"},
		{"http://10.0.0.5:8080/path?x=1", "10.0.0.5_8080_path_x_1"},
	}
	for _, tt := range tests {
		if got := InstanceKey(tt.target); got != tt.want {
			t.Errorf("InstanceKey(%q) = %q, want %q", tt.target, got, tt.want)
		}
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	store := NewFileStore(t.TempDir(), zap.NewNop())
	ctx := context.Background()

	state := map[string]SimpleStatus{"node-1": StatusOffline, "node-2": StatusOnline}
	require.NoError(t, store.Save(ctx, "ci.example.com_8080", state))

	got := store.Load(ctx, "ci.example.com_8080")
	require.Equal(t, state, got)
}

func TestFileStoreLoadMissing(t *testing.T) {
	store := NewFileStore(t.TempDir(), zap.NewNop())

	got := store.Load(context.Background(), "nonexistent")
	if got == nil {
		t.Fatal("Load() returned nil, want empty map")
	}
	if len(got) != 0 {
		t.Errorf("Load() = %v, want empty map", got)
	}
}

func TestFileStoreLoadSkipsGarbage(t *testing.T) {
	dir := t.TempDir()
	content := "# state for ci.example.com\n\nnode-1=online\ngarbage line\nnode-2=sideways\n=offline\nnode-3=offline\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, filePrefix+"k"), []byte(content), 0o644))

	store := NewFileStore(dir, zap.NewNop())
	got := store.Load(context.Background(), "k")

	want := map[string]SimpleStatus{"node-1": StatusOnline, "node-3": StatusOffline}
	require.Equal(t, want, got)
}

func TestFileStoreSaveOverwrites(t *testing.T) {
	store := NewFileStore(t.TempDir(), zap.NewNop())
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "k", map[string]SimpleStatus{"old-node": StatusOnline}))
	require.NoError(t, store.Save(ctx, "k", map[string]SimpleStatus{"new-node": StatusOffline}))

	got := store.Load(ctx, "k")
	if _, ok := got["old-node"]; ok {
		t.Error("Save() merged with stale entries, want full overwrite")
	}
	require.Equal(t, map[string]SimpleStatus{"new-node": StatusOffline}, got)
}

func TestFileStoreSaveFailureIsSoft(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "missing-subdir"), zap.NewNop())
	err := store.Save(context.Background(), "k", map[string]SimpleStatus{"a": StatusOnline})
	if err == nil {
		t.Error("Save() into missing directory succeeded, want error for caller tracing")
	}
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "state.db"), zap.NewNop())
	require.NoError(t, err)
	defer store.Close()
	ctx := context.Background()

	state := map[string]SimpleStatus{"node-1": StatusOffline}
	require.NoError(t, store.Save(ctx, "ci_8080", state))
	require.Equal(t, state, store.Load(ctx, "ci_8080"))

	// Unknown instance loads empty.
	require.Empty(t, store.Load(ctx, "other_instance"))
}

func TestSQLiteStoreOverwrites(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "state.db"), zap.NewNop())
	require.NoError(t, err)
	defer store.Close()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "k", map[string]SimpleStatus{"a": StatusOnline, "b": StatusOnline}))
	require.NoError(t, store.Save(ctx, "k", map[string]SimpleStatus{"b": StatusOffline}))

	require.Equal(t, map[string]SimpleStatus{"b": StatusOffline}, store.Load(ctx, "k"))
}

func TestSQLiteStoreInstanceIsolation(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "state.db"), zap.NewNop())
	require.NoError(t, err)
	defer store.Close()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "ci-a", map[string]SimpleStatus{"n": StatusOnline}))
	require.NoError(t, store.Save(ctx, "ci-b", map[string]SimpleStatus{"n": StatusOffline}))

	require.Equal(t, map[string]SimpleStatus{"n": StatusOnline}, store.Load(ctx, "ci-a"))
	require.Equal(t, map[string]SimpleStatus{"n": StatusOffline}, store.Load(ctx, "ci-b"))
}
