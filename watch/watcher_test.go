package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/gladegen/errors"
)

func startWatcher(t *testing.T, path string, callback Callback) {
	t.Helper()
	w, err := New(path, 20*time.Millisecond, callback)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})
}

func TestWatcherRunsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main_window.glade")
	require.NoError(t, os.WriteFile(path, []byte("<glade-interface/>"), 0644))

	runs := make(chan struct{}, 10)
	startWatcher(t, path, func(ctx context.Context) error {
		runs <- struct{}{}
		return nil
	})

	require.NoError(t, os.WriteFile(path, []byte("<glade-interface></glade-interface>"), 0644))

	select {
	case <-runs:
	case <-time.After(5 * time.Second):
		t.Fatal("callback not run after document change")
	}
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main_window.glade")
	require.NoError(t, os.WriteFile(path, []byte("<glade-interface/>"), 0644))

	var runs atomic.Int32
	startWatcher(t, path, func(ctx context.Context) error {
		runs.Add(1)
		return nil
	})

	require.NoError(t, os.WriteFile(filepath.Join(dir, "main_window.py"), []byte("# generated\n"), 0755))
	time.Sleep(200 * time.Millisecond)
	assert.Zero(t, runs.Load())
}

func TestWatcherDebouncesBursts(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main_window.glade")
	require.NoError(t, os.WriteFile(path, []byte("<glade-interface/>"), 0644))

	w, err := New(path, 300*time.Millisecond, nil)
	require.NoError(t, err)
	var runs atomic.Int32
	w.callback = func(ctx context.Context) error {
		runs.Add(1)
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	for i := 0; i < 5; i++ {
		w.schedule(ctx)
	}

	assert.Eventually(t, func() bool { return runs.Load() == 1 }, 3*time.Second, 20*time.Millisecond)
	time.Sleep(400 * time.Millisecond)
	assert.Equal(t, int32(1), runs.Load())
	require.NoError(t, w.watcher.Close())
}

func TestWatcherKeepsRunningAfterFailure(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main_window.glade")
	require.NoError(t, os.WriteFile(path, []byte("<glade-interface/>"), 0644))

	calls := make(chan struct{}, 10)
	startWatcher(t, path, func(ctx context.Context) error {
		calls <- struct{}{}
		return errors.MarkMalformedDocument(errors.New("line 1: widget without id"))
	})

	for i := 0; i < 2; i++ {
		require.NoError(t, os.WriteFile(path, []byte("<glade-interface><widget/></glade-interface>"), 0644))
		select {
		case <-calls:
		case <-time.After(5 * time.Second):
			t.Fatalf("callback %d not run", i+1)
		}
	}
}

func TestWatcherStopsOnCancel(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main_window.glade")
	require.NoError(t, os.WriteFile(path, []byte("<glade-interface/>"), 0644))

	w, err := New(path, 20*time.Millisecond, func(ctx context.Context) error { return nil })
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestNewMissingDirectory(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing", "main_window.glade"), time.Millisecond, nil)
	require.Error(t, err)
	assert.True(t, errors.IsIO(err))
}
