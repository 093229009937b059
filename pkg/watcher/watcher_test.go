package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchDebouncesWrites(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "part.stl")
	other := filepath.Join(dir, "other.stl")
	require.NoError(t, os.WriteFile(file, []byte("a"), 0o644))

	fw, err := NewFileWatcher(100 * time.Millisecond)
	require.NoError(t, err)
	t.Cleanup(func() { _ = fw.Close() })

	var calls atomic.Int32
	var last atomic.Value
	require.NoError(t, fw.Watch([]string{file}, func(path string) {
		calls.Add(1)
		last.Store(path)
	}))

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go func() { _ = fw.Run(ctx) }()

	for i := range 5 {
		require.NoError(t, os.WriteFile(file, []byte{byte('a' + i)}, 0o644))
	}
	require.NoError(t, os.WriteFile(other, []byte("x"), 0o644))

	require.Eventually(t, func() bool { return calls.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(300 * time.Millisecond)

	assert.Equal(t, int32(1), calls.Load())
	abs, err := filepath.Abs(file)
	require.NoError(t, err)
	assert.Equal(t, abs, last.Load())
}

func TestRunStopsOnCancel(t *testing.T) {
	fw, err := NewFileWatcher(DefaultDebounce)
	require.NoError(t, err)
	t.Cleanup(func() { _ = fw.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- fw.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRemoveAll(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "part.stl")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	fw, err := NewFileWatcher(DefaultDebounce)
	require.NoError(t, err)
	t.Cleanup(func() { _ = fw.Close() })

	require.NoError(t, fw.Watch([]string{file}, func(string) {}))
	require.NoError(t, fw.RemoveAll())
	assert.Empty(t, fw.callbacks)
}
