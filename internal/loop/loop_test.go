package loop

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManualFrames(t *testing.T) {
	m := NewManual()
	var calls []string

	id := m.RequestFrame(func(time.Time) { calls = append(calls, "a") })
	m.RequestFrame(func(time.Time) { calls = append(calls, "b") })
	m.CancelFrame(id)

	assert.Equal(t, 1, m.PendingFrames())
	assert.Equal(t, 1, m.Frame())
	assert.Equal(t, []string{"b"}, calls)
	assert.Zero(t, m.Frame())
}

func TestManualFrameRequestedDuringFrameRunsNextFrame(t *testing.T) {
	m := NewManual()
	ticks := 0
	var tick func(time.Time)
	tick = func(time.Time) {
		ticks++
		m.RequestFrame(tick)
	}
	m.RequestFrame(tick)

	m.Frame()
	m.Frame()
	m.Frame()
	assert.Equal(t, 3, ticks)
	assert.Equal(t, 1, m.PendingFrames())
}

func TestManualRunPendingIncludesNestedPosts(t *testing.T) {
	m := NewManual()
	var order []int
	m.Post(func() {
		order = append(order, 1)
		m.Post(func() { order = append(order, 3) })
	})
	m.Post(func() { order = append(order, 2) })

	assert.Equal(t, 3, m.RunPending())
	assert.Equal(t, []int{1, 2, 3}, order)
}

func TestManualAwait(t *testing.T) {
	m := NewManual()
	assert.False(t, m.Await(10*time.Millisecond))

	go m.Post(func() {})
	assert.True(t, m.Await(5*time.Second))
}

func TestLoopRunsTasksAndFrames(t *testing.T) {
	l := New(120)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() { errCh <- l.Run(ctx) }()

	var frames atomic.Int32
	frameDone := make(chan struct{})
	l.Post(func() {
		l.RequestFrame(func(time.Time) {
			frames.Add(1)
			close(frameDone)
		})
	})

	select {
	case <-frameDone:
	case <-time.After(5 * time.Second):
		t.Fatal("frame callback did not run")
	}

	ran := false
	require.NoError(t, l.Do(ctx, func() { ran = true }))
	assert.True(t, ran)
	assert.Equal(t, int32(1), frames.Load())

	l.Close()
	require.NoError(t, <-errCh)
	assert.ErrorIs(t, l.Do(context.Background(), func() {}), ErrClosed)
}
