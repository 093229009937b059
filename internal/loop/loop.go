// Package loop serializes viewer work onto a single goroutine. Tasks posted
// from any goroutine and per-frame callbacks both run there, so the scene
// never needs locking.
package loop

import (
	"context"
	"errors"
	"sync"
	"time"
)

// FrameID identifies a requested frame callback.
type FrameID uint64

// Scheduler is the viewer thread as seen by the engine.
type Scheduler interface {
	// Post queues fn to run on the viewer thread. Safe from any goroutine.
	Post(fn func())
	// RequestFrame runs fn once at the next display refresh.
	RequestFrame(fn func(now time.Time)) FrameID
	// CancelFrame drops a requested callback that has not run yet.
	CancelFrame(id FrameID)
}

// ErrClosed is returned by Do once the loop has stopped.
var ErrClosed = errors.New("loop: closed")

// Loop is a ticker-driven Scheduler.
type Loop struct {
	interval time.Duration

	mu     sync.Mutex
	tasks  []func()
	frames map[FrameID]func(time.Time)
	nextID FrameID

	wake      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// New creates a loop refreshing fps times per second. Call Run to drive it.
func New(fps int) *Loop {
	if fps <= 0 {
		fps = 60
	}
	return &Loop{
		interval: time.Second / time.Duration(fps),
		frames:   make(map[FrameID]func(time.Time)),
		wake:     make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
}

func (l *Loop) Post(fn func()) {
	l.mu.Lock()
	l.tasks = append(l.tasks, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

func (l *Loop) RequestFrame(fn func(time.Time)) FrameID {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.nextID++
	l.frames[l.nextID] = fn
	return l.nextID
}

func (l *Loop) CancelFrame(id FrameID) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.frames, id)
}

// Do runs fn on the loop and waits for it to finish.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	l.Post(func() {
		defer close(finished)
		fn()
	})

	select {
	case <-finished:
		return nil
	case <-l.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run drives tasks and frames until ctx is canceled or Close is called.
// The calling goroutine becomes the viewer thread.
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			l.Close()
			return ctx.Err()
		case <-l.done:
			return nil
		case <-l.wake:
			l.runTasks()
		case now := <-ticker.C:
			l.runTasks()
			l.runFrames(now)
		}
	}
}

// Close stops Run. Pending work is dropped.
func (l *Loop) Close() {
	l.closeOnce.Do(func() { close(l.done) })
}

func (l *Loop) runTasks() {
	for {
		l.mu.Lock()
		tasks := l.tasks
		l.tasks = nil
		l.mu.Unlock()

		if len(tasks) == 0 {
			return
		}
		for _, fn := range tasks {
			fn()
		}
	}
}

func (l *Loop) runFrames(now time.Time) {
	l.mu.Lock()
	if len(l.frames) == 0 {
		l.mu.Unlock()
		return
	}
	frames := l.frames
	l.frames = make(map[FrameID]func(time.Time))
	l.mu.Unlock()

	for _, id := range sortedIDs(frames) {
		frames[id](now)
	}
}
