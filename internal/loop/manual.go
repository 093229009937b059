package loop

import (
	"slices"
	"sync"
	"time"
)

// Manual is a Scheduler stepped explicitly, for tests and headless rendering.
type Manual struct {
	mu     sync.Mutex
	tasks  []func()
	frames map[FrameID]func(time.Time)
	nextID FrameID
	now    time.Time
	notify chan struct{}
}

// NewManual returns an idle manual scheduler.
func NewManual() *Manual {
	return &Manual{
		frames: make(map[FrameID]func(time.Time)),
		now:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		notify: make(chan struct{}, 1),
	}
}

func (m *Manual) Post(fn func()) {
	m.mu.Lock()
	m.tasks = append(m.tasks, fn)
	m.mu.Unlock()

	select {
	case m.notify <- struct{}{}:
	default:
	}
}

func (m *Manual) RequestFrame(fn func(time.Time)) FrameID {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	m.frames[m.nextID] = fn
	return m.nextID
}

func (m *Manual) CancelFrame(id FrameID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.frames, id)
}

// RunPending runs queued tasks, including ones they post, and returns how
// many ran.
func (m *Manual) RunPending() int {
	n := 0
	for {
		m.mu.Lock()
		tasks := m.tasks
		m.tasks = nil
		m.mu.Unlock()

		if len(tasks) == 0 {
			return n
		}
		for _, fn := range tasks {
			fn()
			n++
		}
	}
}

// Await blocks until a task is queued or timeout elapses.
func (m *Manual) Await(timeout time.Duration) bool {
	m.mu.Lock()
	queued := len(m.tasks) > 0
	m.mu.Unlock()
	if queued {
		return true
	}

	select {
	case <-m.notify:
		return true
	case <-time.After(timeout):
		return false
	}
}

// Frame advances one display refresh and returns how many callbacks ran.
func (m *Manual) Frame() int {
	m.mu.Lock()
	m.now = m.now.Add(time.Second / 60)
	now := m.now
	frames := m.frames
	m.frames = make(map[FrameID]func(time.Time))
	m.mu.Unlock()

	for _, id := range sortedIDs(frames) {
		frames[id](now)
	}
	return len(frames)
}

// PendingFrames returns the number of requested, not yet run, callbacks.
func (m *Manual) PendingFrames() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.frames)
}

func sortedIDs(frames map[FrameID]func(time.Time)) []FrameID {
	ids := make([]FrameID, 0, len(frames))
	for id := range frames {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
