package main

import (
	"errors"
	"time"

	"github.com/aegiscad/viewer/internal/config"
	"github.com/aegiscad/viewer/internal/loop"
	"github.com/aegiscad/viewer/internal/source"
	"github.com/aegiscad/viewer/internal/viewer"
)

// loadTimeout bounds a single headless load including OpenSCAD rendering.
const loadTimeout = 2 * time.Minute

// maxSettleFrames bounds how long the camera may animate before a capture.
const maxSettleFrames = 600

// session is a viewer host running offscreen on a manually driven loop.
type session struct {
	sched     *loop.Manual
	container *viewer.Headless
	host      *viewer.Host
	backend   source.Backend
}

func newSession(cfg config.Config, backend source.Backend, download func(location, filename string)) (*session, error) {
	s := &session{
		sched:     loop.NewManual(),
		container: viewer.NewHeadless(cfg.Render.Width, cfg.Render.Height),
		backend:   backend,
	}
	host, err := viewer.Initialize(s.container, viewer.Options{
		Config:    cfg,
		Scheduler: s.sched,
		Source:    backend,
		Resolver:  backend,
		Download:  download,
	})
	if err != nil {
		return nil, err
	}
	s.host = host
	return s, nil
}

// load requests identifier and waits for it to be applied. A failed fetch
// or parse still leaves the fallback cube on screen; that case is reported
// as an error so callers can decide whether to continue.
func (s *session) load(identifier string) error {
	if err := s.host.LoadModel(identifier); err != nil {
		return err
	}
	return s.wait()
}

func (s *session) reload() error {
	if err := s.host.Reload(); err != nil {
		return err
	}
	return s.wait()
}

func (s *session) wait() error {
	deadline := time.Now().Add(loadTimeout)
	for s.host.Status() == viewer.StatusLoading {
		if time.Now().After(deadline) {
			return errors.New("timed out waiting for the model")
		}
		s.sched.Await(time.Second)
		s.sched.RunPending()
	}
	if s.host.Status() == viewer.StatusFallback {
		return errors.New("model could not be loaded")
	}
	return nil
}

// frame renders until the camera controls come to rest.
func (s *session) frame() {
	for i := 0; i < maxSettleFrames; i++ {
		s.sched.RunPending()
		s.sched.Frame()
		if s.host.Controls().Settled() {
			return
		}
	}
}

func (s *session) close() {
	s.host.Teardown()
}
