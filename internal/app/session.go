package app

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/ayusman/bodyscan/internal/skeleton"
	"github.com/ayusman/bodyscan/internal/store"
)

// DefaultMaxFrames bounds a capture session: 20 s at 30 fps.
const DefaultMaxFrames = 600

// ErrSessionFull is returned when a capture session reaches its frame limit.
var ErrSessionFull = errors.New("capture session is full")

// ErrSessionClosed is returned when frames arrive after Finish.
var ErrSessionClosed = errors.New("capture session is finished")

// Session buffers the frames of one streaming rotation capture until the
// client signals the end of the turn.
type Session struct {
	app    *App
	max    int
	frames []skeleton.Frame
	done   bool
	mu     sync.Mutex
}

// NewSession starts a capture session holding at most maxFrames frames.
func (a *App) NewSession(maxFrames int) *Session {
	if maxFrames <= 0 {
		maxFrames = DefaultMaxFrames
	}
	return &Session{app: a, max: maxFrames}
}

// Add buffers a frame and returns the number of frames held.
func (s *Session) Add(f skeleton.Frame) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.done {
		return len(s.frames), ErrSessionClosed
	}
	if len(s.frames) >= s.max {
		return len(s.frames), ErrSessionFull
	}
	if err := checkDepth(f); err != nil {
		return len(s.frames), err
	}
	s.frames = append(s.frames, f)
	return len(s.frames), nil
}

// Len returns the number of buffered frames.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.frames)
}

// Finish estimates the buffered capture. The session accepts no frames
// afterwards.
func (s *Session) Finish(ctx context.Context) (*store.Scan, error) {
	s.mu.Lock()
	if s.done {
		s.mu.Unlock()
		return nil, ErrSessionClosed
	}
	s.done = true
	frames := s.frames
	s.frames = nil
	s.mu.Unlock()

	return s.app.EstimateVolumetric(ctx, VolumetricRequest{Frames: frames})
}
