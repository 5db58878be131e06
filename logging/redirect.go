package logging

import (
	"io"
	"os"
	"sync"
)

// stderrSink is the stderr destination shared by every logger. It can be
// pointed elsewhere while a full-screen panel owns the terminal.
type stderrSink struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *stderrSink) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

func (s *stderrSink) swap(w io.Writer) io.Writer {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.w
	s.w = w
	return prev
}

var stderrWriter = &stderrSink{w: os.Stderr}

// RedirectStderr sends the stderr output of all loggers to w until the
// returned restore function is called. Nil discards it.
func RedirectStderr(w io.Writer) (restore func()) {
	if w == nil {
		w = io.Discard
	}
	prev := stderrWriter.swap(w)
	return func() {
		stderrWriter.swap(prev)
	}
}
