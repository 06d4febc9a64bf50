package framevk

import "sync"

// EventSink receives events bridged from native window callbacks.
type EventSink interface {
	Push(e Event)
	PushDrop(paths []string) bool
}

// Registry tracks the single live Instance of a process. Window backends
// route native callbacks through it so that only the registered window
// reaches the event queue.
type Registry struct {
	mu     sync.Mutex
	window Window
	sink   EventSink
}

// DefaultRegistry is the process-wide registry used unless a Builder is
// given another one.
var DefaultRegistry = &Registry{}

// Active reports whether an Instance is registered.
func (r *Registry) Active() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.window != nil
}

func (r *Registry) register(w Window, sink EventSink) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.window != nil {
		return false
	}
	r.window, r.sink = w, sink
	return true
}

func (r *Registry) clear(w Window) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.window == w {
		r.window, r.sink = nil, nil
	}
}

// routedSink forwards to the registered sink only while window is the
// registered window. Native callbacks may fire before registration, during
// creation; those events are dropped.
type routedSink struct {
	r      *Registry
	window Window
}

func (s *routedSink) lookup() EventSink {
	s.r.mu.Lock()
	defer s.r.mu.Unlock()
	if s.window == nil || s.r.window != s.window {
		return nil
	}
	return s.r.sink
}

func (s *routedSink) Push(e Event) {
	if sink := s.lookup(); sink != nil {
		sink.Push(e)
	}
}

func (s *routedSink) PushDrop(paths []string) bool {
	if sink := s.lookup(); sink != nil {
		return sink.PushDrop(paths)
	}
	return false
}
