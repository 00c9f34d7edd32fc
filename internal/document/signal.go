package document

import "sync"

// Signal carries the latest parsed content from an editor to its
// observers. Values are opaque to this package.
//
// Every value is stamped with a revision. A value is delivered only if
// its revision is newer than the last delivered one, so observers always
// converge on the newest content and never see an older value after a
// newer one.
type Signal struct {
	mu        sync.Mutex
	reserved  uint64
	delivered uint64
	value     any
	set       bool
	nextID    int
	subs      map[int]func(any)
}

// NewSignal creates an empty signal
func NewSignal() *Signal {
	return &Signal{subs: make(map[int]func(any))}
}

// Next reserves a revision for a value that will be produced later,
// e.g. by an asynchronous parse.
func (s *Signal) Next() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reserved++
	return s.reserved
}

// Publish reserves the next revision and delivers v immediately.
func (s *Signal) Publish(v any) uint64 {
	rev := s.Next()
	s.PublishAt(rev, v)
	return rev
}

// PublishAt delivers v if rev is newer than the last delivered revision.
// It reports whether v was accepted.
//
// Subscribers run while the signal is locked and must not publish to the
// same signal.
func (s *Signal) PublishAt(rev uint64, v any) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rev <= s.delivered {
		return false
	}
	if rev > s.reserved {
		s.reserved = rev
	}
	s.delivered = rev
	s.value = v
	s.set = true

	for _, fn := range s.subs {
		fn(v)
	}
	return true
}

// Value returns the last delivered value.
func (s *Signal) Value() (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value, s.set
}

// Revision returns the revision of the last delivered value.
func (s *Signal) Revision() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.delivered
}

// Subscribe registers fn and, if a value has already been delivered,
// calls fn with it right away. The returned func removes the
// subscription.
func (s *Signal) Subscribe(fn func(any)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.subs[id] = fn

	if s.set {
		fn(s.value)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}
