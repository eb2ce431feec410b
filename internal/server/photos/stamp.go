package photos

import (
	"sync"
	"time"
)

// stamper issues strictly increasing millisecond timestamps for storage
// keys. Two attaches in the same millisecond get consecutive stamps, so a
// key is never handed to two different attachments.
type stamper struct {
	mu   sync.Mutex
	now  func() time.Time
	last int64
}

func (s *stamper) next() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	ms := s.now().UnixMilli()
	if ms <= s.last {
		ms = s.last + 1
	}
	s.last = ms
	return time.UnixMilli(ms)
}
