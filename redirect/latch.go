package redirect

import "sync"

type result struct {
	outcome *Outcome
	err     error
}

// latch is a single-assignment cell shared by the two detection channels.
// The first set wins; later sets are discarded. Without it the inherently
// racy channels could each submit the same completion.
type latch struct {
	once sync.Once
	ch   chan result
}

func newLatch() *latch {
	return &latch{ch: make(chan result, 1)}
}

// set stores the result if the latch is still empty and reports whether this
// call won.
func (l *latch) set(r result) bool {
	won := false
	l.once.Do(func() {
		l.ch <- r
		won = true
	})
	return won
}
