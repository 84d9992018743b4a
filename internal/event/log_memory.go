package event

import (
	"context"
	"sync"
)

// MemoryLog keeps events in process memory. It backs deployments without a
// database and doubles as the test log; FailWith lets tests simulate a store
// outage.
type MemoryLog struct {
	mu     sync.RWMutex
	events []Event
	err    error
}

func NewMemoryLog() *MemoryLog {
	return &MemoryLog{}
}

func (l *MemoryLog) Append(_ context.Context, evt Event) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return l.err
	}
	l.events = append(l.events, evt)
	return nil
}

// Events returns a copy of everything appended so far.
func (l *MemoryLog) Events() []Event {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Event, len(l.events))
	copy(out, l.events)
	return out
}

// FailWith makes every subsequent Append return err. Pass nil to heal.
func (l *MemoryLog) FailWith(err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.err = err
}
