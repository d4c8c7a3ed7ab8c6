package application

import (
	"sync"

	"github.com/bnema/haggle/internal/domain"
)

// negotiationLocks serializes the read-evaluate-save cycle per negotiation.
// Entries are dropped once nobody holds or waits on them.
type negotiationLocks struct {
	mu    sync.Mutex
	locks map[domain.NegotiationID]*negotiationLock
}

type negotiationLock struct {
	mu      sync.Mutex
	holders int
}

func (l *negotiationLocks) lock(id domain.NegotiationID) func() {
	l.mu.Lock()
	if l.locks == nil {
		l.locks = map[domain.NegotiationID]*negotiationLock{}
	}
	entry, ok := l.locks[id]
	if !ok {
		entry = &negotiationLock{}
		l.locks[id] = entry
	}
	entry.holders++
	l.mu.Unlock()

	entry.mu.Lock()

	return func() {
		entry.mu.Unlock()

		l.mu.Lock()
		defer l.mu.Unlock()
		entry.holders--
		if entry.holders == 0 {
			delete(l.locks, id)
		}
	}
}
