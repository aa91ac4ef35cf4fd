package businessflow

import "sync"

// accountLocks serializes login mutations per account handle. The store is
// last-write-wins, so without this two concurrent failed logins could lose a
// counter increment and an attacker would get free extra attempts.
type accountLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newAccountLocks() *accountLocks {
	return &accountLocks{
		locks: make(map[string]*sync.Mutex),
	}
}

func (a *accountLocks) lock(handle string) {
	a.mu.Lock()
	m, ok := a.locks[handle]
	if !ok {
		m = &sync.Mutex{}
		a.locks[handle] = m
	}
	a.mu.Unlock()

	m.Lock()
}

func (a *accountLocks) unlock(handle string) {
	a.mu.Lock()
	m := a.locks[handle]
	a.mu.Unlock()

	if m != nil {
		m.Unlock()
	}
}
