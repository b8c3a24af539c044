package concurrency

import "sync"

type keyLock struct {
	mu      sync.Mutex
	holders int // goroutines holding or waiting on mu; guarded by LockManager.mu
}

// LockManager serialises work per key. Entries exist only while someone holds
// or waits on them, so long-running processes do not accumulate one mutex per tool.
type LockManager struct {
	mu    sync.Mutex
	locks map[string]*keyLock
}

func NewLockManager() *LockManager {
	return &LockManager{locks: make(map[string]*keyLock)}
}

// WithLock runs fn while holding the lock for key and returns its error.
// Every read-modify-write of a stored tool goes through here.
func (lm *LockManager) WithLock(key string, fn func() error) error {
	l := lm.acquire(key)
	defer lm.release(key, l)
	return fn()
}

func (lm *LockManager) acquire(key string) *keyLock {
	lm.mu.Lock()
	l, ok := lm.locks[key]
	if !ok {
		l = &keyLock{}
		lm.locks[key] = l
	}
	l.holders++
	lm.mu.Unlock()

	l.mu.Lock()
	return l
}

func (lm *LockManager) release(key string, l *keyLock) {
	l.mu.Unlock()

	lm.mu.Lock()
	defer lm.mu.Unlock()
	if l.holders--; l.holders == 0 {
		delete(lm.locks, key)
	}
}

// Len reports how many keys currently have a holder or waiter
func (lm *LockManager) Len() int {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	return len(lm.locks)
}
