// Package syncx provides small synchronization helpers shared by server
// components.
package syncx

import "sync"

// KeyedMutex provides mutual exclusion per string key. Locks for distinct
// keys are independent; two goroutines locking the same key serialize.
//
// Entries are reference-counted and removed once the last holder unlocks,
// so the internal map does not grow with the number of keys ever seen.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyedLock
}

type keyedLock struct {
	mu   sync.Mutex
	refs int
}

func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{locks: make(map[string]*keyedLock)}
}

// Lock acquires the mutex for key, blocking until it is available.
func (m *KeyedMutex) Lock(key string) {
	m.mu.Lock()
	l, ok := m.locks[key]
	if !ok {
		l = &keyedLock{}
		m.locks[key] = l
	}
	l.refs++
	m.mu.Unlock()

	l.mu.Lock()
}

// Unlock releases the mutex for key. Unlocking a key that is not held is a
// programming error and panics, same as sync.Mutex.
func (m *KeyedMutex) Unlock(key string) {
	m.mu.Lock()
	l, ok := m.locks[key]
	if !ok {
		m.mu.Unlock()
		panic("syncx: unlock of unlocked key " + key)
	}
	l.refs--
	if l.refs == 0 {
		delete(m.locks, key)
	}
	m.mu.Unlock()

	l.mu.Unlock()
}
