package syncx

import (
	"sync"
	"testing"
	"time"
)

func TestKeyedMutex_SerializesSameKey(t *testing.T) {
	m := NewKeyedMutex()

	var mu sync.Mutex
	counter := 0
	max := 0

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Lock("file-1")
			defer m.Unlock("file-1")

			mu.Lock()
			counter++
			if counter > max {
				max = counter
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			counter--
			mu.Unlock()
		}()
	}
	wg.Wait()

	if max != 1 {
		t.Fatalf("expected at most 1 concurrent holder, got %d", max)
	}
}

func TestKeyedMutex_IndependentKeys(t *testing.T) {
	m := NewKeyedMutex()
	m.Lock("a")

	done := make(chan struct{})
	go func() {
		m.Lock("b")
		m.Unlock("b")
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock on independent key blocked")
	}
	m.Unlock("a")
}

func TestKeyedMutex_EntryRemovedAfterUnlock(t *testing.T) {
	m := NewKeyedMutex()
	m.Lock("x")
	m.Unlock("x")

	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.locks) != 0 {
		t.Fatalf("expected empty lock map, got %d entries", len(m.locks))
	}
}

func TestKeyedMutex_UnlockUnheldPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	NewKeyedMutex().Unlock("nope")
}
