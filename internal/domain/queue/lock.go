package queue

import "sync"

// keyedMutex serializes queue-number assignment per (doctor, date) so two
// concurrent requests cannot both read the same max and insert a duplicate.
// Covers a single-instance deployment; the unique constraint on
// (doctor_id, visit_date, queue_number) backs it for multi-instance runs.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*sync.Mutex)}
}

// lock acquires the mutex for key and returns its unlock function.
func (k *keyedMutex) lock(key string) func() {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	k.mu.Unlock()

	m.Lock()
	return m.Unlock
}
