package store

import "sync"

// Memory is a volatile Store for tests and throwaway sessions.
type Memory struct {
	mu     sync.Mutex
	kv     map[string]string
	exists bool
}

func NewMemory() *Memory {
	return &Memory{kv: make(map[string]string)}
}

func (m *Memory) Load() (Snapshot, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.exists {
		return Defaults(), false, nil
	}
	return decode(m.kv), true, nil
}

func (m *Memory) Save(s Snapshot) error {
	kv, err := encode(s)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.kv = kv
	m.exists = true
	return nil
}

func (m *Memory) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.kv = make(map[string]string)
	m.exists = false
	return nil
}

func (m *Memory) Close() error { return nil }
