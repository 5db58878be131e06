package state

import (
	"sync"
)

// MemoryBackend keeps records in process memory.
type MemoryBackend struct {
	mu      sync.RWMutex
	records map[string]PanelRecord
}

// NewMemoryBackend returns an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{records: make(map[string]PanelRecord)}
}

func (m *MemoryBackend) Load(key string) (PanelRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.records[key].Clone(), nil
}

func (m *MemoryBackend) Save(key string, record PanelRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[key] = record.Clone()
	return nil
}

// Keys lists the saved keys.
func (m *MemoryBackend) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.records))
	for k := range m.records {
		keys = append(keys, k)
	}
	return keys
}
