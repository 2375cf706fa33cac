package cache

import (
	"context"
	"sync"
)

// Memory keeps records for the lifetime of the process
type Memory struct {
	mu      sync.Mutex
	records map[string]Record
}

func NewMemory() *Memory {
	return &Memory{records: make(map[string]Record)}
}

func (m *Memory) Get(_ context.Context, url string) (Record, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.records[url]
	return rec, ok, nil
}

func (m *Memory) Put(_ context.Context, url string, rec Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.records[url] = rec
	return nil
}

func (m *Memory) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.records = make(map[string]Record)
	return nil
}
