package memory

import (
	"context"
	"sync"
)

// MetadataStore is a tenant key/value map guarded by a mutex.
type MetadataStore struct {
	mu   sync.RWMutex
	data map[string]map[string]string
}

func NewMetadataStore() *MetadataStore {
	return &MetadataStore{data: map[string]map[string]string{}}
}

func (m *MetadataStore) Get(_ context.Context, tenant, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[tenant][key]
	return v, ok, nil
}

func (m *MetadataStore) Set(_ context.Context, tenant, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data[tenant] == nil {
		m.data[tenant] = map[string]string{}
	}
	m.data[tenant][key] = value
	return nil
}
