// Package inmemory provides a process scoped key-value storage
package inmemory

import "sync"

// MMKeyValueStorage is an in-memory implementation of storage.KeyValueStorage
type MMKeyValueStorage struct {
	data  map[string]string
	mutex *sync.RWMutex
}

// NewMMKeyValueStorage instantiates a new MMKeyValueStorage
func NewMMKeyValueStorage() *MMKeyValueStorage {
	return &MMKeyValueStorage{
		data:  make(map[string]string),
		mutex: &sync.RWMutex{},
	}
}

// Get returns the value stored under key
func (m *MMKeyValueStorage) Get(key string) (string, bool, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	value, ok := m.data[key]
	return value, ok, nil
}

// Set stores value under key
func (m *MMKeyValueStorage) Set(key string, value string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.data[key] = value
	return nil
}
