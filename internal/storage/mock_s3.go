package storage

import (
	"context"
	"errors"
	"sync"
)

// MockS3Client implements the storage Interface in memory for testing
type MockS3Client struct {
	mu           sync.RWMutex
	objects      map[string][]byte
	contentTypes map[string]string
	putCalls     int
	forceError   bool
	errorMessage string
}

// NewMockS3Client creates a new mock S3 client for testing
func NewMockS3Client() *MockS3Client {
	return &MockS3Client{
		objects:      make(map[string][]byte),
		contentTypes: make(map[string]string),
	}
}

// Put stores an object in memory
func (m *MockS3Client) Put(ctx context.Context, key string, body []byte, contentType string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.putCalls++

	if m.forceError {
		return errors.New(m.errorMessage)
	}

	// Make a copy of the data to avoid external modifications
	dataCopy := make([]byte, len(body))
	copy(dataCopy, body)

	m.objects[key] = dataCopy
	m.contentTypes[key] = contentType
	return nil
}

// Object returns the body stored under key (helper for tests)
func (m *MockS3Client) Object(key string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, exists := m.objects[key]
	return data, exists
}

// ContentType returns the content type recorded for key (helper for tests)
func (m *MockS3Client) ContentType(key string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.contentTypes[key]
}

// SetError configures the mock to return an error on operations
func (m *MockS3Client) SetError(enable bool, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.forceError = enable
	if enable {
		m.errorMessage = message
	} else {
		m.errorMessage = ""
	}
}

// PutCalls returns the number of Put calls (helper for tests)
func (m *MockS3Client) PutCalls() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.putCalls
}

// ObjectCount returns the number of objects stored (helper for tests)
func (m *MockS3Client) ObjectCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.objects)
}

// HasObject checks if an object with the given key exists (helper for tests)
func (m *MockS3Client) HasObject(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, exists := m.objects[key]
	return exists
}

// Reset clears all stored objects and resets call counters
func (m *MockS3Client) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.objects = make(map[string][]byte)
	m.contentTypes = make(map[string]string)
	m.putCalls = 0
	m.forceError = false
	m.errorMessage = ""
}
