// Package storagetest provides an in-memory ObjectStore for tests.
package storagetest

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/todophotos/internal/common"
)

// Object is one stored payload.
type Object struct {
	Data        []byte
	ContentType string
}

// Memory keeps objects in a map. The exported Err fields make the matching
// operation fail with ErrStorage while set.
type Memory struct {
	mu      sync.Mutex
	objects map[string]Object
	deleted []string

	PutErr    error
	DeleteErr error
	SignErr   error
}

func NewMemory() *Memory {
	return &Memory{objects: map[string]Object{}}
}

func (m *Memory) IsConfigured() bool { return true }

func (m *Memory) Put(_ context.Context, key string, data []byte, contentType string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.PutErr != nil {
		return fmt.Errorf("%w: %v", common.ErrStorage, m.PutErr)
	}
	m.objects[key] = Object{Data: append([]byte(nil), data...), ContentType: contentType}
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.DeleteErr != nil {
		return fmt.Errorf("%w: %v", common.ErrStorage, m.DeleteErr)
	}
	delete(m.objects, key)
	m.deleted = append(m.deleted, key)
	return nil
}

func (m *Memory) SignedReadURL(_ context.Context, key string, ttl time.Duration) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.SignErr != nil {
		return "", fmt.Errorf("%w: %v", common.ErrStorage, m.SignErr)
	}
	if _, ok := m.objects[key]; !ok {
		return "", fmt.Errorf("%w: no object %s", common.ErrStorage, key)
	}
	return fmt.Sprintf("https://objects.test/%s?expires=%d", url.PathEscape(key), int(ttl.Seconds())), nil
}

// Get returns the stored object for key.
func (m *Memory) Get(key string) (Object, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.objects[key]
	return o, ok
}

// Keys lists the live keys in sorted order.
func (m *Memory) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.objects))
	for k := range m.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Deleted lists every key passed to a successful Delete, in call order.
func (m *Memory) Deleted() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.deleted...)
}
