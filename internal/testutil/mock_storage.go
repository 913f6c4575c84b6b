// mock_storage.go - Mock storage implementation for testing
package testutil

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/plant-visualizer/backend/internal/models"
	"github.com/plant-visualizer/backend/internal/storage"
)

// MockStorage implements storage.Store for testing
type MockStorage struct {
	layouts  map[string]*models.LayoutInfo
	data     map[string][]byte
	activeID string
	mu       sync.RWMutex
}

// NewMockStorage creates a new mock storage
func NewMockStorage() *MockStorage {
	return &MockStorage{
		layouts: make(map[string]*models.LayoutInfo),
		data:    make(map[string][]byte),
	}
}

func (m *MockStorage) Save(name string, data []byte, meta storage.LayoutMeta) (*models.LayoutInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := generateTestID()
	info := &models.LayoutInfo{
		ID:          id,
		Name:        name,
		Description: meta.Description,
		Size:        int64(len(data)),
		Builtin:     meta.Builtin,
		UploadedAt:  time.Now(),
		MaxStep:     meta.MaxStep,
		UnitCount:   meta.UnitCount,
		PipeCount:   meta.PipeCount,
	}
	m.layouts[id] = info
	m.data[id] = data
	return info, nil
}

func (m *MockStorage) Get(id string) (*models.LayoutInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	info, ok := m.layouts[id]
	if !ok {
		return nil, errors.New("layout not found")
	}
	cp := *info
	cp.Active = id == m.activeID
	return &cp, nil
}

func (m *MockStorage) Data(id string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.data[id]
	if !ok {
		return nil, errors.New("layout not found")
	}
	return data, nil
}

func (m *MockStorage) List() ([]*models.LayoutInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var list []*models.LayoutInfo
	for id, info := range m.layouts {
		cp := *info
		cp.Active = id == m.activeID
		list = append(list, &cp)
	}
	return list, nil
}

func (m *MockStorage) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	info, ok := m.layouts[id]
	if !ok {
		return errors.New("layout not found")
	}
	if info.Builtin {
		return errors.New("cannot delete builtin layout")
	}
	if id == m.activeID {
		return errors.New("cannot delete the active layout")
	}
	delete(m.layouts, id)
	delete(m.data, id)
	return nil
}

func (m *MockStorage) SetActive(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.layouts[id]; !ok {
		return errors.New("layout not found")
	}
	m.activeID = id
	return nil
}

func (m *MockStorage) Active() (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.activeID == "" {
		return "", false
	}
	return m.activeID, true
}

// Ensure MockStorage implements storage.Store
var _ storage.Store = (*MockStorage)(nil)

// Test Helper Methods

// BuiltinMeta returns a LayoutMeta marked builtin, for seeding test stores
func BuiltinMeta() storage.LayoutMeta {
	return storage.LayoutMeta{Builtin: true}
}

// LayoutCount returns the number of stored layouts
func (m *MockStorage) LayoutCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.layouts)
}

// Clear removes all layouts
func (m *MockStorage) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.layouts = make(map[string]*models.LayoutInfo)
	m.data = make(map[string][]byte)
	m.activeID = ""
}

// generateTestID generates a simple test ID
var testIDCounter int
var testIDMutex sync.Mutex

func generateTestID() string {
	testIDMutex.Lock()
	defer testIDMutex.Unlock()
	testIDCounter++
	return fmt.Sprintf("test-id-%d", testIDCounter)
}
