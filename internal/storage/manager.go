package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/plant-visualizer/backend/internal/models"
)

// Store defines the interface for layout storage.
type Store interface {
	Save(name string, data []byte, meta LayoutMeta) (*models.LayoutInfo, error)
	Get(id string) (*models.LayoutInfo, error)
	Data(id string) ([]byte, error)
	List() ([]*models.LayoutInfo, error)
	Delete(id string) error
	SetActive(id string) error
	Active() (string, bool)
}

// LayoutMeta carries the derived document properties the store records
// alongside the raw bytes.
type LayoutMeta struct {
	Description string
	MaxStep     int
	UnitCount   int
	PipeCount   int
	Builtin     bool
}

// LocalStore implements Store using the local filesystem with a SQLite
// catalog for metadata, so the layout list and active selection survive
// restarts.
type LocalStore struct {
	mu         sync.RWMutex
	layoutsDir string
	catalog    *Catalog
	layouts    map[string]*models.LayoutInfo
	activeID   string
}

// NewLocalStore creates a LocalStore, loading any existing catalog rows.
func NewLocalStore(layoutsDir string, catalog *Catalog) (*LocalStore, error) {
	if err := os.MkdirAll(layoutsDir, 0755); err != nil {
		return nil, fmt.Errorf("creating layouts directory: %w", err)
	}

	s := &LocalStore{
		layoutsDir: layoutsDir,
		catalog:    catalog,
		layouts:    make(map[string]*models.LayoutInfo),
	}

	rows, active, err := catalog.Load()
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}
	for _, info := range rows {
		s.layouts[info.ID] = info
	}
	s.activeID = active
	return s, nil
}

// Save stores layout bytes under a fresh id and records it in the catalog.
func (s *LocalStore) Save(name string, data []byte, meta LayoutMeta) (*models.LayoutInfo, error) {
	id := uuid.New().String()
	path := filepath.Join(s.layoutsDir, id+".json")

	if err := os.WriteFile(path, data, 0644); err != nil {
		return nil, fmt.Errorf("writing layout: %w", err)
	}

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

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.catalog.Put(info); err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("recording layout: %w", err)
	}
	s.layouts[id] = info
	return info, nil
}

// Get retrieves layout metadata by ID.
func (s *LocalStore) Get(id string) (*models.LayoutInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	info, ok := s.layouts[id]
	if !ok {
		return nil, fmt.Errorf("layout not found: %s", id)
	}
	cp := *info
	cp.Active = id == s.activeID
	return &cp, nil
}

// Data returns the raw layout bytes.
func (s *LocalStore) Data(id string) ([]byte, error) {
	s.mu.RLock()
	_, ok := s.layouts[id]
	path := filepath.Join(s.layoutsDir, id+".json")
	s.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("layout not found: %s", id)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading layout: %w", err)
	}
	return data, nil
}

// List returns all layouts, builtins first, then newest uploads first.
func (s *LocalStore) List() ([]*models.LayoutInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var list []*models.LayoutInfo
	for _, info := range s.layouts {
		cp := *info
		cp.Active = info.ID == s.activeID
		list = append(list, &cp)
	}

	sort.Slice(list, func(i, j int) bool {
		if list[i].Builtin != list[j].Builtin {
			return list[i].Builtin
		}
		if list[i].Builtin {
			return list[i].Name < list[j].Name
		}
		return list[i].UploadedAt.After(list[j].UploadedAt)
	})

	return list, nil
}

// Delete removes a layout. Builtins and the active layout cannot be
// deleted.
func (s *LocalStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	info, ok := s.layouts[id]
	if !ok {
		return fmt.Errorf("layout not found: %s", id)
	}
	if info.Builtin {
		return fmt.Errorf("cannot delete builtin layout: %s", id)
	}
	if id == s.activeID {
		return fmt.Errorf("cannot delete the active layout: %s", id)
	}

	if err := s.catalog.Remove(id); err != nil {
		return fmt.Errorf("removing layout record: %w", err)
	}

	path := filepath.Join(s.layoutsDir, id+".json")
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("deleting layout: %w", err)
	}

	delete(s.layouts, id)
	return nil
}

// SetActive marks a layout as the one new views open.
func (s *LocalStore) SetActive(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.layouts[id]; !ok {
		return fmt.Errorf("layout not found: %s", id)
	}
	if err := s.catalog.SetActive(id); err != nil {
		return fmt.Errorf("recording active layout: %w", err)
	}
	s.activeID = id
	return nil
}

// Active returns the active layout id, or false when none is set.
func (s *LocalStore) Active() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.activeID == "" {
		return "", false
	}
	return s.activeID, true
}
