// manager_test.go - Tests for layout storage layer
package storage

import (
	"path/filepath"
	"testing"

	"github.com/plant-visualizer/backend/internal/models"
)

func createTestStore(t *testing.T) *LocalStore {
	t.Helper()
	tempDir := t.TempDir()
	catalog, err := OpenCatalog(filepath.Join(tempDir, "catalog.db"))
	if err != nil {
		t.Fatalf("Failed to open catalog: %v", err)
	}
	t.Cleanup(func() { catalog.Close() })

	store, err := NewLocalStore(filepath.Join(tempDir, "layouts"), catalog)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	return store
}

func saveTestLayout(t *testing.T, store *LocalStore, name string, meta LayoutMeta) *models.LayoutInfo {
	t.Helper()
	info, err := store.Save(name, []byte(`{"version":1}`), meta)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	return info
}

func TestSaveAndGet(t *testing.T) {
	store := createTestStore(t)

	info := saveTestLayout(t, store, "Test Plant", LayoutMeta{
		Description: "test layout",
		MaxStep:     5,
		UnitCount:   7,
		PipeCount:   3,
	})

	if info.ID == "" {
		t.Error("Expected layout ID to be set")
	}
	if info.Size == 0 {
		t.Error("Expected size to be recorded")
	}

	got, err := store.Get(info.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != "Test Plant" || got.MaxStep != 5 || got.UnitCount != 7 {
		t.Errorf("Get returned %+v, want saved metadata", got)
	}

	data, err := store.Data(info.ID)
	if err != nil {
		t.Fatalf("Data: %v", err)
	}
	if string(data) != `{"version":1}` {
		t.Errorf("Data = %q, want saved bytes", data)
	}
}

func TestGetMissingLayout(t *testing.T) {
	store := createTestStore(t)
	if _, err := store.Get("nonexistent"); err == nil {
		t.Error("Expected error for missing layout")
	}
	if _, err := store.Data("nonexistent"); err == nil {
		t.Error("Expected error for missing layout data")
	}
}

func TestListOrdersBuiltinsFirst(t *testing.T) {
	store := createTestStore(t)

	saveTestLayout(t, store, "Custom", LayoutMeta{})
	saveTestLayout(t, store, "Wet End", LayoutMeta{Builtin: true})

	list, err := store.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("List returned %d layouts, want 2", len(list))
	}
	if !list[0].Builtin {
		t.Error("Expected builtin layout first")
	}
}

func TestActiveSelection(t *testing.T) {
	store := createTestStore(t)

	if _, ok := store.Active(); ok {
		t.Error("Expected no active layout initially")
	}

	info := saveTestLayout(t, store, "Plant", LayoutMeta{})
	if err := store.SetActive(info.ID); err != nil {
		t.Fatalf("SetActive: %v", err)
	}

	id, ok := store.Active()
	if !ok || id != info.ID {
		t.Errorf("Active = %q/%v, want %q", id, ok, info.ID)
	}

	got, _ := store.Get(info.ID)
	if !got.Active {
		t.Error("Expected Get to flag the active layout")
	}

	if err := store.SetActive("nonexistent"); err == nil {
		t.Error("Expected error activating missing layout")
	}
}

func TestDeleteRules(t *testing.T) {
	store := createTestStore(t)

	builtin := saveTestLayout(t, store, "Builtin", LayoutMeta{Builtin: true})
	if err := store.Delete(builtin.ID); err == nil {
		t.Error("Expected builtin deletion to fail")
	}

	active := saveTestLayout(t, store, "Active", LayoutMeta{})
	if err := store.SetActive(active.ID); err != nil {
		t.Fatalf("SetActive: %v", err)
	}
	if err := store.Delete(active.ID); err == nil {
		t.Error("Expected active layout deletion to fail")
	}

	other := saveTestLayout(t, store, "Other", LayoutMeta{})
	if err := store.Delete(other.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Get(other.ID); err == nil {
		t.Error("Expected deleted layout to be gone")
	}
}

func TestCatalogPersistence(t *testing.T) {
	tempDir := t.TempDir()
	catalogPath := filepath.Join(tempDir, "catalog.db")
	layoutsDir := filepath.Join(tempDir, "layouts")

	catalog, err := OpenCatalog(catalogPath)
	if err != nil {
		t.Fatalf("OpenCatalog: %v", err)
	}
	store, err := NewLocalStore(layoutsDir, catalog)
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}
	info := saveTestLayout(t, store, "Persistent Plant", LayoutMeta{MaxStep: 4})
	if err := store.SetActive(info.ID); err != nil {
		t.Fatalf("SetActive: %v", err)
	}
	catalog.Close()

	// reopen: rows and active selection must survive
	catalog2, err := OpenCatalog(catalogPath)
	if err != nil {
		t.Fatalf("reopen catalog: %v", err)
	}
	defer catalog2.Close()
	store2, err := NewLocalStore(layoutsDir, catalog2)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}

	got, err := store2.Get(info.ID)
	if err != nil {
		t.Fatalf("Get after reopen: %v", err)
	}
	if got.Name != "Persistent Plant" || got.MaxStep != 4 {
		t.Errorf("reopened layout = %+v, want original metadata", got)
	}
	if id, ok := store2.Active(); !ok || id != info.ID {
		t.Errorf("active after reopen = %q/%v, want %q", id, ok, info.ID)
	}
}
