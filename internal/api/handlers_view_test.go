// handlers_view_test.go - Tests for view handlers
package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/labstack/echo/v4"
	"github.com/plant-visualizer/backend/internal/engine"
	"github.com/plant-visualizer/backend/internal/models"
	"github.com/vmihailenco/msgpack/v5"
)

// mockViewManager implements ViewManager for handler tests
type mockViewManager struct {
	sessions  map[string]*models.ViewerSession
	engines   map[string]*engine.Engine
	commands  []models.ViewCommand
	createErr error
}

func newMockViewManager() *mockViewManager {
	return &mockViewManager{
		sessions: make(map[string]*models.ViewerSession),
		engines:  make(map[string]*engine.Engine),
	}
}

func (m *mockViewManager) CreateView(width, height int, caps engine.HostCaps) (*models.ViewerSession, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	sess := &models.ViewerSession{ID: "view-1", LayoutName: "Test Plant", Width: width, Height: height}
	m.sessions[sess.ID] = sess
	return sess, nil
}

func (m *mockViewManager) GetView(id string) (*models.ViewerSession, bool) {
	sess, ok := m.sessions[id]
	return sess, ok
}

func (m *mockViewManager) Engine(id string) (*engine.Engine, bool) {
	eng, ok := m.engines[id]
	return eng, ok
}

func (m *mockViewManager) Command(id string, cmd models.ViewCommand) error {
	if _, ok := m.sessions[id]; !ok {
		return errors.New("view not found")
	}
	if cmd.Type == "bogus" {
		return errors.New("unknown command: bogus")
	}
	m.commands = append(m.commands, cmd)
	return nil
}

func (m *mockViewManager) TouchView(id string) bool {
	_, ok := m.sessions[id]
	return ok
}

func (m *mockViewManager) DeleteView(id string) bool {
	if _, ok := m.sessions[id]; !ok {
		return false
	}
	delete(m.sessions, id)
	delete(m.engines, id)
	return true
}

func (m *mockViewManager) Subscribe(id string) (<-chan *engine.Frame, func(), bool) {
	if _, ok := m.sessions[id]; !ok {
		return nil, nil, false
	}
	ch := make(chan *engine.Frame)
	return ch, func() { close(ch) }, true
}

func (m *mockViewManager) ViewCount() int { return len(m.sessions) }

// addTestView registers a session backed by a small real engine.
func (m *mockViewManager) addTestView(t *testing.T, id string) *engine.Engine {
	t.Helper()
	eng := engine.NewEngine(id, engine.Tuning{Seed: 7}, engine.HostCaps{HasLabels: true, HasInfoPanel: true}, 800, 600)
	if _, err := eng.AddUnit(engine.CategoryStorageTank, engine.UnitParams{
		Name:        "Acid Tank",
		Description: "phosphoric acid feed",
	}, 1); err != nil {
		t.Fatalf("AddUnit: %v", err)
	}
	eng.SetCaptions([]string{"Feed"})
	m.sessions[id] = &models.ViewerSession{ID: id, LayoutName: "Test Plant", Width: 800, Height: 600}
	m.engines[id] = eng
	t.Cleanup(eng.Dispose)
	return eng
}

func newViewTestContext(t *testing.T, method, path string, body interface{}) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	var data []byte
	if body != nil {
		var err error
		data, err = json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestViewHandler_HandleCreateView(t *testing.T) {
	views := newMockViewManager()
	handler := NewViewHandler(views, false)

	c, rec := newViewTestContext(t, http.MethodPost, "/api/views", createViewRequest{
		Width: 1024, Height: 768, HasLabels: true, HasInfoPanel: true,
	})
	if err := handler.HandleCreateView(c); err != nil {
		t.Fatalf("HandleCreateView: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected status 201, got %d", rec.Code)
	}

	var sess models.ViewerSession
	if err := json.Unmarshal(rec.Body.Bytes(), &sess); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if sess.Width != 1024 || sess.Height != 768 {
		t.Errorf("session = %+v, want 1024x768", sess)
	}
}

func TestViewHandler_HandleCreateViewNoActiveLayout(t *testing.T) {
	views := newMockViewManager()
	views.createErr = errors.New("no active layout")
	handler := NewViewHandler(views, false)

	c, _ := newViewTestContext(t, http.MethodPost, "/api/views", createViewRequest{})
	err := handler.HandleCreateView(c)
	apiErr, ok := err.(*APIError)
	if !ok || apiErr.Code != "SERVICE_UNAVAILABLE" {
		t.Fatalf("expected SERVICE_UNAVAILABLE error, got %v", err)
	}
}

func TestViewHandler_HandleViewCommand(t *testing.T) {
	views := newMockViewManager()
	views.addTestView(t, "view-1")
	handler := NewViewHandler(views, false)

	run := func(id string, cmd models.ViewCommand) error {
		c, _ := newViewTestContext(t, http.MethodPost, "/api/views/"+id+"/command", cmd)
		c.SetParamNames("viewId")
		c.SetParamValues(id)
		return handler.HandleViewCommand(c)
	}

	if err := run("view-1", models.ViewCommand{Type: models.CmdToggleFlow}); err != nil {
		t.Fatalf("toggle-flow command: %v", err)
	}
	if len(views.commands) != 1 || views.commands[0].Type != models.CmdToggleFlow {
		t.Errorf("commands = %+v, want single toggle-flow", views.commands)
	}

	err := run("view-1", models.ViewCommand{Type: "bogus"})
	if apiErr, ok := err.(*APIError); !ok || apiErr.Code != "BAD_REQUEST" {
		t.Errorf("expected BAD_REQUEST for unknown command, got %v", err)
	}

	err = run("view-1", models.ViewCommand{})
	if apiErr, ok := err.(*APIError); !ok || apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("expected VALIDATION_ERROR for empty type, got %v", err)
	}

	err = run("missing", models.ViewCommand{Type: models.CmdToggleFlow})
	if apiErr, ok := err.(*APIError); !ok || apiErr.Code != "NOT_FOUND" {
		t.Errorf("expected NOT_FOUND for missing view, got %v", err)
	}
}

func TestViewHandler_HandleSceneDocument(t *testing.T) {
	views := newMockViewManager()
	views.addTestView(t, "view-1")
	handler := NewViewHandler(views, false)

	c, rec := newViewTestContext(t, http.MethodGet, "/api/views/view-1/scene", nil)
	c.SetParamNames("viewId")
	c.SetParamValues("view-1")
	if err := handler.HandleSceneDocument(c); err != nil {
		t.Fatalf("HandleSceneDocument: %v", err)
	}

	var doc struct {
		Nodes  []json.RawMessage `json:"nodes"`
		Labels []json.RawMessage `json:"labels"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
		t.Fatalf("decode scene document: %v", err)
	}
	if len(doc.Nodes) == 0 {
		t.Error("expected scene nodes for assembled unit")
	}
	if len(doc.Labels) != 1 {
		t.Errorf("labels = %d, want 1", len(doc.Labels))
	}
}

func TestViewHandler_HandleSnapshot(t *testing.T) {
	views := newMockViewManager()
	views.addTestView(t, "view-1")
	handler := NewViewHandler(views, false)

	c, rec := newViewTestContext(t, http.MethodGet, "/api/views/view-1/snapshot", nil)
	c.SetParamNames("viewId")
	c.SetParamValues("view-1")
	if err := handler.HandleSnapshot(c); err != nil {
		t.Fatalf("HandleSnapshot: %v", err)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/msgpack" {
		t.Errorf("Content-Type = %q, want application/msgpack", ct)
	}

	var frame engine.Frame
	if err := msgpack.Unmarshal(rec.Body.Bytes(), &frame); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if len(frame.Visible) == 0 {
		t.Error("expected visible nodes in snapshot")
	}
}

func TestViewHandler_HandleSnapshotCompressed(t *testing.T) {
	views := newMockViewManager()
	views.addTestView(t, "view-1")
	handler := NewViewHandler(views, true)

	c, rec := newViewTestContext(t, http.MethodGet, "/api/views/view-1/snapshot", nil)
	c.SetParamNames("viewId")
	c.SetParamValues("view-1")
	if err := handler.HandleSnapshot(c); err != nil {
		t.Fatalf("HandleSnapshot: %v", err)
	}
	if enc := rec.Header().Get("Content-Encoding"); enc != "zstd" {
		t.Fatalf("Content-Encoding = %q, want zstd", enc)
	}

	dec, err := zstd.NewReader(nil)
	if err != nil {
		t.Fatalf("zstd reader: %v", err)
	}
	defer dec.Close()
	raw, err := dec.DecodeAll(rec.Body.Bytes(), nil)
	if err != nil {
		t.Fatalf("decompress snapshot: %v", err)
	}

	var frame engine.Frame
	if err := msgpack.Unmarshal(raw, &frame); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if len(frame.Visible) == 0 {
		t.Error("expected visible nodes in snapshot")
	}
}

func TestViewHandler_HandleDeleteView(t *testing.T) {
	views := newMockViewManager()
	views.addTestView(t, "view-1")
	handler := NewViewHandler(views, false)

	c, rec := newViewTestContext(t, http.MethodDelete, "/api/views/view-1", nil)
	c.SetParamNames("viewId")
	c.SetParamValues("view-1")
	if err := handler.HandleDeleteView(c); err != nil {
		t.Fatalf("HandleDeleteView: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected status 204, got %d", rec.Code)
	}

	c, _ = newViewTestContext(t, http.MethodDelete, "/api/views/view-1", nil)
	c.SetParamNames("viewId")
	c.SetParamValues("view-1")
	err := handler.HandleDeleteView(c)
	apiErr, ok := err.(*APIError)
	if !ok || apiErr.Code != "NOT_FOUND" {
		t.Fatalf("expected NOT_FOUND deleting twice, got %v", err)
	}
}

func TestViewHandler_HandleViewKeepAlive(t *testing.T) {
	views := newMockViewManager()
	views.addTestView(t, "view-1")
	handler := NewViewHandler(views, false)

	c, rec := newViewTestContext(t, http.MethodPost, "/api/views/view-1/keepalive", nil)
	c.SetParamNames("viewId")
	c.SetParamValues("view-1")
	if err := handler.HandleViewKeepAlive(c); err != nil {
		t.Fatalf("HandleViewKeepAlive: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}
}
