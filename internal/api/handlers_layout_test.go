// handlers_layout_test.go - Tests for layout handlers
package api

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/plant-visualizer/backend/internal/models"
	"github.com/plant-visualizer/backend/internal/storage"
	"github.com/plant-visualizer/backend/internal/testutil"
)

const testLayoutJSON = `{
  "version": 1,
  "name": "Test Plant",
  "captions": ["Feed"],
  "units": [
    {
      "name": "Tank",
      "category": "storage-tank",
      "description": "feed tank",
      "pos": [0, 0, 0],
      "step": 1
    }
  ]
}`

func newLayoutTestContext(t *testing.T, method, path string, body interface{}) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestLayoutHandler_HandleUploadLayout(t *testing.T) {
	tests := []struct {
		name       string
		request    uploadLayoutRequest
		wantStatus int
		wantErr    bool
		errCode    string
	}{
		{
			name: "valid layout upload",
			request: uploadLayoutRequest{
				Name: "Test Plant",
				Data: base64.StdEncoding.EncodeToString([]byte(testLayoutJSON)),
			},
			wantStatus: http.StatusCreated,
		},
		{
			name: "empty name",
			request: uploadLayoutRequest{
				Data: base64.StdEncoding.EncodeToString([]byte(testLayoutJSON)),
			},
			wantErr: true,
			errCode: "VALIDATION_ERROR",
		},
		{
			name: "empty data",
			request: uploadLayoutRequest{
				Name: "Test Plant",
			},
			wantErr: true,
			errCode: "VALIDATION_ERROR",
		},
		{
			name: "invalid base64",
			request: uploadLayoutRequest{
				Name: "Test Plant",
				Data: "not-valid!!!",
			},
			wantErr: true,
			errCode: "BAD_REQUEST",
		},
		{
			name: "invalid layout document",
			request: uploadLayoutRequest{
				Name: "Test Plant",
				Data: base64.StdEncoding.EncodeToString([]byte(`{"version": 1}`)),
			},
			wantErr: true,
			errCode: "BAD_REQUEST",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := testutil.NewMockStorage()
			handler := NewLayoutHandler(store, true, true, 0)

			c, rec := newLayoutTestContext(t, http.MethodPost, "/api/layouts", tt.request)
			err := handler.HandleUploadLayout(c)

			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				apiErr, ok := err.(*APIError)
				if !ok {
					t.Fatalf("expected APIError, got %T", err)
				}
				if apiErr.Code != tt.errCode {
					t.Errorf("expected error code %s, got %s", tt.errCode, apiErr.Code)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if rec.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, rec.Code)
			}

			var info models.LayoutInfo
			if err := json.Unmarshal(rec.Body.Bytes(), &info); err != nil {
				t.Fatalf("decode response: %v", err)
			}
			if info.MaxStep != 1 || info.UnitCount != 1 {
				t.Errorf("info = %+v, want 1 step and 1 unit", info)
			}
		})
	}
}

func TestLayoutHandler_HandleUploadLayoutDisabled(t *testing.T) {
	store := testutil.NewMockStorage()
	handler := NewLayoutHandler(store, false, true, 0)

	c, _ := newLayoutTestContext(t, http.MethodPost, "/api/layouts", uploadLayoutRequest{
		Name: "Test Plant",
		Data: base64.StdEncoding.EncodeToString([]byte(testLayoutJSON)),
	})
	err := handler.HandleUploadLayout(c)
	apiErr, ok := err.(*APIError)
	if !ok || apiErr.Code != "FORBIDDEN" {
		t.Fatalf("expected FORBIDDEN error, got %v", err)
	}
}

func TestLayoutHandler_HandleUploadLayoutTooLarge(t *testing.T) {
	store := testutil.NewMockStorage()
	handler := NewLayoutHandler(store, true, true, 16)

	c, _ := newLayoutTestContext(t, http.MethodPost, "/api/layouts", uploadLayoutRequest{
		Name: "Test Plant",
		Data: base64.StdEncoding.EncodeToString([]byte(testLayoutJSON)),
	})
	err := handler.HandleUploadLayout(c)
	apiErr, ok := err.(*APIError)
	if !ok || apiErr.Code != "BAD_REQUEST" {
		t.Fatalf("expected BAD_REQUEST error, got %v", err)
	}
}

func TestLayoutHandler_HandleListLayouts(t *testing.T) {
	store := testutil.NewMockStorage()
	if _, err := store.Save("Plant A", []byte(testLayoutJSON), storage.LayoutMeta{MaxStep: 1}); err != nil {
		t.Fatalf("seed store: %v", err)
	}
	handler := NewLayoutHandler(store, true, true, 0)

	c, rec := newLayoutTestContext(t, http.MethodGet, "/api/layouts", nil)
	if err := handler.HandleListLayouts(c); err != nil {
		t.Fatalf("HandleListLayouts: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var list []*models.LayoutInfo
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(list) != 1 || list[0].Name != "Plant A" {
		t.Errorf("list = %+v, want single Plant A entry", list)
	}
}

func TestLayoutHandler_HandleGetLayoutData(t *testing.T) {
	store := testutil.NewMockStorage()
	info, err := store.Save("Plant A", []byte(testLayoutJSON), storage.LayoutMeta{MaxStep: 1})
	if err != nil {
		t.Fatalf("seed store: %v", err)
	}
	handler := NewLayoutHandler(store, true, true, 0)

	c, rec := newLayoutTestContext(t, http.MethodGet, "/api/layouts/"+info.ID+"/data", nil)
	c.SetParamNames("id")
	c.SetParamValues(info.ID)
	if err := handler.HandleGetLayoutData(c); err != nil {
		t.Fatalf("HandleGetLayoutData: %v", err)
	}
	if rec.Body.String() != testLayoutJSON {
		t.Error("expected raw layout document back")
	}

	c, _ = newLayoutTestContext(t, http.MethodGet, "/api/layouts/nope/data", nil)
	c.SetParamNames("id")
	c.SetParamValues("nope")
	err = handler.HandleGetLayoutData(c)
	apiErr, ok := err.(*APIError)
	if !ok || apiErr.Code != "NOT_FOUND" {
		t.Fatalf("expected NOT_FOUND error, got %v", err)
	}
}

func TestLayoutHandler_HandleSetActiveLayout(t *testing.T) {
	store := testutil.NewMockStorage()
	info, err := store.Save("Plant A", []byte(testLayoutJSON), storage.LayoutMeta{MaxStep: 1})
	if err != nil {
		t.Fatalf("seed store: %v", err)
	}
	handler := NewLayoutHandler(store, true, true, 0)

	c, rec := newLayoutTestContext(t, http.MethodPost, "/api/layouts/active", map[string]string{"id": info.ID})
	if err := handler.HandleSetActiveLayout(c); err != nil {
		t.Fatalf("HandleSetActiveLayout: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}
	if active, ok := store.Active(); !ok || active != info.ID {
		t.Errorf("active = %q, want %q", active, info.ID)
	}

	c, _ = newLayoutTestContext(t, http.MethodPost, "/api/layouts/active", map[string]string{"id": "nope"})
	err = handler.HandleSetActiveLayout(c)
	apiErr, ok := err.(*APIError)
	if !ok || apiErr.Code != "NOT_FOUND" {
		t.Fatalf("expected NOT_FOUND error, got %v", err)
	}
}

func TestLayoutHandler_HandleDeleteLayout(t *testing.T) {
	store := testutil.NewMockStorage()
	normal, _ := store.Save("Plant A", []byte(testLayoutJSON), storage.LayoutMeta{MaxStep: 1})
	builtin, _ := store.Save("Builtin", []byte(testLayoutJSON), testutil.BuiltinMeta())
	handler := NewLayoutHandler(store, true, true, 0)

	del := func(id string) error {
		c, _ := newLayoutTestContext(t, http.MethodDelete, "/api/layouts/"+id, nil)
		c.SetParamNames("id")
		c.SetParamValues(id)
		return handler.HandleDeleteLayout(c)
	}

	if err := del(builtin.ID); err == nil {
		t.Error("expected error deleting builtin layout")
	} else if apiErr, ok := err.(*APIError); !ok || apiErr.Code != "CONFLICT" {
		t.Errorf("expected CONFLICT for builtin delete, got %v", err)
	}

	if err := del(normal.ID); err != nil {
		t.Errorf("delete normal layout: %v", err)
	}
	if err := del(normal.ID); err == nil {
		t.Error("expected NOT_FOUND deleting twice")
	}

	disabled := NewLayoutHandler(store, true, false, 0)
	c, _ := newLayoutTestContext(t, http.MethodDelete, "/api/layouts/x", nil)
	c.SetParamNames("id")
	c.SetParamValues("x")
	err := disabled.HandleDeleteLayout(c)
	apiErr, ok := err.(*APIError)
	if !ok || apiErr.Code != "FORBIDDEN" {
		t.Fatalf("expected FORBIDDEN with deletion disabled, got %v", err)
	}
}
