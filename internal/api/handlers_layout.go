// handlers_layout.go - Plant layout management handlers
package api

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/plant-visualizer/backend/internal/layout"
	"github.com/plant-visualizer/backend/internal/storage"
)

// LayoutHandlerImpl implements the LayoutHandler interface
type LayoutHandlerImpl struct {
	store         storage.Store
	allowUpload   bool
	allowDeletion bool
	maxSize       int64
}

// NewLayoutHandler creates a new layout handler
func NewLayoutHandler(store storage.Store, allowUpload, allowDeletion bool, maxSize int64) LayoutHandler {
	return &LayoutHandlerImpl{
		store:         store,
		allowUpload:   allowUpload,
		allowDeletion: allowDeletion,
		maxSize:       maxSize,
	}
}

// HandleListLayouts returns all stored layouts, builtins first.
func (h *LayoutHandlerImpl) HandleListLayouts(c echo.Context) error {
	layouts, err := h.store.List()
	if err != nil {
		return NewInternalError("failed to list layouts", err)
	}
	return c.JSON(http.StatusOK, layouts)
}

// HandleGetLayout returns metadata for one layout.
func (h *LayoutHandlerImpl) HandleGetLayout(c echo.Context) error {
	id := c.Param("id")
	info, err := h.store.Get(id)
	if err != nil {
		return NewNotFoundError("layout", id)
	}
	return c.JSON(http.StatusOK, info)
}

// HandleGetLayoutData returns the raw layout document.
func (h *LayoutHandlerImpl) HandleGetLayoutData(c echo.Context) error {
	id := c.Param("id")
	data, err := h.store.Data(id)
	if err != nil {
		return NewNotFoundError("layout", id)
	}
	return c.Blob(http.StatusOK, "application/json", data)
}

type uploadLayoutRequest struct {
	Name string `json:"name"`
	Data string `json:"data"` // Base64-encoded layout JSON
}

// HandleUploadLayout validates and stores a new layout document.
// The document must pass schema and cross-reference validation before it
// is accepted.
func (h *LayoutHandlerImpl) HandleUploadLayout(c echo.Context) error {
	if !h.allowUpload {
		return NewForbiddenError("layout upload is disabled")
	}

	var req uploadLayoutRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid JSON body", err)
	}
	if req.Name == "" {
		return NewValidationError("name")
	}
	if req.Data == "" {
		return NewValidationError("data")
	}

	decoded, err := base64.StdEncoding.DecodeString(req.Data)
	if err != nil {
		return NewBadRequestError("invalid base64 data", err)
	}
	if h.maxSize > 0 && int64(len(decoded)) > h.maxSize {
		return NewBadRequestError(fmt.Sprintf("layout exceeds maximum size of %d bytes", h.maxSize), nil)
	}

	doc, err := layout.Load(decoded)
	if err != nil {
		return NewBadRequestError("invalid layout document", err)
	}

	info, err := h.store.Save(req.Name, decoded, storage.LayoutMeta{
		Description: doc.Description,
		MaxStep:     doc.MaxStep(),
		UnitCount:   len(doc.Units),
		PipeCount:   len(doc.Pipes),
	})
	if err != nil {
		return NewInternalError("failed to save layout", err)
	}

	fmt.Printf("[API] Layout uploaded: %s (%q, %d units)\n", info.ID, info.Name, info.UnitCount)
	return c.JSON(http.StatusCreated, info)
}

// HandleSetActiveLayout selects the layout new views are assembled from.
func (h *LayoutHandlerImpl) HandleSetActiveLayout(c echo.Context) error {
	var req struct {
		ID string `json:"id"`
	}
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid request body", err)
	}
	if req.ID == "" {
		return NewValidationError("id")
	}

	if err := h.store.SetActive(req.ID); err != nil {
		return NewNotFoundError("layout", req.ID)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "active layout updated"})
}

// HandleDeleteLayout removes an uploaded layout. Builtin and active
// layouts are protected.
func (h *LayoutHandlerImpl) HandleDeleteLayout(c echo.Context) error {
	if !h.allowDeletion {
		return NewForbiddenError("layout deletion is disabled")
	}

	id := c.Param("id")
	if err := h.store.Delete(id); err != nil {
		msg := err.Error()
		if strings.Contains(msg, "not found") {
			return NewNotFoundError("layout", id)
		}
		return NewConflictError(msg)
	}
	return c.NoContent(http.StatusNoContent)
}
