// handlers_view.go - Viewer session handlers
package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/labstack/echo/v4"
	"github.com/plant-visualizer/backend/internal/engine"
	"github.com/plant-visualizer/backend/internal/models"
	"github.com/vmihailenco/msgpack/v5"
)

// ViewHandlerImpl implements the ViewHandler interface
type ViewHandlerImpl struct {
	views    ViewManager
	compress bool
	encoder  *zstd.Encoder
}

// NewViewHandler creates a new view handler. When compress is set,
// snapshot exports are zstd-compressed.
func NewViewHandler(views ViewManager, compress bool) ViewHandler {
	h := &ViewHandlerImpl{
		views:    views,
		compress: compress,
	}
	if compress {
		h.encoder, _ = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	}
	return h
}

type createViewRequest struct {
	Width        int  `json:"width"`
	Height       int  `json:"height"`
	HasLabels    bool `json:"hasLabels"`
	HasInfoPanel bool `json:"hasInfoPanel"`
}

// HandleCreateView creates a viewer session against the active layout.
// The engine starts ticking immediately; the client should open the
// frame socket next.
func (h *ViewHandlerImpl) HandleCreateView(c echo.Context) error {
	var req createViewRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid request body", err)
	}

	caps := engine.HostCaps{
		HasLabels:    req.HasLabels,
		HasInfoPanel: req.HasInfoPanel,
	}
	sess, err := h.views.CreateView(req.Width, req.Height, caps)
	if err != nil {
		return NewServiceUnavailableError(fmt.Sprintf("failed to create view: %v", err))
	}

	return c.JSON(http.StatusCreated, sess)
}

// HandleGetView returns the current session state of a view.
func (h *ViewHandlerImpl) HandleGetView(c echo.Context) error {
	id := c.Param("viewId")
	sess, ok := h.views.GetView(id)
	if !ok {
		return NewNotFoundError("view", id)
	}
	h.views.TouchView(id)
	return c.JSON(http.StatusOK, sess)
}

// HandleViewCommand applies one client command to a view. Commands are
// the same shape the frame socket accepts, for clients that prefer HTTP.
func (h *ViewHandlerImpl) HandleViewCommand(c echo.Context) error {
	id := c.Param("viewId")
	if _, ok := h.views.GetView(id); !ok {
		return NewNotFoundError("view", id)
	}

	var cmd models.ViewCommand
	if err := c.Bind(&cmd); err != nil {
		return NewBadRequestError("invalid command body", err)
	}
	if cmd.Type == "" {
		return NewValidationError("type")
	}

	if err := h.views.Command(id, cmd); err != nil {
		return NewBadRequestError("command rejected", err)
	}

	sess, _ := h.views.GetView(id)
	return c.JSON(http.StatusOK, sess)
}

// HandleSceneDocument returns the static scene description for a view:
// geometry, materials, node hierarchy, labels and environment. The
// client fetches this once and then renders frames against it.
func (h *ViewHandlerImpl) HandleSceneDocument(c echo.Context) error {
	id := c.Param("viewId")
	eng, ok := h.views.Engine(id)
	if !ok {
		return NewNotFoundError("view", id)
	}
	h.views.TouchView(id)
	return c.JSON(http.StatusOK, eng.SceneDocument())
}

// HandleSnapshot exports the current frame as msgpack, optionally
// zstd-compressed. Useful for thumbnails and for clients rejoining a
// running view.
func (h *ViewHandlerImpl) HandleSnapshot(c echo.Context) error {
	id := c.Param("viewId")
	eng, ok := h.views.Engine(id)
	if !ok {
		return NewNotFoundError("view", id)
	}

	start := time.Now()
	frame := eng.Snapshot()
	data, err := msgpack.Marshal(frame)
	if err != nil {
		return NewInternalError("failed to encode snapshot", err)
	}

	if h.compress && h.encoder != nil {
		data = h.encoder.EncodeAll(data, make([]byte, 0, len(data)/2))
		c.Response().Header().Set("Content-Encoding", "zstd")
	}

	h.views.TouchView(id)
	fmt.Printf("[API] Snapshot: view=%s tick=%d %d bytes in %v\n", shortViewID(id), frame.Tick, len(data), time.Since(start))
	return c.Blob(http.StatusOK, "application/msgpack", data)
}

// HandleViewKeepAlive allows clients to keep an idle view alive, for
// example while the user reads the info panel without interacting.
func (h *ViewHandlerImpl) HandleViewKeepAlive(c echo.Context) error {
	id := c.Param("viewId")
	if !h.views.TouchView(id) {
		return NewNotFoundError("view", id)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// HandleDeleteView disposes a view and its engine.
func (h *ViewHandlerImpl) HandleDeleteView(c echo.Context) error {
	id := c.Param("viewId")
	if !h.views.DeleteView(id) {
		return NewNotFoundError("view", id)
	}
	return c.NoContent(http.StatusNoContent)
}

func shortViewID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
