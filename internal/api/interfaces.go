// interfaces.go - Handler interface definitions for clean separation of concerns
package api

import (
	"github.com/labstack/echo/v4"
	"github.com/plant-visualizer/backend/internal/engine"
	"github.com/plant-visualizer/backend/internal/models"
)

// LayoutHandler handles plant layout management operations
type LayoutHandler interface {
	HandleListLayouts(c echo.Context) error
	HandleGetLayout(c echo.Context) error
	HandleGetLayoutData(c echo.Context) error
	HandleUploadLayout(c echo.Context) error
	HandleSetActiveLayout(c echo.Context) error
	HandleDeleteLayout(c echo.Context) error
}

// ViewHandler handles viewer session operations
type ViewHandler interface {
	HandleCreateView(c echo.Context) error
	HandleGetView(c echo.Context) error
	HandleViewCommand(c echo.Context) error
	HandleSceneDocument(c echo.Context) error
	HandleSnapshot(c echo.Context) error
	HandleViewKeepAlive(c echo.Context) error
	HandleDeleteView(c echo.Context) error
}

// HealthHandler handles health check operations
type HealthHandler interface {
	HandleHealth(c echo.Context) error
}

// ViewManager defines the interface for view session management
// This allows mocking in tests
type ViewManager interface {
	CreateView(width, height int, caps engine.HostCaps) (*models.ViewerSession, error)
	GetView(id string) (*models.ViewerSession, bool)
	Engine(id string) (*engine.Engine, bool)
	Command(id string, cmd models.ViewCommand) error
	TouchView(id string) bool
	DeleteView(id string) bool
	Subscribe(id string) (<-chan *engine.Frame, func(), bool)
	ViewCount() int
}
