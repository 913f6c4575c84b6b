// routes.go - Route registration helpers
// This file provides a clean way to register all API routes
package api

import (
	"github.com/labstack/echo/v4"
	"github.com/plant-visualizer/backend/internal/storage"
)

// Dependencies holds all handler dependencies
type Dependencies struct {
	Store               storage.Store
	Views               ViewManager
	AllowLayoutUpload   bool
	AllowLayoutDeletion bool
	MaxLayoutSize       int64
	SnapshotCompression bool
	SocketMaxMessage    int64
	Version             string
}

// Handlers holds all handler instances
type Handlers struct {
	Health HealthHandler
	Layout LayoutHandler
	View   ViewHandler
	Socket *ViewSocketHandler
}

// NewHandlers creates all handler instances
func NewHandlers(deps *Dependencies) *Handlers {
	return &Handlers{
		Health: NewHealthHandler(deps.Version, deps.Views),
		Layout: NewLayoutHandler(deps.Store, deps.AllowLayoutUpload, deps.AllowLayoutDeletion, deps.MaxLayoutSize),
		View:   NewViewHandler(deps.Views, deps.SnapshotCompression),
		Socket: NewViewSocketHandler(deps.Views, deps.SocketMaxMessage),
	}
}

// RegisterRoutes registers all API routes with the Echo instance
func RegisterRoutes(e *echo.Echo, handlers *Handlers) {
	// Health check
	e.GET("/health", handlers.Health.HandleHealth)

	// Layout management routes
	layoutGroup := e.Group("/api/layouts")
	layoutGroup.GET("", handlers.Layout.HandleListLayouts)
	layoutGroup.POST("", handlers.Layout.HandleUploadLayout)
	layoutGroup.POST("/active", handlers.Layout.HandleSetActiveLayout)
	layoutGroup.GET("/:id", handlers.Layout.HandleGetLayout)
	layoutGroup.GET("/:id/data", handlers.Layout.HandleGetLayoutData)
	layoutGroup.DELETE("/:id", handlers.Layout.HandleDeleteLayout)

	// Viewer session routes
	viewGroup := e.Group("/api/views")
	viewGroup.POST("", handlers.View.HandleCreateView)
	viewGroup.GET("/:viewId", handlers.View.HandleGetView)
	viewGroup.POST("/:viewId/command", handlers.View.HandleViewCommand)
	viewGroup.GET("/:viewId/scene", handlers.View.HandleSceneDocument)
	viewGroup.GET("/:viewId/snapshot", handlers.View.HandleSnapshot)
	viewGroup.POST("/:viewId/keepalive", handlers.View.HandleViewKeepAlive)
	viewGroup.DELETE("/:viewId", handlers.View.HandleDeleteView)
	viewGroup.GET("/:viewId/ws", handlers.Socket.HandleViewSocket)
}

// SetupMiddleware configures common middleware
func SetupMiddleware(e *echo.Echo) {
	// Use custom error handler
	e.HTTPErrorHandler = ErrorHandler
}
