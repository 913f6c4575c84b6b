package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/plant-visualizer/backend/internal/api"
	"github.com/plant-visualizer/backend/internal/config"
	"github.com/plant-visualizer/backend/internal/engine"
	"github.com/plant-visualizer/backend/internal/layout"
	"github.com/plant-visualizer/backend/internal/session"
	"github.com/plant-visualizer/backend/internal/storage"
	"github.com/plant-visualizer/backend/internal/web"
)

// Version info (set during build)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	// Get the executable's directory for config resolution
	exePath, err := os.Executable()
	if err != nil {
		fmt.Printf("Failed to get executable path: %v\n", err)
		os.Exit(1)
	}
	exeDir := filepath.Dir(exePath)

	// Load XML configuration
	configPath := filepath.Join(exeDir, "PlantVisualizer.exe.config")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Ensure all data directories exist
	if err := cfg.EnsureDirectories(); err != nil {
		fmt.Printf("Failed to create directories: %v\n", err)
		os.Exit(1)
	}

	// Check if running in embedded mode (frontend built into binary)
	embeddedMode := web.HasEmbeddedFiles()

	// Open the layout catalog and storage
	catalog, err := storage.OpenCatalog(cfg.Storage.CatalogPath)
	if err != nil {
		fmt.Printf("Failed to open layout catalog: %v\n", err)
		os.Exit(1)
	}
	defer catalog.Close()

	store, err := storage.NewLocalStore(cfg.GetLayoutsDir(), catalog)
	if err != nil {
		fmt.Printf("Failed to initialize storage: %v\n", err)
		os.Exit(1)
	}

	// Seed the builtin plant layouts on first run
	if err := seedBuiltinLayouts(store); err != nil {
		fmt.Printf("Failed to seed builtin layouts: %v\n", err)
		os.Exit(1)
	}

	// Load the color palette, falling back to defaults
	palette := loadPalette(cfg.Storage.PalettePath)

	// Build engine tuning from config overrides
	tun := buildTuning(cfg.Engine)

	// Initialize the view manager
	viewMgr := session.NewManager(store, palette, tun)
	if cfg.Engine.MaxViews > 0 {
		viewMgr.SetMaxViews(cfg.Engine.MaxViews)
	}
	defer viewMgr.DisposeAll()

	// Start background view cleanup
	cleanupInterval := time.Duration(cfg.Engine.CleanupMin) * time.Minute
	if cleanupInterval <= 0 {
		cleanupInterval = 5 * time.Minute
	}
	viewTimeout := time.Duration(cfg.Engine.ViewTimeoutMin) * time.Minute
	if viewTimeout <= 0 {
		viewTimeout = session.ViewMaxAge
	}
	cleanupDone := make(chan struct{})
	go func() {
		ticker := time.NewTicker(cleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-cleanupDone:
				return
			case <-ticker.C:
				viewMgr.CleanupOldViews(viewTimeout)
			}
		}
	}()
	defer close(cleanupDone)

	// Initialize API handlers
	handlers := api.NewHandlers(&api.Dependencies{
		Store:               store,
		Views:               viewMgr,
		AllowLayoutUpload:   cfg.Security.AllowLayoutUpload,
		AllowLayoutDeletion: cfg.Security.AllowLayoutDeletion,
		MaxLayoutSize:       cfg.GetMaxLayoutSizeBytes(),
		SnapshotCompression: cfg.Advanced.SnapshotCompression > 0,
		SocketMaxMessage:    int64(cfg.Advanced.WebSocketMaxMessageSize) * 1024,
		Version:             Version,
	})

	e := echo.New()
	e.HideBanner = true
	api.SetupMiddleware(e)

	// Configure middleware
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Skipper: func(c echo.Context) bool {
			if !cfg.Advanced.EnableRequestLogging {
				return true
			}
			path := c.Request().URL.Path
			return path == "/health" ||
				strings.HasSuffix(path, "/snapshot") ||
				strings.HasSuffix(path, "/keepalive")
		},
	}))

	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize:         1024 * 4,
		DisablePrintStack: false,
		LogLevel:          0,
	}))

	e.Use(middleware.TimeoutWithConfig(middleware.TimeoutConfig{
		Timeout: time.Duration(cfg.Server.ReadTimeout) * time.Second,
		Skipper: func(c echo.Context) bool {
			// Frame sockets stay open for the life of the view
			return strings.HasSuffix(c.Request().URL.Path, "/ws")
		},
		ErrorMessage: "Request timeout",
	}))

	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Skipper: func(c echo.Context) bool {
			path := c.Request().URL.Path
			return strings.HasSuffix(path, "/ws") || strings.HasSuffix(path, "/snapshot")
		},
	}))

	// Body limit middleware
	e.Use(middleware.BodyLimit(cfg.Server.BodyLimit))

	// Token auth for API routes when configured
	if cfg.Security.RequireAuth && cfg.Security.AuthToken != "" {
		e.Use(middleware.KeyAuthWithConfig(middleware.KeyAuthConfig{
			Skipper: func(c echo.Context) bool {
				return !strings.HasPrefix(c.Request().URL.Path, "/api/")
			},
			Validator: func(key string, c echo.Context) (bool, error) {
				return key == cfg.Security.AuthToken, nil
			},
		}))
	}

	// CORS configuration
	if cfg.Server.EnableCORS {
		if embeddedMode {
			// In embedded mode, use config settings
			origins := strings.Split(cfg.Server.AllowOrigins, ",")
			for i := range origins {
				origins[i] = strings.TrimSpace(origins[i])
			}
			if len(origins) == 0 || (len(origins) == 1 && origins[0] == "") {
				origins = []string{"*"}
			}
			e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
				AllowOrigins: origins,
				AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
				AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
			}))
		} else {
			// Development mode - only allow localhost
			e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
				AllowOrigins: []string{
					"http://localhost:5173", "http://127.0.0.1:5173",
					"http://localhost:3000", "http://127.0.0.1:3000",
				},
				AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
				AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
			}))
		}
	}

	// API routes
	api.RegisterRoutes(e, handlers)

	// Register embedded frontend if available
	if embeddedMode {
		if err := web.RegisterStaticRoutes(e); err != nil {
			fmt.Printf("Warning: failed to register static routes: %v\n", err)
		} else {
			fmt.Println("Serving embedded viewer from binary")
		}
	}

	// Configure server with settings from XML config
	s := &http.Server{
		Addr:        cfg.GetServerAddr(),
		ReadTimeout: time.Duration(cfg.Server.ReadTimeout) * time.Second,
		IdleTimeout: time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Print startup banner
	mode := "Development"
	if embeddedMode {
		mode = "Air-Gapped (Embedded)"
	}

	fmt.Printf("\n")
	fmt.Printf("╔═══════════════════════════════════════════════════════════╗\n")
	fmt.Printf("║           Plant Visualizer Server                         ║\n")
	fmt.Printf("╠═══════════════════════════════════════════════════════════╣\n")
	fmt.Printf("║  Version:    %-45s║\n", Version)
	fmt.Printf("║  Build Time: %-45s║\n", BuildTime)
	fmt.Printf("║  Mode:       %-45s║\n", mode)
	fmt.Printf("╠═══════════════════════════════════════════════════════════╣\n")
	fmt.Printf("║  Config:    %-46s║\n", configPath)
	fmt.Printf("║  Listen:    http://%-38s║\n", cfg.GetServerAddr())
	fmt.Printf("║  Data Dir:  %-46s║\n", cfg.GetDataDir())
	fmt.Printf("╚═══════════════════════════════════════════════════════════╝\n")
	fmt.Printf("\n")

	if embeddedMode {
		fmt.Printf("Open http://localhost:%d in your browser\n\n", cfg.Server.Port)
	}

	// Graceful shutdown on SIGINT/SIGTERM so running views dispose cleanly
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		fmt.Println("\nShutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		e.Shutdown(ctx)
	}()

	if err := e.StartServer(s); err != nil && err != http.ErrServerClosed {
		e.Logger.Fatal(err)
	}
}

// seedBuiltinLayouts stores the bundled plant layouts if they are not in
// the catalog yet and ensures one of them is active.
func seedBuiltinLayouts(store storage.Store) error {
	existing, err := store.List()
	if err != nil {
		return err
	}
	byName := make(map[string]string, len(existing))
	for _, info := range existing {
		byName[info.Name] = info.ID
	}

	for _, slug := range layout.BuiltinSlugs() {
		data, ok := layout.Builtin(slug)
		if !ok {
			continue
		}
		doc, err := layout.Load(data)
		if err != nil {
			return fmt.Errorf("builtin layout %s: %w", slug, err)
		}
		if _, seeded := byName[doc.Name]; seeded {
			continue
		}
		info, err := store.Save(doc.Name, data, storage.LayoutMeta{
			Description: doc.Description,
			MaxStep:     doc.MaxStep(),
			UnitCount:   len(doc.Units),
			PipeCount:   len(doc.Pipes),
			Builtin:     true,
		})
		if err != nil {
			return fmt.Errorf("seed builtin layout %s: %w", slug, err)
		}
		byName[doc.Name] = info.ID
		fmt.Printf("Seeded builtin layout %q (%s)\n", doc.Name, info.ID)
	}

	// Default to the wet end process if nothing is active yet
	if _, ok := store.Active(); !ok {
		if data, found := layout.Builtin(layout.BuiltinWetEnd); found {
			if doc, err := layout.Load(data); err == nil {
				if id, seeded := byName[doc.Name]; seeded {
					if err := store.SetActive(id); err != nil {
						return err
					}
				}
			}
		}
	}
	return nil
}

// loadPalette reads the palette overlay file if present.
func loadPalette(path string) layout.Palette {
	data, err := os.ReadFile(path)
	if err != nil {
		return layout.DefaultPalette()
	}
	pal, err := layout.ParsePalette(data)
	if err != nil {
		fmt.Printf("Warning: invalid palette file %s: %v\n", path, err)
		return layout.DefaultPalette()
	}
	fmt.Printf("Loaded palette overrides from %s\n", path)
	return pal
}

// buildTuning overlays nonzero config values onto the engine defaults.
func buildTuning(ec config.EngineConfig) engine.Tuning {
	tun := engine.DefaultTuning()
	if ec.TickRate > 0 {
		tun.TickRate = ec.TickRate
	}
	if ec.ParticlesPerPipe > 0 {
		tun.ParticlesPerPipe = ec.ParticlesPerPipe
	}
	if ec.ParticleSpeed > 0 {
		tun.ParticleSpeed = ec.ParticleSpeed
	}
	if ec.AutoRotateSpeed > 0 {
		tun.AutoRotateSpeed = ec.AutoRotateSpeed
	}
	if ec.FOV > 0 {
		tun.FOV = ec.FOV
	}
	if ec.MaxPolarDeg > 0 {
		tun.MaxPolarDeg = ec.MaxPolarDeg
	}
	if ec.Seed != 0 {
		tun.Seed = ec.Seed
	}
	return tun
}
