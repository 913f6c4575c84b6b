// Package config provides XML-based configuration management for air-gapped deployment.
package config

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// AppConfig represents the root XML configuration structure
type AppConfig struct {
	XMLName xml.Name `xml:"PlantVisualizer"`

	// Server configuration
	Server ServerConfig `xml:"Server"`

	// Storage configuration
	Storage StorageConfig `xml:"Storage"`

	// Engine configuration
	Engine EngineConfig `xml:"Engine"`

	// Security configuration
	Security SecurityConfig `xml:"Security"`

	// Advanced options
	Advanced AdvancedConfig `xml:"Advanced"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Port         int    `xml:"Port"`
	BindAddress  string `xml:"BindAddress"`
	EnableCORS   bool   `xml:"EnableCORS"`
	AllowOrigins string `xml:"AllowOrigins"`
	ReadTimeout  int    `xml:"ReadTimeoutSeconds"`
	WriteTimeout int    `xml:"WriteTimeoutSeconds"`
	IdleTimeout  int    `xml:"IdleTimeoutSeconds"`
	BodyLimit    string `xml:"BodyLimit"`
}

// StorageConfig contains layout storage settings
type StorageConfig struct {
	DataDirectory    string `xml:"DataDirectory"`
	LayoutsDirectory string `xml:"LayoutsDirectory"`
	CatalogPath      string `xml:"CatalogPath"`
	PalettePath      string `xml:"PalettePath"`
	MaxLayoutSize    string `xml:"MaxLayoutSize"`
}

// EngineConfig contains render engine tuning. Zero values fall back to the
// engine defaults, so an empty section is valid.
type EngineConfig struct {
	TickRate         int     `xml:"TickRate"`
	MaxViews         int     `xml:"MaxViews"`
	ViewTimeoutMin   int     `xml:"ViewTimeoutMinutes"`
	CleanupMin       int     `xml:"CleanupIntervalMinutes"`
	ParticlesPerPipe int     `xml:"ParticlesPerPipe"`
	ParticleSpeed    float32 `xml:"ParticleSpeed"`
	AutoRotateSpeed  float32 `xml:"AutoRotateSpeedDegPerSec"`
	FOV              float32 `xml:"CameraFOV"`
	MaxPolarDeg      float32 `xml:"OrbitMaxPolarDeg"`
	Seed             int64   `xml:"RandomSeed"`
}

// SecurityConfig contains security settings
type SecurityConfig struct {
	AllowLayoutUpload   bool   `xml:"AllowLayoutUpload"`
	AllowLayoutDeletion bool   `xml:"AllowLayoutDeletion"`
	RequireAuth         bool   `xml:"RequireAuthentication"`
	AuthToken           string `xml:"AuthToken"`
}

// AdvancedConfig contains advanced/tuning options
type AdvancedConfig struct {
	LogLevel                string `xml:"LogLevel"`
	EnableRequestLogging    bool   `xml:"EnableRequestLogging"`
	WebSocketMaxMessageSize int    `xml:"WebSocketMaxMessageSizeKB"`
	SnapshotCompression     int    `xml:"SnapshotCompressionLevel"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:         8090,
			BindAddress:  "0.0.0.0",
			EnableCORS:   true,
			AllowOrigins: "*",
			ReadTimeout:  30,
			WriteTimeout: 30,
			IdleTimeout:  120,
			BodyLimit:    "8M",
		},
		Storage: StorageConfig{
			DataDirectory:    "./data",
			LayoutsDirectory: "./data/layouts",
			CatalogPath:      "./data/catalog.db",
			PalettePath:      "./data/palette.yaml",
			MaxLayoutSize:    "4M",
		},
		Engine: EngineConfig{
			TickRate:       30,
			MaxViews:       32,
			ViewTimeoutMin: 30,
			CleanupMin:     5,
		},
		Security: SecurityConfig{
			AllowLayoutUpload:   true,
			AllowLayoutDeletion: true,
			RequireAuth:         false,
			AuthToken:           "",
		},
		Advanced: AdvancedConfig{
			LogLevel:                "info",
			EnableRequestLogging:    true,
			WebSocketMaxMessageSize: 1024,
			SnapshotCompression:     3,
		},
	}
}

// LoadConfig loads configuration from XML file
func LoadConfig(configPath string) (*AppConfig, error) {
	// If file doesn't exist, create default
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		config := DefaultConfig()
		if err := config.Save(configPath); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
		return config, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := &AppConfig{}
	if err := xml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Apply environment variable overrides
	config.applyEnvironmentOverrides()

	// Resolve relative paths
	config.resolvePaths(filepath.Dir(configPath))

	return config, nil
}

// Save saves the configuration to XML file
func (c *AppConfig) Save(configPath string) error {
	output, err := xml.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(xml.Header + "\n<!-- Plant Visualizer Configuration -->\n<!-- This file is auto-generated on first run -->\n\n")
	content := append(header, output...)

	if err := os.WriteFile(configPath, content, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// applyEnvironmentOverrides allows environment variables to override config values
func (c *AppConfig) applyEnvironmentOverrides() {
	// PORT override
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Server.Port = p
		}
	}

	// DATA_DIR override
	if dataDir := os.Getenv("DATA_DIR"); dataDir != "" {
		c.Storage.DataDirectory = dataDir
	}

	// TICK_RATE override
	if rate := os.Getenv("TICK_RATE"); rate != "" {
		if r, err := strconv.Atoi(rate); err == nil {
			c.Engine.TickRate = r
		}
	}
}

// resolvePaths converts relative paths to absolute based on config file location
func (c *AppConfig) resolvePaths(configDir string) {
	if !filepath.IsAbs(c.Storage.DataDirectory) {
		c.Storage.DataDirectory = filepath.Join(configDir, c.Storage.DataDirectory)
	}
	if !filepath.IsAbs(c.Storage.LayoutsDirectory) {
		c.Storage.LayoutsDirectory = filepath.Join(configDir, c.Storage.LayoutsDirectory)
	}
	if !filepath.IsAbs(c.Storage.CatalogPath) {
		c.Storage.CatalogPath = filepath.Join(configDir, c.Storage.CatalogPath)
	}
	if !filepath.IsAbs(c.Storage.PalettePath) {
		c.Storage.PalettePath = filepath.Join(configDir, c.Storage.PalettePath)
	}
}

// GetDataDir returns the absolute data directory path
func (c *AppConfig) GetDataDir() string {
	return c.Storage.DataDirectory
}

// GetLayoutsDir returns the absolute layouts directory path
func (c *AppConfig) GetLayoutsDir() string {
	return c.Storage.LayoutsDirectory
}

// GetMaxLayoutSizeBytes parses the MaxLayoutSize setting ("4M", "512K",
// plain bytes). Returns 0 for unset or unparseable values, meaning no limit.
func (c *AppConfig) GetMaxLayoutSizeBytes() int64 {
	s := c.Storage.MaxLayoutSize
	if s == "" {
		return 0
	}
	mult := int64(1)
	switch s[len(s)-1] {
	case 'K', 'k':
		mult = 1 << 10
		s = s[:len(s)-1]
	case 'M', 'm':
		mult = 1 << 20
		s = s[:len(s)-1]
	case 'G', 'g':
		mult = 1 << 30
		s = s[:len(s)-1]
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n * mult
}

// GetServerAddr returns the server bind address
func (c *AppConfig) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.BindAddress, c.Server.Port)
}

// EnsureDirectories creates all necessary directories
func (c *AppConfig) EnsureDirectories() error {
	dirs := []string{
		c.Storage.DataDirectory,
		c.Storage.LayoutsDirectory,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}
