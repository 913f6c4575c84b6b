// Package web serves the embedded viewer page for air-gapped deployment.
// The viewer is a single page plus hashed asset bundles; there is no
// client-side router, so unknown paths get the shell rather than a 404.
package web

import (
	"embed"
	"io"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/labstack/echo/v4"
)

//go:embed dist/*
var viewerFiles embed.FS

func viewerFS() (fs.FS, error) {
	return fs.Sub(viewerFiles, "dist")
}

// HasEmbeddedFiles reports whether a built viewer was embedded. When the
// frontend was not built, the server runs API-only.
func HasEmbeddedFiles() bool {
	entries, err := viewerFiles.ReadDir("dist")
	if err != nil {
		return false
	}
	for _, entry := range entries {
		if entry.Name() == "index.html" {
			return true
		}
	}
	return false
}

// RegisterStaticRoutes mounts the viewer on every path the API does not
// claim. Register the API routes first.
func RegisterStaticRoutes(e *echo.Echo) error {
	root, err := viewerFS()
	if err != nil {
		return err
	}
	fileServer := http.FileServer(http.FS(root))

	e.GET("/*", func(c echo.Context) error {
		p := path.Clean(c.Request().URL.Path)

		// unmatched /api paths are API 404s, never the viewer shell
		if p == "/api" || strings.HasPrefix(p, "/api/") {
			return echo.NewHTTPError(http.StatusNotFound, "unknown API route")
		}

		name := strings.TrimPrefix(p, "/")
		if name == "" || name == "." {
			return serveShell(c, root)
		}

		file, err := root.Open(name)
		if err != nil {
			return serveShell(c, root)
		}
		stat, err := file.Stat()
		file.Close()
		if err != nil || stat.IsDir() {
			return serveShell(c, root)
		}

		// vite emits content-hashed bundles under assets/
		if strings.HasPrefix(name, "assets/") {
			c.Response().Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		}
		fileServer.ServeHTTP(c.Response(), c.Request())
		return nil
	})

	return nil
}

// serveShell writes the viewer page. It is never cached so a rebuilt
// frontend picks up new asset hashes on the next load.
func serveShell(c echo.Context, root fs.FS) error {
	file, err := root.Open("index.html")
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "viewer page not embedded")
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "reading viewer page")
	}
	c.Response().Header().Set("Cache-Control", "no-cache")
	return c.HTMLBlob(http.StatusOK, content)
}
