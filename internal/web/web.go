// Package web serves the dashboard page and its browser assets.
package web

import (
	_ "embed"
	"net/http"

	"github.com/labstack/echo/v4"
)

//go:embed index.html
var indexHTML []byte

// Register serves the page at / and the compiled assets (dashboard.wasm,
// wasm_exec.js) from staticDir under /static.
func Register(e *echo.Echo, staticDir string) {
	e.GET("/", func(c echo.Context) error {
		return c.HTMLBlob(http.StatusOK, indexHTML)
	})
	e.Static("/static", staticDir)
}
