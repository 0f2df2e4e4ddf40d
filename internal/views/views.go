// Package views holds the HTML templates, compiled into the binary.
package views

import (
	"embed"
	"fmt"
	"io/fs"
	"net/http"

	"github.com/gofiber/template/html/v2"
)

//go:embed templates
var templates embed.FS

// Layout is the template every page renders inside.
const Layout = "layouts/main"

// NewEngine returns a parsed view engine with funcs registered.
func NewEngine(funcs map[string]interface{}) (*html.Engine, error) {
	sub, err := fs.Sub(templates, "templates")
	if err != nil {
		return nil, fmt.Errorf("failed to open templates: %w", err)
	}

	engine := html.NewFileSystem(http.FS(sub), ".html")
	for name, fn := range funcs {
		engine.AddFunc(name, fn)
	}
	if err := engine.Load(); err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return engine, nil
}
