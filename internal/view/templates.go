package view

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/thelab/backoffice/internal/shared"
	"github.com/thelab/backoffice/web"
)

// Engine renders HTML templates.
type Engine struct {
	templates *template.Template
}

// NavItem is one entry of the side menu.
type NavItem struct {
	Label string
	Path  string
}

// Menu lists the screens reachable once signed in.
var Menu = []NavItem{
	{Label: "Início", Path: "/home"},
	{Label: "Produtos", Path: "/produtos"},
	{Label: "Promoções", Path: "/promocoes"},
	{Label: "Usuários", Path: "/usuarios"},
}

// TemplateData contains values shared across templates.
type TemplateData struct {
	Title       string
	CSRFToken   string
	Flash       *shared.FlashMessage
	CurrentPath string
	Operator    *shared.Operator
	Menu        []NavItem
	Data        any
}

// NewEngine parses the embedded templates.
func NewEngine() (*Engine, error) {
	funcMap := template.FuncMap{
		"formatDate": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.In(saoPaulo).Format("02/01/2006 15:04")
		},
		"money":   Money,
		"percent": Percent,
		"active": func(current, path string) bool {
			return current == path || strings.HasPrefix(current, path+"/")
		},
	}
	tpl, err := template.New("root").Funcs(funcMap).ParseFS(web.Templates, "templates/layouts/*.html", "templates/partials/*.html", "templates/pages/*.html")
	if err != nil {
		return nil, err
	}
	return &Engine{templates: tpl}, nil
}

// Render executes a named template with TemplateData and the given status.
// Output is buffered so a failing template never leaves half a page behind.
func (e *Engine) Render(w http.ResponseWriter, name string, data TemplateData, status int) error {
	if e == nil {
		return fmt.Errorf("template engine not initialised")
	}
	var buf bytes.Buffer
	if err := e.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
