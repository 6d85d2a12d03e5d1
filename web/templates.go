package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/listkeep/backend/domain"
)

//go:embed templates/*.html
var files embed.FS

// Page names understood by Renderer.Render.
const (
	PageLanding   = "landing"
	PageTasks     = "tasks"
	PageCompleted = "completed"
	PageRegister  = "register"
	PageLogin     = "login"
	PageEdit      = "edit"
	PageError     = "error"
)

// Data carries everything a template can reference. Unused fields stay zero.
type Data struct {
	User    *domain.User
	Flash   string
	Tasks   []domain.Task
	Task    *domain.Task
	Status  int
	Message string
}

// Renderer holds the parsed template set for every page. Each page is parsed
// together with the base layout so pages can override its content block.
type Renderer struct {
	pages map[string]*template.Template
}

func NewRenderer() (*Renderer, error) {
	names := []string{
		PageLanding,
		PageTasks,
		PageCompleted,
		PageRegister,
		PageLogin,
		PageEdit,
		PageError,
	}

	pages := make(map[string]*template.Template, len(names))
	for _, name := range names {
		tmpl, err := template.ParseFS(files, "templates/base.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse page %s: %w", name, err)
		}
		pages[name] = tmpl
	}

	return &Renderer{pages: pages}, nil
}

func (r *Renderer) Render(w io.Writer, page string, data Data) error {
	tmpl, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}
	return tmpl.ExecuteTemplate(w, "base", data)
}
