package usecase

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"strings"

	"resume-builder/internal/domain"
	"resume-builder/internal/model"
)

const (
	templateName   = "resume.html"
	stylesheetName = "style.css"
)

// TemplateRenderer fills the resume template with a document. The template
// and stylesheet are parsed once; Render is safe for concurrent use.
type TemplateRenderer struct {
	tpl    *template.Template
	styles template.CSS
}

type templateView struct {
	model.Resume
	Styles template.CSS
}

// NewTemplateRenderer parses resume.html from fsys. A style.css next to it is
// inlined into the document head so the HTML renders without external
// requests.
func NewTemplateRenderer(fsys fs.FS) (*TemplateRenderer, error) {
	funcs := template.FuncMap{
		"join": strings.Join,
	}
	tpl, err := template.New(templateName).Funcs(funcs).ParseFS(fsys, templateName)
	if err != nil {
		return nil, fmt.Errorf("parse resume template: %w", err)
	}

	r := &TemplateRenderer{tpl: tpl}
	if b, err := fs.ReadFile(fsys, stylesheetName); err == nil {
		r.styles = template.CSS(b)
	}
	return r, nil
}

// Render returns the HTML document for doc. User-supplied text is escaped by
// html/template.
func (r *TemplateRenderer) Render(doc model.Resume) (string, error) {
	var buf bytes.Buffer
	if err := r.tpl.Execute(&buf, templateView{Resume: doc, Styles: r.styles}); err != nil {
		return "", &domain.RenderError{Stage: "template", Err: err}
	}
	return buf.String(), nil
}
