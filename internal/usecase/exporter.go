package usecase

import (
	"context"
	"fmt"
	"time"

	"resume-builder/internal/domain"
	"resume-builder/internal/model"
	"resume-builder/pkg/infrastructure"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	ContentTypePDF  = "application/pdf"
	ContentTypeHTML = "text/html; charset=utf-8"
)

// Export is a rendered resume ready to be written to a response.
type Export struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Exporter runs the export pipeline: fetch, template, browser.
type Exporter struct {
	resumes ResumeRepo
	html    *TemplateRenderer
	pdf     Renderer
}

func NewExporter(resumes ResumeRepo, html *TemplateRenderer, pdf Renderer) *Exporter {
	return &Exporter{resumes: resumes, html: html, pdf: pdf}
}

// ExportPDF renders the caller's resume id as an A4 PDF. A resume that does
// not exist and one owned by another user both return domain.ErrNotFound.
func (e *Exporter) ExportPDF(ctx context.Context, id, owner uuid.UUID) (*Export, error) {
	r, err := e.resumes.FindByID(ctx, id, owner)
	if err != nil {
		return nil, err
	}

	out, err := e.RenderPDF(ctx, r.Data)
	if err != nil {
		log.Error().Err(err).Str("resume_id", id.String()).Msg("export: pdf failed")
		return nil, err
	}

	return &Export{
		Filename:    fmt.Sprintf("resume-%s.pdf", id),
		ContentType: ContentTypePDF,
		Data:        out,
	}, nil
}

// ExportHTML returns the document the PDF would be printed from.
func (e *Exporter) ExportHTML(ctx context.Context, id, owner uuid.UUID) (*Export, error) {
	r, err := e.resumes.FindByID(ctx, id, owner)
	if err != nil {
		return nil, err
	}
	html, err := e.html.Render(r.Data)
	if err != nil {
		return nil, err
	}
	return &Export{
		Filename:    fmt.Sprintf("resume-%s.html", id),
		ContentType: ContentTypeHTML,
		Data:        []byte(html),
	}, nil
}

// RenderPDF renders a document that is not necessarily stored.
func (e *Exporter) RenderPDF(ctx context.Context, doc model.Resume) ([]byte, error) {
	started := time.Now()

	html, err := e.html.Render(doc)
	if err != nil {
		return nil, err
	}
	log.Debug().Dur("took", time.Since(started)).Int("html_bytes", len(html)).Msg("export: template rendered")

	out, err := e.pdf.RenderHTMLToPDF(ctx, html)
	if err != nil {
		return nil, err
	}

	if !infrastructure.HasPDFHeader(out) {
		return nil, &domain.RenderError{Stage: "verify", Err: infrastructure.ErrNotPDF}
	}
	if n, err := infrastructure.CountPages(out); err != nil {
		log.Warn().Err(err).Msg("export: could not count pdf pages")
	} else {
		log.Debug().Int("pages", n).Int("bytes", len(out)).Dur("took", time.Since(started)).Msg("export: pdf ready")
	}
	return out, nil
}
