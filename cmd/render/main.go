// Command render turns a resume JSON document into HTML or PDF without the
// API or a database.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"resume-builder/internal/model"
	"resume-builder/internal/usecase"
	infra "resume-builder/pkg/infrastructure"
	"resume-builder/templates"
)

func main() {
	in := flag.String("in", "resume.json", "resume document (the data object)")
	out := flag.String("out", "resume.pdf", "output file")
	format := flag.String("format", "pdf", "pdf or html")
	engine := flag.String("engine", infra.EngineChromedp, "chromedp or playwright")
	execPath := flag.String("chrome", os.Getenv("CHROME_PATH"), "browser executable")
	tplDir := flag.String("templates", "", "template directory (embedded when empty)")
	timeout := flag.Duration("timeout", 60*time.Second, "render timeout")
	flag.Parse()

	b, err := os.ReadFile(*in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read resume: %v\n", err)
		os.Exit(2)
	}
	var doc model.Resume
	if err := json.Unmarshal(b, &doc); err != nil {
		fmt.Fprintf(os.Stderr, "unmarshal: %v\n", err)
		os.Exit(2)
	}
	if err := model.Validate(doc); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(2)
	}

	tpl, err := usecase.NewTemplateRenderer(templates.Dir(*tplDir))
	if err != nil {
		fmt.Fprintf(os.Stderr, "load template: %v\n", err)
		os.Exit(2)
	}

	var data []byte
	switch *format {
	case "html":
		html, err := tpl.Render(doc)
		if err != nil {
			fmt.Fprintf(os.Stderr, "render: %v\n", err)
			os.Exit(1)
		}
		data = []byte(html)
	case "pdf":
		pdf, err := infra.NewRenderer(*engine, infra.RenderOptions{ExecPath: *execPath, Timeout: *timeout, MaxConcurrent: 1})
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(2)
		}
		data, err = usecase.NewExporter(nil, tpl, pdf).RenderPDF(context.Background(), doc)
		if c, ok := pdf.(io.Closer); ok {
			_ = c.Close()
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "render: %v\n", err)
			os.Exit(1)
		}
	default:
		fmt.Fprintf(os.Stderr, "unknown format %q\n", *format)
		os.Exit(2)
	}

	if err := os.WriteFile(*out, data, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "write output: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("wrote %s (%d bytes)\n", *out, len(data))
}
