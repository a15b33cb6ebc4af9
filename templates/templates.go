// Package templates ships the default resume template, its stylesheet and the
// JSON schema used to validate stored resumes.
package templates

import (
	"embed"
	"io/fs"
	"os"
)

// FS holds resume.html, style.css and resume.schema.json.
//
//go:embed resume.html style.css resume.schema.json
var FS embed.FS

// Dir returns the template files to render with. An empty dir means the
// embedded copy; otherwise files are read from disk so the template can be
// edited without a rebuild.
func Dir(dir string) fs.FS {
	if dir == "" {
		return FS
	}
	return os.DirFS(dir)
}
