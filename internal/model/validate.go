package model

import (
	"fmt"
	"strings"
	"sync"

	"resume-builder/templates"

	"github.com/xeipuuv/gojsonschema"
)

// ValidationError lists every problem found in a resume document.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "resume validation failed: " + strings.Join(e.Problems, "; ")
}

var (
	schemaOnce sync.Once
	schema     *gojsonschema.Schema
	schemaErr  error
)

func loadSchema() (*gojsonschema.Schema, error) {
	schemaOnce.Do(func() {
		b, err := templates.FS.ReadFile("resume.schema.json")
		if err != nil {
			schemaErr = fmt.Errorf("read resume schema: %w", err)
			return
		}
		schema, schemaErr = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(b))
	})
	return schema, schemaErr
}

// Validate checks r against the resume schema plus the rules the schema
// cannot express (whitespace-only required strings). It returns a
// *ValidationError when the document is invalid.
func Validate(r Resume) error {
	s, err := loadSchema()
	if err != nil {
		return err
	}

	res, err := s.Validate(gojsonschema.NewGoLoader(r))
	if err != nil {
		return err
	}

	var problems []string
	for _, e := range res.Errors() {
		problems = append(problems, e.String())
	}
	problems = append(problems, blankFields(r)...)

	if len(problems) == 0 {
		return nil
	}
	return &ValidationError{Problems: problems}
}

// blankFields reports required strings that contain only whitespace. Empty
// strings are already caught by the schema's minLength.
func blankFields(r Resume) []string {
	var out []string
	check := func(field, v string) {
		if v != "" && strings.TrimSpace(v) == "" {
			out = append(out, field+": must not be blank")
		}
	}

	check("profile.firstName", r.Profile.FirstName)
	check("profile.lastName", r.Profile.LastName)
	check("profile.jobTitle", r.Profile.JobTitle)
	for i, e := range r.Experiences {
		check(fmt.Sprintf("experiences.%d.company", i), e.Company)
		check(fmt.Sprintf("experiences.%d.position", i), e.Position)
	}
	for i, e := range r.Education {
		check(fmt.Sprintf("education.%d.institution", i), e.Institution)
		check(fmt.Sprintf("education.%d.degree", i), e.Degree)
		check(fmt.Sprintf("education.%d.fieldOfStudy", i), e.FieldOfStudy)
	}
	for i, s := range r.Skills {
		check(fmt.Sprintf("skills.%d.name", i), s.Name)
	}
	for i, p := range r.Projects {
		check(fmt.Sprintf("projects.%d.title", i), p.Title)
		check(fmt.Sprintf("projects.%d.description", i), p.Description)
	}
	for i, l := range r.Languages {
		check(fmt.Sprintf("languages.%d.language", i), l.Language)
	}
	return out
}
