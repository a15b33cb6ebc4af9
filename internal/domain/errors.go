package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound covers both missing records and records owned by another
	// user.
	ErrNotFound           = errors.New("not found")
	ErrAlreadyExists      = errors.New("already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")

	// ErrRender matches any *RenderError via errors.Is.
	ErrRender = errors.New("render failed")
)

// RenderError is returned when the template or the browser fails to produce
// output. Stage names the pipeline step that failed.
type RenderError struct {
	Stage string
	Err   error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render %s: %v", e.Stage, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

func (e *RenderError) Is(target error) bool { return target == ErrRender }
