package infrastructure

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/ledongthuc/pdf"
)

var pdfMagic = []byte("%PDF-")

// ErrNotPDF is returned when rendered output lacks the PDF header.
var ErrNotPDF = errors.New("output is not a PDF document")

// HasPDFHeader reports whether b starts with the %PDF- magic.
func HasPDFHeader(b []byte) bool {
	return bytes.HasPrefix(b, pdfMagic)
}

// CountPages parses b and returns its page count.
func CountPages(b []byte) (n int, err error) {
	if !HasPDFHeader(b) {
		return 0, ErrNotPDF
	}
	// the parser panics on some malformed cross-reference tables
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("parse pdf: %v", r)
		}
	}()

	rd, err := pdf.NewReader(bytes.NewReader(b), int64(len(b)))
	if err != nil {
		return 0, fmt.Errorf("parse pdf: %w", err)
	}
	return rd.NumPage(), nil
}
