/*
Package req provides helper functions for HTTP request parsing.

It parses URL-encoded and multipart form submissions under explicit size limits and maps
parse failures to application error codes, so handlers only read already-validated values.
*/
package req

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strings"

	"buzzportal/internal/pkg/errs"
)

const (
	// MaxFormMemory is the memory ParseMultipartForm may use for fields and small files.
	// Larger file parts are spooled to temporary files.
	MaxFormMemory int64 = 8 << 20 // 8 MB

	// MaxMultipartSize caps a whole multipart body, cover file included.
	MaxMultipartSize int64 = 8 << 20 // 8 MB

	// MaxFormSize caps a URL-encoded form body.
	MaxFormSize int64 = 1 << 20 // 1 MB
)

// ParseForm parses a URL-encoded form body under MaxFormSize.
func ParseForm(w http.ResponseWriter, r *http.Request) *errs.CustomError {
	r.Body = http.MaxBytesReader(w, r.Body, MaxFormSize)

	if err := r.ParseForm(); err != nil {
		return parseError(err)
	}
	return nil
}

// SetupMultipart parses a multipart form under MaxMultipartSize.
// Plain URL-encoded bodies are accepted too, so the event form works without a cover field.
func SetupMultipart(w http.ResponseWriter, r *http.Request) *errs.CustomError {
	r.Body = http.MaxBytesReader(w, r.Body, MaxMultipartSize)

	err := r.ParseMultipartForm(MaxFormMemory)
	if errors.Is(err, http.ErrNotMultipart) {
		err = r.ParseForm()
	}
	if err != nil {
		return parseError(err)
	}
	return nil
}

func parseError(err error) *errs.CustomError {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large") {
		return errs.NewError(errs.ErrRequestEntityTooLarge)
	}
	return errs.NewError(errs.ErrFormParseFailed)
}

// Field returns the named form value with surrounding whitespace removed.
func Field(r *http.Request, name string) string {
	return strings.TrimSpace(r.FormValue(name))
}

// Checked reports whether a checkbox was ticked.
func Checked(r *http.Request, name string) bool {
	switch strings.ToLower(r.FormValue(name)) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}

// File returns the named file part of a parsed multipart form.
// ok is false when no file was chosen.
func File(r *http.Request, name string) (file multipart.File, header *multipart.FileHeader, ok bool) {
	if r.MultipartForm == nil {
		return nil, nil, false
	}
	headers := r.MultipartForm.File[name]
	if len(headers) == 0 || headers[0].Filename == "" || headers[0].Size == 0 {
		return nil, nil, false
	}

	f, err := headers[0].Open()
	if err != nil {
		return nil, nil, false
	}
	return f, headers[0], true
}
