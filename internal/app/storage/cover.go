package storage

import (
	"path/filepath"
	"strings"

	"buzzportal/internal/pkg/errs"
)

const (
	// MaxCoverSizeMB is the maximum allowed cover size in megabytes.
	MaxCoverSizeMB = 5

	// MaxCoverSize is the maximum allowed cover size in bytes.
	MaxCoverSize = MaxCoverSizeMB * 1024 * 1024
)

// extToMIME maps the accepted file extensions to their MIME types.
var extToMIME = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
	".gif":  "image/gif",
}

// Cover describes an uploaded cover file.
type Cover struct {
	Name     string
	MimeType string
	Size     int64
}

// Ext returns the lower-cased file extension.
func (c Cover) Ext() string {
	return strings.ToLower(filepath.Ext(c.Name))
}

// Validate checks the size and type of the cover.
// The extension must be an accepted image type and agree with the declared MIME type.
func (c Cover) Validate() *errs.CustomError {
	if c.Size <= 0 {
		return errs.NewError(errs.ErrInvalidParams)
	}
	if c.Size > MaxCoverSize {
		return errs.NewError(errs.ErrCoverTooLarge, MaxCoverSizeMB)
	}

	mimeType := strings.ToLower(c.MimeType)
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = strings.TrimSpace(mimeType[:i])
	}

	expected, ok := extToMIME[c.Ext()]
	if !ok || expected != mimeType {
		return errs.NewError(errs.ErrCoverTypeInvalid)
	}
	return nil
}
