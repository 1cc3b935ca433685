package capture

import (
	"fmt"
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/yildizm/ColorSeason/internal/season"
)

// DefaultMaxFileSize is the largest accepted upload (5 MiB)
const DefaultMaxFileSize int64 = 5 * 1024 * 1024

// DefaultAllowedTypes lists the accepted upload MIME types
var DefaultAllowedTypes = []string{"image/jpeg", "image/jpg", "image/png"}

// Validator checks uploaded files before they are read
type Validator struct {
	MaxFileSize  int64
	AllowedTypes []string
}

// NewValidator creates a validator, filling in defaults for zero values
func NewValidator(maxFileSize int64, allowedTypes []string) *Validator {
	if maxFileSize <= 0 {
		maxFileSize = DefaultMaxFileSize
	}
	if len(allowedTypes) == 0 {
		allowedTypes = DefaultAllowedTypes
	}
	return &Validator{MaxFileSize: maxFileSize, AllowedTypes: allowedTypes}
}

// Validate checks type first, then size
func (v *Validator) Validate(path string) (string, error) {
	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return "", season.NewValidationError("file", path, season.MsgFileUnreadable)
	}
	if !v.allowed(mtype) {
		return "", season.NewValidationError("type", mtype.String(), season.MsgInvalidFileType)
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", season.NewValidationError("file", path, season.MsgFileUnreadable)
	}
	if info.Size() > v.MaxFileSize {
		return "", season.NewValidationError("size", fmt.Sprintf("%d", info.Size()), season.MsgFileTooLarge)
	}

	return baseMIME(mtype.String()), nil
}

// ReadUpload validates path and reads it into an EncodedImage. A file that
// passes the checks but does not decode is reported as unreadable.
func (v *Validator) ReadUpload(path string) (*EncodedImage, error) {
	mimeType, err := v.Validate(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, season.NewValidationError("file", path, season.MsgFileUnreadable)
	}

	img, err := NewEncodedImage(data, mimeType)
	if err != nil {
		return nil, season.NewValidationError("file", path, season.MsgFileUnreadable)
	}
	return img, nil
}

// ReadUpload validates and reads path with the default limits
func ReadUpload(path string) (*EncodedImage, error) {
	return NewValidator(0, nil).ReadUpload(path)
}

func (v *Validator) allowed(mtype *mimetype.MIME) bool {
	for _, allowed := range v.AllowedTypes {
		if mtype.Is(allowed) {
			return true
		}
		// image/jpg is not a registered type; treat it as image/jpeg
		if strings.EqualFold(allowed, "image/jpg") && mtype.Is(MIMETypeJPEG) {
			return true
		}
	}
	return false
}

func baseMIME(s string) string {
	if i := strings.IndexByte(s, ';'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return s
}
