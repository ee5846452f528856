package web

import (
	"fmt"
	"strings"
)

const (
	MimeTypeJSON     = "application/json"
	MimeTypeJpeg     = "image/jpeg"
	MimeTypePng      = "image/png"
	MimeTypeWebp     = "image/webp"
	HeaderAccept     = "Accept"
	HeaderUserAgent  = "User-Agent"
	DefaultUserAgent = "YgoprodeckImporter/0.1"
)

var extensions = map[string]string{
	MimeTypeJSON: ".json",
	MimeTypeJpeg: ".jpg",
	MimeTypePng:  ".png",
	MimeTypeWebp: ".webp",
}

// MimeType The media type of a content-type header without its parameters.
type MimeType struct {
	value string
}

// NewMimeType creates a MimeType from the given content-type.
func NewMimeType(contentType string) MimeType {
	ct, _, _ := strings.Cut(contentType, ";")

	return MimeType{value: strings.ToLower(strings.TrimSpace(ct))}
}

// Extension returns the file extension including the dot, false for unsupported mime-types.
func (m MimeType) Extension() (string, bool) {
	ext, ok := extensions[m.value]

	return ext, ok
}

// BuildFilename appends the file extension to the given name.
// An error is returned for unsupported mime-types or empty names.
func (m MimeType) BuildFilename(name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("can't build file name without prefix")
	}

	ext, ok := m.Extension()
	if !ok {
		return "", fmt.Errorf("unsupported mime type %s", m.value)
	}

	return name + ext, nil
}

func (m MimeType) IsJSON() bool {
	return m.value == MimeTypeJSON
}

// IsImage returns true for all image mime-types.
func (m MimeType) IsImage() bool {
	return strings.HasPrefix(m.value, "image/")
}

// Raw returns the extracted mime-type.
func (m MimeType) Raw() string {
	return m.value
}
