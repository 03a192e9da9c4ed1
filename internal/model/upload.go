package model

import (
	"path/filepath"
	"strings"
)

// Upload is a submitted file. It is read once by the pipeline and never
// modified.
type Upload struct {
	Name string // declared filename, may be empty
	Hint string // extension hint without the dot; derived from Name when empty
	Data []byte
}

// NewUpload returns an Upload whose hint is taken from the filename extension.
func NewUpload(name string, data []byte) Upload {
	return Upload{Name: name, Data: data}
}

// ExtHint returns the lower-cased extension hint, e.g. "xlsx", or "" when
// unknown.
func (u Upload) ExtHint() string {
	h := u.Hint
	if h == "" {
		h = filepath.Ext(u.Name)
	}
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(h), "."))
}
