package storage

import (
	"io"
)

// Storer Persists files below a base location. Paths are joined and must stay inside that location.
type Storer interface {
	Store(in io.Reader, path ...string) (StoredFile, error)
	Load(path ...string) (io.ReadCloser, error)
	Exists(path ...string) (bool, error)
}

type StoredFile struct {
	Path         string
	AbsolutePath string
}
