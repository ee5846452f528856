package storage

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/konstantinfoerster/ygoprodeck-importer-go/internal/config"
	pkgerrors "github.com/pkg/errors"
)

// NewLocalStorage stores files on the local file system. With mode REPLACE existing files are
// overwritten, otherwise storing an existing file fails with os.ErrExist.
func NewLocalStorage(cfg config.Storage) (Storer, error) {
	location, err := filepath.Abs(cfg.Location)
	if err != nil {
		return nil, fmt.Errorf("invalid storage location %s %w", cfg.Location, err)
	}

	if err := os.MkdirAll(location, 0750); err != nil {
		return nil, fmt.Errorf("failed to create storage dir %s %w", location, err)
	}

	return &localStorage{
		location: location,
		mode:     cfg.Mode,
	}, nil
}

type localStorage struct {
	location string
	mode     string
}

// fromBasePath roots the joined path at the storage location, so ".." can never leave it.
func (s *localStorage) fromBasePath(path ...string) string {
	rooted := filepath.Clean(string(filepath.Separator) + filepath.Join(path...))

	return filepath.Join(s.location, rooted)
}

func (s *localStorage) Store(r io.Reader, path ...string) (_ StoredFile, err error) {
	filePath := s.fromBasePath(path...)

	if err := os.MkdirAll(filepath.Dir(filePath), 0750); err != nil {
		return StoredFile{}, fmt.Errorf("failed to create sub dirs for %s %w", filePath, err)
	}

	flags := os.O_RDWR | os.O_CREATE
	if s.mode == config.REPLACE {
		flags |= os.O_TRUNC // truncate existing file
	} else {
		flags |= os.O_EXCL // file must not exist
	}

	// #nosec G304 fromBasePath does already a path cleanup
	target, err := os.OpenFile(filePath, flags, 0600)
	if err != nil {
		return StoredFile{}, fmt.Errorf("failed to create empty file %s with mode %s %w", filePath, s.mode, err)
	}
	defer func(toClose *os.File) {
		cErr := toClose.Close()
		if cErr != nil {
			// report close errors
			if err == nil {
				err = cErr
			} else {
				err = pkgerrors.Wrap(err, cErr.Error())
			}
		}
	}(target)

	if _, err = io.Copy(target, r); err != nil {
		return StoredFile{}, fmt.Errorf("failed to copy file %w", err)
	}

	if err = target.Sync(); err != nil {
		return StoredFile{}, fmt.Errorf("failed to sync file %w", err)
	}

	return StoredFile{
		AbsolutePath: filePath,
		Path:         s.removeBasePath(filePath),
	}, nil
}

func (s *localStorage) removeBasePath(path string) string {
	rel, err := filepath.Rel(s.location, path)
	if err != nil {
		return path
	}

	return rel
}

func (s *localStorage) Load(path ...string) (io.ReadCloser, error) {
	filePath := s.fromBasePath(path...)

	info, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to get file info %s %w", filePath, err)
	}

	if info.IsDir() {
		return nil, fmt.Errorf("loading a directory is not supported")
	}

	// #nosec G304 fromBasePath does already a path cleanup
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s %w", filePath, err)
	}

	return file, nil
}

// Exists returns true if a regular file exists at the path.
func (s *localStorage) Exists(path ...string) (bool, error) {
	filePath := s.fromBasePath(path...)

	info, err := os.Stat(filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}

		return false, fmt.Errorf("failed to get file info %s %w", filePath, err)
	}

	return !info.IsDir(), nil
}
