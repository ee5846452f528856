package test

import (
	"bufio"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

// LoadFile opens the file for reading. The file is closed when the test finishes.
func LoadFile(t *testing.T, path string) io.Reader {
	t.Helper()

	f, err := os.Open(path)
	require.NoErrorf(t, err, "failed to open file %s", path)
	t.Cleanup(func() {
		_ = f.Close()
	})

	return bufio.NewReader(f)
}

func FileContent(t *testing.T, path string) []byte {
	t.Helper()

	content, err := io.ReadAll(LoadFile(t, path))
	require.NoErrorf(t, err, "failed to read data from %s", path)

	return content
}

// NewTmpDirWithCleanup creates an image storage dir that is removed when the test finishes.
func NewTmpDirWithCleanup(t *testing.T) string {
	t.Helper()

	dir, err := os.MkdirTemp("", "ygo-images")
	require.NoError(t, err, "failed to create temp dir")

	t.Cleanup(func() {
		if err := os.RemoveAll(dir); err != nil {
			t.Errorf("failed to delete tmp dir %s %v", dir, err)
		}
	})

	return dir
}

// NewFileServer serves the files of dir until the test finishes.
func NewFileServer(t *testing.T, dir string) *httptest.Server {
	t.Helper()

	ts := httptest.NewServer(http.FileServer(http.Dir(dir)))
	t.Cleanup(ts.Close)

	return ts
}
