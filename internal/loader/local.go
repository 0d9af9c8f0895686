package loader

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/goliatone/go-auditform/pkg/schema"
)

func (l *Loader) readFile(path string) ([]byte, error) {
	if path == "" {
		return nil, errors.New("file path is required")
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, notFound(err)
	}
	defer func() {
		_ = f.Close()
	}()
	return readLimited(f, l.maxBytes)
}

func (l *Loader) readFS(name string) ([]byte, error) {
	if name == "" {
		return nil, errors.New("fs path is required")
	}
	if l.files == nil {
		return nil, errors.New("no file system configured")
	}
	f, err := l.files.Open(name)
	if err != nil {
		return nil, notFound(err)
	}
	defer func() {
		_ = f.Close()
	}()
	return readLimited(f, l.maxBytes)
}

// notFound maps a missing path onto schema.ErrNotFound and keeps every other
// failure as is.
func notFound(err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return schema.ErrNotFound
	}
	return err
}

// readLimited reads at most limit bytes and fails on anything longer rather
// than decoding a truncated document.
func readLimited(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("document exceeds %d bytes", limit)
	}
	return data, nil
}
