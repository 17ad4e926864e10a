package download

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// File permission constants.
const (
	dirPermission  = 0o755
	filePermission = 0o644
)

// HTTPSaver emits blobs as browser attachments on a single response.
type HTTPSaver struct {
	w http.ResponseWriter
}

// NewHTTPSaver wraps w.
func NewHTTPSaver(w http.ResponseWriter) *HTTPSaver {
	return &HTTPSaver{w: w}
}

// Save writes the attachment headers and body. The browser decides what to
// do with the file; nothing is awaited after the body is written.
func (s *HTTPSaver) Save(_ context.Context, b Blob) error {
	name, err := cleanName(b.Name)
	if err != nil {
		return err
	}
	h := s.w.Header()
	h.Set("Content-Type", b.ContentType)
	h.Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	h.Set("Content-Length", strconv.Itoa(len(b.Data)))
	h.Set("Cache-Control", "no-store")
	s.w.WriteHeader(http.StatusOK)
	if _, err := s.w.Write(b.Data); err != nil {
		return fmt.Errorf("write attachment: %w", err)
	}
	return nil
}

// DirSaver emits blobs as files in a local directory.
type DirSaver struct {
	dir string
}

// NewDirSaver writes into dir, creating it on first use.
func NewDirSaver(dir string) *DirSaver {
	return &DirSaver{dir: dir}
}

// Path returns where a blob called name lands.
func (s *DirSaver) Path(name string) string {
	return filepath.Join(s.dir, filepath.Base(name))
}

// Save writes b through a temporary file renamed into place, so readers
// never see a partial file. The temporary file is removed on failure.
func (s *DirSaver) Save(ctx context.Context, b Blob) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("save %s: %w", b.Name, err)
	}
	name, err := cleanName(b.Name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, dirPermission); err != nil {
		return fmt.Errorf("create %s: %w", s.dir, err)
	}

	tmp, err := os.CreateTemp(s.dir, "."+name+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(b.Data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmpPath, err)
	}
	if err := os.Chmod(tmpPath, filePermission); err != nil {
		return fmt.Errorf("chmod %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, filepath.Join(s.dir, name)); err != nil {
		return fmt.Errorf("rename %s: %w", tmpPath, err)
	}
	committed = true
	return nil
}

// cleanName strips any directory part and rejects names that cannot be files.
func cleanName(name string) (string, error) {
	base := filepath.Base(strings.TrimSpace(name))
	switch base {
	case "", ".", "..", string(filepath.Separator):
		return "", fmt.Errorf("%q: %w", name, ErrInvalidName)
	}
	return base, nil
}
