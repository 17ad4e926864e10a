package download

import (
	"context"
	"fmt"
)

// CSVContentType is the MIME type attached to every CSV blob.
const CSVContentType = "text/csv;charset=utf-8;"

// Saver emits a blob to the user on one platform.
type Saver interface {
	Save(ctx context.Context, b Blob) error
}

// SaverFunc adapts a function to Saver.
type SaverFunc func(ctx context.Context, b Blob) error

// Save calls f.
func (f SaverFunc) Save(ctx context.Context, b Blob) error { return f(ctx, b) }

// AsFile emits content as a CSV file called filename. The blob is registered
// under a fresh reference, emitted once, and the reference is revoked before
// AsFile returns whatever the saver reported. A nil registry or saver is a
// programming error and panics.
func AsFile(ctx context.Context, reg *Registry, s Saver, filename, content string) error {
	if reg == nil {
		panic("download: nil registry")
	}
	if s == nil {
		panic("download: nil saver")
	}

	ref := reg.Create(Blob{
		Name:        filename,
		ContentType: CSVContentType,
		Data:        []byte(content),
	})
	defer reg.Revoke(ref)

	b, err := reg.Open(ref)
	if err != nil {
		return err
	}
	if err := s.Save(ctx, b); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrEmit, filename, err)
	}
	return nil
}
