// Package download emits named byte content to the user. The platform part
// (browser attachment, local directory) sits behind Saver; the transient
// reference lifecycle lives in Registry.
package download

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/okian/compdash/pkg/metrics"
)

const refPrefix = "blob:"

// Blob is named content with a MIME type.
type Blob struct {
	Name        string
	ContentType string
	Data        []byte
}

// Option applies a configuration option to the Registry.
type Option func(*Registry)

// WithIDGenerator replaces the UUID source used for references.
func WithIDGenerator(gen func() string) Option {
	return func(r *Registry) {
		if gen != nil {
			r.newID = gen
		}
	}
}

// Registry hands out temporary references to blobs. A reference stays
// resolvable until it is revoked; revoking twice is a no-op.
type Registry struct {
	mu    sync.Mutex
	blobs map[string]Blob
	newID func() string

	created atomic.Int64
	revoked atomic.Int64
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		blobs: make(map[string]Blob),
		newID: func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Create registers b and returns a fresh reference to it.
func (r *Registry) Create(b Blob) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	ref := refPrefix + r.newID()
	if _, taken := r.blobs[ref]; taken {
		// a custom generator repeated itself
		ref = refPrefix + uuid.NewString()
	}
	r.blobs[ref] = b
	r.created.Add(1)
	metrics.RecordDownloadRefCreated()
	metrics.UpdateDownloadRefsLive(len(r.blobs))
	return ref
}

// Open resolves ref.
func (r *Registry) Open(ref string) (Blob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.blobs[ref]
	if !ok {
		return Blob{}, fmt.Errorf("%s: %w", ref, ErrUnknownRef)
	}
	return b, nil
}

// Revoke releases ref and reports whether this call released it.
func (r *Registry) Revoke(ref string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.blobs[ref]; !ok {
		return false
	}
	delete(r.blobs, ref)
	r.revoked.Add(1)
	metrics.RecordDownloadRefRevoked()
	metrics.UpdateDownloadRefsLive(len(r.blobs))
	return true
}

// Live returns the number of unrevoked references.
func (r *Registry) Live() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.blobs)
}

// Stats is a snapshot of registry counters.
type Stats struct {
	Created int64 `json:"created"`
	Revoked int64 `json:"revoked"`
	Live    int   `json:"live"`
}

// Stats returns the current counters.
func (r *Registry) Stats() Stats {
	return Stats{
		Created: r.created.Load(),
		Revoked: r.revoked.Load(),
		Live:    r.Live(),
	}
}
