// Package exportcli writes the sample upload files to disk, either straight
// from the built-in datasets or by fetching them from a running service.
package exportcli

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/okian/compdash/internal/adapters/download"
	"github.com/okian/compdash/internal/domain/sample"
	"github.com/okian/compdash/pkg/logger"
)

// sampleLines is the header plus the two example rows.
const sampleLines = 3

// maxSampleBytes caps how much of a fetched response is read.
const maxSampleBytes = 1 << 20

// Exporter emits sample files into a directory.
type Exporter struct {
	registry *download.Registry
	saver    *download.DirSaver
	client   *http.Client
	log      logger.Logger
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithHTTPClient sets the client used by Fetch.
func WithHTTPClient(c *http.Client) Option {
	return func(e *Exporter) {
		if c != nil {
			e.client = c
		}
	}
}

// WithLogger sets the exporter logger.
func WithLogger(l logger.Logger) Option {
	return func(e *Exporter) {
		if l != nil {
			e.log = l
		}
	}
}

// WithTimeout sets the HTTP timeout used by Fetch.
func WithTimeout(d time.Duration) Option {
	return func(e *Exporter) {
		if d > 0 {
			e.client = &http.Client{Timeout: d}
		}
	}
}

// New returns an Exporter writing into dir.
func New(dir string, opts ...Option) *Exporter {
	e := &Exporter{
		registry: download.NewRegistry(),
		saver:    download.NewDirSaver(dir),
		client:   &http.Client{Timeout: 30 * time.Second},
		log:      logger.Discard(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Path returns where the file called name is written.
func (e *Exporter) Path(name string) string {
	return e.saver.Path(name)
}

// Write emits the built-in datasets. An empty only selects every dataset.
// It returns the written paths in dataset order.
func (e *Exporter) Write(ctx context.Context, only string) ([]string, error) {
	datasets, err := selectDatasets(only)
	if err != nil {
		return nil, err
	}

	written := make([]string, 0, len(datasets))
	for _, d := range datasets {
		if err := download.AsFile(ctx, e.registry, e.saver, d.Filename, d.CSV()); err != nil {
			return written, fmt.Errorf("write %s: %w", d.Name, err)
		}
		p := e.saver.Path(d.Filename)
		e.log.Info(ctx, "sample written", logger.String("dataset", d.Name), logger.String("path", p))
		written = append(written, p)
	}
	return written, nil
}

// Fetch downloads the datasets from a running service at baseURL, checks
// their shape against the expected columns, and saves them. An empty only
// selects every dataset.
func (e *Exporter) Fetch(ctx context.Context, baseURL, only string) ([]string, error) {
	datasets, err := selectDatasets(only)
	if err != nil {
		return nil, err
	}
	base, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("%w: invalid url %q", ErrFetch, baseURL)
	}

	written := make([]string, 0, len(datasets))
	for _, d := range datasets {
		u := *base
		u.Path = path.Join("/", base.Path, "samples", d.Name)

		name, body, err := e.get(ctx, u.String(), d.Filename)
		if err != nil {
			return written, err
		}
		if err := validate(d, body); err != nil {
			return written, err
		}
		if err := download.AsFile(ctx, e.registry, e.saver, name, body); err != nil {
			return written, fmt.Errorf("save %s: %w", d.Name, err)
		}
		p := e.saver.Path(name)
		e.log.Info(ctx, "sample fetched",
			logger.String("dataset", d.Name),
			logger.String("url", u.String()),
			logger.String("path", p),
		)
		written = append(written, p)
	}
	return written, nil
}

// get returns the attachment file name and body. The name falls back to
// fallback when the response carries no usable Content-Disposition.
func (e *Exporter) get(ctx context.Context, target, fallback string) (string, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		return "", "", fmt.Errorf("%w: %s: %w", ErrFetch, target, err)
	}
	resp, err := e.client.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("%w: %s: %w", ErrFetch, target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("%w: %s: status %d", ErrFetch, target, resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxSampleBytes))
	if err != nil {
		return "", "", fmt.Errorf("%w: %s: %w", ErrFetch, target, err)
	}

	name := fallback
	if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil && params["filename"] != "" {
		name = params["filename"]
	}
	return name, string(data), nil
}

// validate checks line count, header, and per-row arity.
func validate(d sample.Dataset, body string) error {
	lines := strings.Split(body, "\n")
	if len(lines) != sampleLines {
		return fmt.Errorf("%w: %s has %d lines, want %d", ErrMalformed, d.Name, len(lines), sampleLines)
	}
	if lines[0] != sample.Header(d.Columns) {
		return fmt.Errorf("%w: %s header %q", ErrMalformed, d.Name, lines[0])
	}
	want := len(d.Columns)
	for i, line := range lines[1:] {
		if got := len(strings.Split(line, ",")); got != want {
			return fmt.Errorf("%w: %s row %d has %d fields, want %d", ErrMalformed, d.Name, i+1, got, want)
		}
	}
	return nil
}

func selectDatasets(only string) ([]sample.Dataset, error) {
	if strings.TrimSpace(only) == "" {
		return sample.All(), nil
	}
	d, err := sample.Lookup(only)
	if err != nil {
		return nil, err
	}
	return []sample.Dataset{d}, nil
}
