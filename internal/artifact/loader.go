package artifact

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/sync/errgroup"
)

// Artifact file names inside a target directory.
const (
	ManifestFile   = "manifest.json"
	CatalogFile    = "catalog.json"
	RunResultsFile = "run_results.json"
)

// ErrNotFound is returned by a Source when the requested artifact does not exist.
var ErrNotFound = errors.New("artifact not found")

// Source opens artifacts by file name.
type Source interface {
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	String() string
}

// Artifacts is the gathered input of one compilation.
// RunResults is nil when the target has not been executed yet.
type Artifacts struct {
	Manifest   *Manifest
	Catalog    *Catalog
	RunResults *RunResults
}

// NewSource picks a Source for target: http(s) URLs are fetched remotely,
// anything else is treated as a local directory.
func NewSource(target string, opts HTTPOptions) Source {
	if strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://") {
		return NewHTTPSource(target, opts)
	}
	return DirSource{Dir: target}
}

// DirSource reads artifacts from a local target directory.
type DirSource struct {
	Dir string
}

// Open implements Source.
func (s DirSource) Open(_ context.Context, name string) (io.ReadCloser, error) {
	f, err := os.Open(filepath.Join(s.Dir, name)) //nolint:gosec // G304: target dir is user configured
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
		}
		return nil, err
	}
	return f, nil
}

func (s DirSource) String() string {
	return s.Dir
}

// HTTPOptions configures the remote artifact client.
type HTTPOptions struct {
	RetryMax int
	Timeout  time.Duration
	Logger   *slog.Logger
}

// HTTPSource fetches artifacts relative to a base URL.
type HTTPSource struct {
	BaseURL string
	client  *retryablehttp.Client
}

// NewHTTPSource creates an HTTPSource with a retrying client.
func NewHTTPSource(baseURL string, opts HTTPOptions) *HTTPSource {
	client := retryablehttp.NewClient()
	client.RetryMax = opts.RetryMax
	if opts.Timeout > 0 {
		client.HTTPClient.Timeout = opts.Timeout
	}
	// retryablehttp logs to stderr unless told otherwise.
	client.Logger = nil
	if opts.Logger != nil {
		client.Logger = opts.Logger
	}
	return &HTTPSource{BaseURL: baseURL, client: client}
}

// Open implements Source.
func (s *HTTPSource) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	u, err := url.Parse(s.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", s.BaseURL, err)
	}
	u.Path = path.Join(u.Path, name)

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		_ = resp.Body.Close()
		return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		_ = resp.Body.Close()
		return nil, fmt.Errorf("GET %s: unexpected status %s", u, resp.Status)
	}
	return resp.Body, nil
}

func (s *HTTPSource) String() string {
	return s.BaseURL
}

// Load fetches the three artifacts concurrently and returns once all of them
// have finished. Manifest and catalog are required; a missing run results
// artifact leaves Artifacts.RunResults nil.
func Load(ctx context.Context, src Source, logger *slog.Logger) (*Artifacts, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	var out Artifacts
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		m, err := fetch(gctx, src, ManifestFile, DecodeManifest)
		if err != nil {
			return err
		}
		out.Manifest = m
		return nil
	})

	g.Go(func() error {
		c, err := fetch(gctx, src, CatalogFile, DecodeCatalog)
		if err != nil {
			return err
		}
		out.Catalog = c
		return nil
	})

	g.Go(func() error {
		rr, err := fetch(gctx, src, RunResultsFile, DecodeRunResults)
		if errors.Is(err, ErrNotFound) {
			logger.Debug("run results not found, skipping overlay", slog.String("source", src.String()))
			return nil
		}
		if err != nil {
			return err
		}
		out.RunResults = rr
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	logger.Debug("artifacts loaded",
		slog.String("source", src.String()),
		slog.Int("nodes", out.Manifest.Nodes.Len()),
		slog.Int("catalog_entries", out.Catalog.Nodes.Len()),
		slog.Bool("run_results", out.RunResults != nil),
	)
	return &out, nil
}

func fetch[T any](ctx context.Context, src Source, name string, decode func(io.Reader) (T, error)) (T, error) {
	var zero T
	rc, err := src.Open(ctx, name)
	if err != nil {
		return zero, fmt.Errorf("failed to load %s: %w", name, err)
	}
	defer func() { _ = rc.Close() }()

	v, err := decode(rc)
	if err != nil {
		return zero, fmt.Errorf("failed to load %s: %w", name, err)
	}
	return v, nil
}
