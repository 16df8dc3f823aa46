// Package fetch opens DTD sources from local paths or HTTP(S) URLs,
// caching remote bodies on disk.
package fetch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/untillpro/goutils/logger"
)

var ErrUnexpectedStatus = errors.New("unexpected HTTP status")

type httpClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Opener resolves source locations. Remote bodies are cached in CacheDir
// when it is set.
type Opener struct {
	CacheDir string
	Client   httpClient
}

// NewOpener returns an Opener using the default HTTP client
func NewOpener(cacheDir string) *Opener {
	return &Opener{
		CacheDir: cacheDir,
		Client:   http.DefaultClient,
	}
}

// IsRemote reports whether location is an http or https URL
func IsRemote(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

// Open returns the content at location. The caller closes it.
func (o *Opener) Open(ctx context.Context, location string) (io.ReadCloser, error) {
	if !IsRemote(location) {
		f, err := os.Open(location)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", location, err)
		}
		return f, nil
	}

	if o.CacheDir == "" {
		return o.get(ctx, location)
	}

	cachePath := filepath.Join(o.CacheDir, cacheKey(location))
	if cached, err := os.Open(cachePath); err == nil {
		logger.Verbose(fmt.Sprintf("using cached %s", location))
		return cached, nil
	}

	body, err := o.get(ctx, location)
	if err != nil {
		return nil, err
	}
	defer func() { _ = body.Close() }()

	if err := store(cachePath, body); err != nil {
		return nil, fmt.Errorf("failed to cache %s: %w", location, err)
	}
	logger.Verbose(fmt.Sprintf("cached %s to %s", location, cachePath))

	return os.Open(cachePath)
}

func (o *Opener) get(ctx context.Context, location string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := o.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", location, err)
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("%w: %s returned %s", ErrUnexpectedStatus, location, resp.Status)
	}
	return resp.Body, nil
}

// store writes body next to path and renames it into place, so a failed
// download never leaves a partial cache entry.
func store(path string, body io.Reader) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	if _, err := io.Copy(tmp, body); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func cacheKey(url string) string {
	hash := sha256.Sum256([]byte(url))
	return hex.EncodeToString(hash[:])
}
