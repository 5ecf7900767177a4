// Package loader reads a timing document from a local file or URL. Failures
// surface as user-visible errors and never touch previously loaded state;
// the player swaps documents atomically.
package loader

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/teamKimtaerin/ecg-player/timing"
)

const (
	DefaultTimeout  = 15 * time.Second
	DefaultMaxBytes = 10_000_000
)

// ErrTooLarge reports a document body over the fetch size limit.
var ErrTooLarge = errors.New("timing document too large")

var log = logrus.WithField("component", "loader")

// Load dispatches on the source: http(s) URLs are fetched, everything else
// is read as a file path.
func Load(ctx context.Context, source string) (*timing.Document, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return FromURL(ctx, source, DefaultTimeout, DefaultMaxBytes)
	}
	return FromFile(source)
}

// FromFile reads and parses a timing document from disk.
func FromFile(path string) (*timing.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read timing document: %w", err)
	}
	return Parse(data)
}

// FromURL fetches and parses a timing document over HTTP with a bounded
// body read.
func FromURL(ctx context.Context, rawURL string, timeout time.Duration, maxBytes int64) (*timing.Document, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	if _, err := url.ParseRequestURI(rawURL); err != nil {
		return nil, fmt.Errorf("fetch timing document: invalid url %q: %w", rawURL, err)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch timing document: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch timing document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("fetch timing document: %s: %s", resp.Status, string(body))
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("fetch timing document: read body: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return nil, ErrTooLarge
	}
	log.WithFields(logrus.Fields{"url": rawURL, "bytes": len(data)}).Info("fetched timing document")
	return Parse(data)
}

// Parse decodes, normalizes and validates a timing document.
func Parse(data []byte) (*timing.Document, error) {
	var doc timing.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse timing document: %w", err)
	}
	if err := doc.Normalize(); err != nil {
		return nil, fmt.Errorf("normalize timing document: %w", err)
	}
	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("invalid timing document: %w", err)
	}
	log.WithFields(logrus.Fields{
		"version":  doc.Version,
		"events":   len(doc.SyncEvents),
		"duration": doc.TotalDuration,
	}).Info("timing document loaded")
	return &doc, nil
}
