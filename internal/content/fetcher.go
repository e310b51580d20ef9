package content

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

const (
	fetchTimeout = 30 * time.Second

	// MaxAttachmentBytes is the max accepted attachment payload size.
	MaxAttachmentBytes int64 = 25 * 1024 * 1024
)

// ErrAttachmentTooLarge is returned when a payload exceeds MaxAttachmentBytes.
var ErrAttachmentTooLarge = errors.New("attachment too large")

// Fetcher downloads attachment payloads over a shared HTTP client. The
// client is created lazily on first use and released once at shutdown.
type Fetcher struct {
	mu     sync.Mutex
	client *http.Client
	closed bool
}

func NewFetcher() *Fetcher {
	return &Fetcher{}
}

func (f *Fetcher) httpClient() *http.Client {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.client == nil {
		f.client = &http.Client{Timeout: fetchTimeout}
	}
	return f.client
}

// Fetch downloads the payload at url. Non-200 responses are errors.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := f.httpClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: HTTP %d", url, resp.StatusCode)
	}

	data, err := readAllWithLimit(resp.Body, MaxAttachmentBytes)
	if err != nil {
		return nil, fmt.Errorf("read body of %s: %w", url, err)
	}
	return data, nil
}

// readAllWithLimit reads from reader and rejects payloads larger than
// maxBytes.
func readAllWithLimit(reader io.Reader, maxBytes int64) ([]byte, error) {
	limited := &io.LimitedReader{
		R: reader,
		N: maxBytes + 1,
	}
	data, err := io.ReadAll(limited)
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("%w: max %d bytes", ErrAttachmentTooLarge, maxBytes)
	}
	return data, nil
}

// Close releases the pooled connections. Safe to call more than once.
func (f *Fetcher) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.closed = true
	if f.client != nil {
		f.client.CloseIdleConnections()
	}
}
