package memory

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
)

// Fetcher implements ports.Fetcher from a fixed set of documents.
// Unknown URLs fail like a 404 would.
type Fetcher struct {
	mu    sync.Mutex
	docs  map[string][]byte
	calls int
}

// NewFetcher creates a fetcher serving docs keyed by URL.
func NewFetcher(docs map[string][]byte) *Fetcher {
	if docs == nil {
		docs = map[string][]byte{}
	}
	return &Fetcher{docs: docs}
}

// Fetch returns the document registered for url.
func (f *Fetcher) Fetch(ctx context.Context, url string) (io.ReadCloser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	doc, ok := f.docs[url]
	if !ok {
		return nil, fmt.Errorf("GET %s: 404 Not Found", url)
	}
	return io.NopCloser(bytes.NewReader(doc)), nil
}

// Calls returns how many fetches were attempted.
func (f *Fetcher) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// Prober implements ports.ReadinessProber with a fixed answer.
type Prober struct {
	mu    sync.Mutex
	err   error
	calls []string
}

// NewProber creates a prober that returns err for every probe (nil means reachable).
func NewProber(err error) *Prober {
	return &Prober{err: err}
}

// Probe records uri and returns the configured answer.
func (p *Prober) Probe(ctx context.Context, uri string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, uri)
	return p.err
}

// Calls returns the probed URIs.
func (p *Prober) Calls() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.calls...)
}
