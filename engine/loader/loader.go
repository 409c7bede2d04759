// Package loader fetches and decodes models. Loads run on their own goroutine and finish by
// posting a Result; the render loop drains results between ticks, so terminal callbacks run on
// the render goroutine.
package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-bloom/engine/model"
)

// LoaderBackendType identifies the model file format backend to use.
type LoaderBackendType int

const (
	// BackendTypeGLTF selects the glTF/GLB loader backend.
	BackendTypeGLTF LoaderBackendType = iota
)

var (
	// ErrClosed is returned by Load after Close.
	ErrClosed = errors.New("loader closed")

	// ErrUnsupportedFormat is returned for a source whose extension no backend accepts.
	ErrUnsupportedFormat = errors.New("unsupported model format")

	// ErrPanic wraps a panic recovered while decoding.
	ErrPanic = errors.New("panic while loading")
)

// Result is the outcome of one asynchronous load. Exactly one of Model and Err is set.
type Result struct {
	Source string
	Model  model.Model
	Err    error
}

// loader is the implementation of the Loader interface.
type loader struct {
	mu *sync.RWMutex

	backend       loaderBackend
	decompressors map[string]Decompressor
	client        *http.Client

	modelCache map[string]model.Model

	results chan Result
	done    chan struct{}
	wg      sync.WaitGroup
	closed  bool

	onProgress func(source string, fraction float32)
	onLoad     func(r Result)
	onError    func(r Result)
}

// Loader fetches models from disk or http(s) and caches them by source.
type Loader interface {
	// Load starts loading source on a new goroutine. The outcome is posted as a Result, which
	// Drain delivers to the terminal callbacks. A cached source completes immediately.
	//
	// Parameters:
	//   - ctx: cancels the fetch
	//   - source: a file path or http(s) URL
	//
	// Returns:
	//   - error: ErrClosed after Close
	Load(ctx context.Context, source string) error

	// LoadSync loads source on the calling goroutine, bypassing the result queue.
	//
	// Parameters:
	//   - ctx: cancels the fetch
	//   - source: a file path or http(s) URL
	//
	// Returns:
	//   - model.Model: the model
	//   - error: error if fetching or decoding fails
	LoadSync(ctx context.Context, source string) (model.Model, error)

	// Decode decodes in-memory asset bytes and caches the model under name.
	//
	// Parameters:
	//   - name: the cache key and model source
	//   - data: glTF JSON or GLB bytes; external buffers are not resolved
	//
	// Returns:
	//   - model.Model: the model
	//   - error: error if decoding fails
	Decode(name string, data []byte) (model.Model, error)

	// Results returns the channel finished loads are posted to.
	Results() <-chan Result

	// Drain delivers every finished load to the load or error callback without blocking.
	//
	// Returns:
	//   - int: the number of results delivered
	Drain() int

	// Get retrieves a cached model by source. Returns nil if not found.
	Get(source string) model.Model

	// Models returns a copy of the model cache.
	Models() map[string]model.Model

	// Close rejects new loads and waits for running ones. A load finishing after Close drops
	// its result.
	Close()
}

var _ Loader = &loader{}

// NewLoader creates a Loader for the given backend.
//
// Parameters:
//   - backendType: the type of loader backend to use (e.g., BackendTypeGLTF)
//   - options: functional options to configure the loader
//
// Returns:
//   - Loader: the newly created loader
func NewLoader(backendType LoaderBackendType, options ...LoaderBuilderOption) Loader {
	l := &loader{
		mu:            &sync.RWMutex{},
		decompressors: make(map[string]Decompressor),
		client:        &http.Client{Timeout: 60 * time.Second},
		modelCache:    make(map[string]model.Model),
		results:       make(chan Result, 8),
		done:          make(chan struct{}),
	}
	for _, option := range options {
		option(l)
	}

	switch backendType {
	case BackendTypeGLTF:
		l.backend = newGLTFLoaderBackend(l.decompressors)
	}
	return l
}

func (l *loader) Load(ctx context.Context, source string) error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return ErrClosed
	}
	l.wg.Add(1)
	l.mu.Unlock()

	go func() {
		defer l.wg.Done()
		m, err := l.LoadSync(ctx, source)
		r := Result{Source: source, Model: m, Err: err}
		select {
		case l.results <- r:
		case <-l.done:
		}
	}()
	return nil
}

func (l *loader) LoadSync(ctx context.Context, source string) (m model.Model, err error) {
	if cached := l.Get(source); cached != nil {
		return cached, nil
	}
	defer func() {
		if err != nil {
			log.Printf("[Loader] %s: %v", source, err)
		}
	}()

	if !slices.Contains(l.backend.Extensions(), sourceExt(source)) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, source)
	}

	rc, size, err := openSource(ctx, l.client, source)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", source, err)
	}
	defer rc.Close()

	pr := &progressReader{r: rc, total: size, report: func(f float32) { l.progress(source, f) }}
	data, err := io.ReadAll(pr)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", source, err)
	}
	pr.finish()

	m, err = l.decode(data, source, relativeFetcher(ctx, l.client, source))
	if err != nil {
		return nil, err
	}
	l.store(source, m)
	return m, nil
}

func (l *loader) Decode(name string, data []byte) (model.Model, error) {
	m, err := l.decode(data, name, nil)
	if err != nil {
		log.Printf("[Loader] %s: %v", name, err)
		return nil, err
	}
	l.store(name, m)
	return m, nil
}

// decode runs the backend and turns a panic in it into an error.
func (l *loader) decode(data []byte, source string, fetch uriFetcher) (m model.Model, err error) {
	defer func() {
		if r := recover(); r != nil {
			m, err = nil, fmt.Errorf("%w %s: %v", ErrPanic, source, r)
		}
	}()
	return l.backend.Decode(data, source, fetch)
}

func (l *loader) progress(source string, fraction float32) {
	log.Printf("[Loader] %s: %.0f%% loaded", source, fraction*100)
	if l.onProgress != nil {
		l.onProgress(source, fraction)
	}
}

func (l *loader) store(source string, m model.Model) {
	l.mu.Lock()
	l.modelCache[source] = m
	l.mu.Unlock()
}

func (l *loader) Results() <-chan Result {
	return l.results
}

func (l *loader) Drain() int {
	n := 0
	for {
		select {
		case r := <-l.results:
			n++
			if r.Err != nil {
				if l.onError != nil {
					l.onError(r)
				}
			} else if l.onLoad != nil {
				l.onLoad(r)
			}
		default:
			return n
		}
	}
}

func (l *loader) Get(source string) model.Model {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.modelCache[source]
}

func (l *loader) Models() map[string]model.Model {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := make(map[string]model.Model, len(l.modelCache))
	for k, v := range l.modelCache {
		result[k] = v
	}
	return result
}

func (l *loader) Close() {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.closed = true
	close(l.done)
	l.mu.Unlock()

	l.wg.Wait()
}
