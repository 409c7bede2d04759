package loader

import (
	"net/http"

	"github.com/Carmen-Shannon/oxy-bloom/engine/model"
)

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithDecompressor registers a Decompressor for a glTF primitive extension, such as
// ExtensionDraco. Assets requiring an extension with no decompressor fail with
// ErrUnsupportedExtension.
//
// Parameters:
//   - extension: the glTF extension name
//   - d: the decompressor
//
// Returns:
//   - LoaderBuilderOption: option function to apply
func WithDecompressor(extension string, d Decompressor) LoaderBuilderOption {
	return func(l *loader) {
		l.decompressors[extension] = d
	}
}

// WithHTTPClient sets the client used for http(s) sources.
func WithHTTPClient(c *http.Client) LoaderBuilderOption {
	return func(l *loader) {
		if c != nil {
			l.client = c
		}
	}
}

// WithOnProgress sets a callback receiving load progress in tenths. It runs on the loading
// goroutine.
//
// Parameters:
//   - fn: receives the source and the fraction loaded
//
// Returns:
//   - LoaderBuilderOption: option function to apply
func WithOnProgress(fn func(source string, fraction float32)) LoaderBuilderOption {
	return func(l *loader) {
		l.onProgress = fn
	}
}

// WithOnLoad sets the callback Drain runs for each successful load.
func WithOnLoad(fn func(r Result)) LoaderBuilderOption {
	return func(l *loader) {
		l.onLoad = fn
	}
}

// WithOnError sets the callback Drain runs for each failed load.
func WithOnError(fn func(r Result)) LoaderBuilderOption {
	return func(l *loader) {
		l.onError = fn
	}
}

// WithModel pre-populates the model cache.
//
// Parameters:
//   - key: the cache key for the model
//   - m: the model to cache
//
// Returns:
//   - LoaderBuilderOption: option function to apply
func WithModel(key string, m model.Model) LoaderBuilderOption {
	return func(l *loader) {
		l.modelCache[key] = m
	}
}
