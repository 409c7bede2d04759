package loader

import "github.com/Carmen-Shannon/oxy-bloom/engine/model"

// loaderBackend decodes one model format. Sources are fetched by the loader; the backend sees
// only bytes plus a fetcher for resources the asset references.
type loaderBackend interface {
	// Decode turns asset bytes into a Model.
	//
	// Parameters:
	//   - data: the asset bytes
	//   - source: the path or URL the bytes came from, empty for in-memory data
	//   - fetch: resolves URIs relative to source, or nil
	//
	// Returns:
	//   - model.Model: the decoded model
	//   - error: error if decoding fails
	Decode(data []byte, source string, fetch uriFetcher) (model.Model, error)

	// Extensions lists the file extensions the backend accepts, lowercase with the dot.
	Extensions() []string
}
