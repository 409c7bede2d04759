package loader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// isRemote reports whether source is an http or https URL.
func isRemote(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// sourceExt returns the lowercase extension of a path or URL path.
func sourceExt(source string) string {
	if isRemote(source) {
		if u, err := url.Parse(source); err == nil {
			return strings.ToLower(path.Ext(u.Path))
		}
	}
	return strings.ToLower(filepath.Ext(source))
}

// openSource opens a file or URL. size is -1 when the length is unknown.
func openSource(ctx context.Context, client *http.Client, source string) (rc io.ReadCloser, size int64, err error) {
	if !isRemote(source) {
		f, err := os.Open(source)
		if err != nil {
			return nil, 0, err
		}
		size = -1
		if info, err := f.Stat(); err == nil {
			size = info.Size()
		}
		return f, size, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, 0, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, 0, fmt.Errorf("GET %s: %s", source, resp.Status)
	}
	return resp.Body, resp.ContentLength, nil
}

// relativeFetcher resolves URIs the asset references against the asset's own location.
func relativeFetcher(ctx context.Context, client *http.Client, source string) uriFetcher {
	return func(uri string) ([]byte, error) {
		var target string
		if isRemote(source) {
			base, err := url.Parse(source)
			if err != nil {
				return nil, err
			}
			ref, err := url.Parse(uri)
			if err != nil {
				return nil, err
			}
			target = base.ResolveReference(ref).String()
		} else {
			unescaped, err := url.PathUnescape(uri)
			if err != nil {
				unescaped = uri
			}
			target = filepath.Join(filepath.Dir(source), filepath.FromSlash(unescaped))
		}

		rc, _, err := openSource(ctx, client, target)
		if err != nil {
			return nil, fmt.Errorf("failed to load %q: %w", uri, err)
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}
}

// progressReader reports the fraction of total bytes read in tenths.
type progressReader struct {
	r      io.Reader
	total  int64
	read   int64
	step   int
	report func(fraction float32)
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	p.read += int64(n)
	if p.total > 0 {
		if step := int(p.read * 10 / p.total); step > p.step {
			p.step = min(step, 10)
			p.report(float32(p.step) / 10)
		}
	}
	return n, err
}

// finish reports completion when the stream ended without reaching the last step.
func (p *progressReader) finish() {
	if p.step < 10 {
		p.step = 10
		p.report(1)
	}
}
