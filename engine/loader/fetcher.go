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

	"github.com/klauspost/compress/zstd"
	"go.uber.org/zap"
)

const zstdSuffix = ".zst"

// fetcher reads source bytes from http(s) URLs or the local asset root.
type fetcher struct {
	client  *http.Client
	root    string
	tracker Tracker
	logger  *zap.Logger
}

// isRemote reports whether source is an http(s) URL.
func isRemote(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// stripQuery removes a URL query and fragment so extension checks see the path only.
func stripQuery(source string) string {
	if i := strings.IndexAny(source, "?#"); i >= 0 {
		return source[:i]
	}
	return source
}

// resolveRef resolves ref relative to the source that referenced it.
func resolveRef(base, ref string) (string, error) {
	if isRemote(ref) {
		return ref, nil
	}
	if isRemote(base) {
		b, err := url.Parse(base)
		if err != nil {
			return "", fmt.Errorf("parse base %q: %w", base, err)
		}
		r, err := url.Parse(ref)
		if err != nil {
			return "", fmt.Errorf("parse reference %q: %w", ref, err)
		}
		return b.ResolveReference(r).String(), nil
	}
	unescaped, err := url.PathUnescape(ref)
	if err != nil {
		return "", fmt.Errorf("unescape reference %q: %w", ref, err)
	}
	return path.Join(path.Dir(filepath.ToSlash(base)), unescaped), nil
}

// localPath maps a non-remote source onto the filesystem. Relative sources live under root.
func (f *fetcher) localPath(source string) string {
	p := filepath.FromSlash(stripQuery(source))
	if filepath.IsAbs(p) || f.root == "" {
		return p
	}
	return filepath.Join(f.root, p)
}

// fetch returns the decompressed bytes of source, reporting raw read progress to onProgress.
// Every call is registered with the tracker as one item.
func (f *fetcher) fetch(ctx context.Context, source string, onProgress progressFunc) (data []byte, err error) {
	f.tracker.ItemStart(source)
	defer func() {
		if err != nil {
			f.tracker.ItemError(source)
		}
		f.tracker.ItemEnd(source)
	}()

	var body io.ReadCloser
	var total int64
	if isRemote(source) {
		body, total, err = f.openRemote(ctx, source)
	} else {
		body, total, err = f.openLocal(source)
	}
	if err != nil {
		return nil, err
	}
	defer body.Close()

	r := newProgressReader(body, total, onProgress)
	if strings.HasSuffix(stripQuery(source), zstdSuffix) {
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("zstd %s: %w", source, err)
		}
		defer dec.Close()
		r = dec
	}

	data, err = io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", source, err)
	}
	f.logger.Debug("fetched", zap.String("source", source), zap.Int("bytes", len(data)))
	return data, nil
}

func (f *fetcher) openRemote(ctx context.Context, source string) (io.ReadCloser, int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("build request %s: %w", source, err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("GET %s: %w", source, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, 0, fmt.Errorf("GET %s: %w: %s", source, ErrHTTPStatus, resp.Status)
	}
	return resp.Body, resp.ContentLength, nil
}

func (f *fetcher) openLocal(source string) (io.ReadCloser, int64, error) {
	p := f.localPath(source)
	file, err := os.Open(p)
	if err != nil {
		return nil, 0, fmt.Errorf("open %s: %w", p, err)
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, 0, fmt.Errorf("stat %s: %w", p, err)
	}
	if info.IsDir() {
		file.Close()
		return nil, 0, fmt.Errorf("open %s: is a directory", p)
	}
	return file, info.Size(), nil
}
