// Copyright 2024 Gustavo C. Viegas. All rights reserved.

// Package datasource implements the sources that data is
// read from and the decompressors applied to it.
package datasource

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

const prefix = "datasource: "

// Source opens data identified by a location.
type Source interface {
	Open(ctx context.Context, loc string) (io.ReadCloser, error)
}

// File is a Source that reads local files.
// Relative locations are resolved against Dir, if set.
type File struct{ Dir string }

// Open implements Source.
func (f File) Open(_ context.Context, loc string) (io.ReadCloser, error) {
	if f.Dir != "" && !path.IsAbs(loc) {
		loc = path.Join(f.Dir, loc)
	}
	file, err := os.Open(loc)
	if err != nil {
		return nil, fmt.Errorf(prefix+"file: %w", err)
	}
	return file, nil
}

// HTTP is a Source that fetches locations with GET.
// A nil Client means http.DefaultClient.
type HTTP struct{ Client *http.Client }

// Open implements Source.
func (h HTTP) Open(ctx context.Context, loc string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, loc, nil)
	if err != nil {
		return nil, fmt.Errorf(prefix+"http: %w", err)
	}
	c := h.Client
	if c == nil {
		c = http.DefaultClient
	}
	resp, err := c.Do(req)
	if err != nil {
		return nil, fmt.Errorf(prefix+"http: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf(prefix+"http: %s: %s", loc, resp.Status)
	}
	return resp.Body, nil
}

// Builtin returns the sources provided by this package,
// keyed by URL scheme.
func Builtin() map[string]Source {
	return map[string]Source{
		"file":  File{},
		"http":  HTTP{},
		"https": HTTP{},
	}
}

// Split separates loc into its scheme and the location
// expected by the source of that scheme.
// Locations without a scheme are files. Locations of http
// and https schemes are returned whole.
func Split(loc string) (scheme, rest string) {
	i := strings.Index(loc, "://")
	if i <= 0 {
		return "file", loc
	}
	scheme = strings.ToLower(loc[:i])
	switch scheme {
	case "http", "https":
		return scheme, loc
	default:
		return scheme, loc[i+3:]
	}
}

// Ext returns the extensions of loc's base name, without
// the dot. If loc has two extensions (e.g., "x.json.gz"),
// both are returned; outer is empty otherwise.
func Ext(loc string) (inner, outer string) {
	if i := strings.IndexAny(loc, "?#"); i >= 0 {
		loc = loc[:i]
	}
	base := path.Base(loc)
	e1 := path.Ext(base)
	e2 := path.Ext(strings.TrimSuffix(base, e1))
	switch {
	case e1 == "":
		return "", ""
	case e2 == "":
		return strings.ToLower(e1[1:]), ""
	default:
		return strings.ToLower(e2[1:]), strings.ToLower(e1[1:])
	}
}

// Decompressor wraps a compressed stream.
type Decompressor func(r io.Reader) (io.ReadCloser, error)

// ErrDecompress is returned when a stream cannot be
// decompressed.
var ErrDecompress = errors.New(prefix + "invalid compressed stream")

// Gzip decompresses gzip streams.
func Gzip(r io.Reader) (io.ReadCloser, error) {
	zr, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecompress, err)
	}
	return zr, nil
}

// Zstd decompresses zstandard streams.
func Zstd(r io.Reader) (io.ReadCloser, error) {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecompress, err)
	}
	return zr.IOReadCloser(), nil
}

// Decompressors returns the decompressors provided by
// this package, keyed by file extension.
func Decompressors() map[string]Decompressor {
	return map[string]Decompressor{
		"gz":  Gzip,
		"zst": Zstd,
	}
}
