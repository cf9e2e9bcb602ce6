package xmrg

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Source is an exclusively owned, seekable view of one XMRG file.
type Source interface {
	io.ReadSeeker
	io.Closer
}

type memSource struct {
	*bytes.Reader
}

func (memSource) Close() error { return nil }

// Open returns a seekable source for path. Files ending in .gz or .zst are
// inflated into memory, since the decoder seeks and the compressed streams
// cannot.
func Open(path string) (Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		defer f.Close()
		zr, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("gunzip %s: %w", path, err)
		}
		defer zr.Close()
		return inflate(path, zr)
	case ".zst":
		defer f.Close()
		zr, err := zstd.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("zstd %s: %w", path, err)
		}
		defer zr.Close()
		return inflate(path, zr)
	default:
		return f, nil
	}
}

func inflate(path string, r io.Reader) (Source, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("inflate %s: %w", path, err)
	}
	return memSource{bytes.NewReader(data)}, nil
}
