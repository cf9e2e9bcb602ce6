// Package xmrgtest builds synthetic XMRG files for tests.
package xmrgtest

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
)

// File describes a synthetic XMRG file. Columns and Rows default to the
// shape of Samples. A zero Marker writes a pre-1997 file; any other value is
// written as the second record marker followed by Payload.
type File struct {
	Order   binary.ByteOrder
	OriginX int32
	OriginY int32
	Columns int32
	Rows    int32
	Marker  int32
	Payload []byte
	Samples [][]int16
}

// Bytes encodes the file.
func (f File) Bytes() []byte {
	order := f.Order
	if order == nil {
		order = binary.BigEndian
	}
	columns, rows := f.Columns, f.Rows
	if rows == 0 {
		rows = int32(len(f.Samples))
	}
	if columns == 0 && len(f.Samples) > 0 {
		columns = int32(len(f.Samples[0]))
	}

	var buf bytes.Buffer
	put := func(v any) { _ = binary.Write(&buf, order, v) }

	put(int32(16))
	put([]int32{f.OriginX, f.OriginY, columns, rows})
	put(int32(16))

	if f.Marker != 0 {
		put(f.Marker)
		buf.Write(f.Payload)
		put(f.Marker)
		return buf.Bytes()
	}

	for _, row := range f.Samples {
		put(int32(2 * len(row)))
		put(row)
		put(int32(2 * len(row)))
	}
	return buf.Bytes()
}

// Gzip compresses data.
func Gzip(t testing.TB, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		t.Fatalf("gzip: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("gzip close: %v", err)
	}
	return buf.Bytes()
}

// WriteFile writes data to dir/name and returns the full path.
func WriteFile(t testing.TB, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}
