package xmrg

import (
	"fmt"
	"io"
)

// Grid is a decoded XMRG file. Data holds one slice per row in file order
// (south to north), each Columns long. Grids of undecodable versions carry
// the preamble and no values.
type Grid struct {
	Preamble
	Data [][]float64
}

// Len is the number of decoded cells.
func (g *Grid) Len() int {
	n := 0
	for _, row := range g.Data {
		n += len(row)
	}
	return n
}

// Flatten returns the values in row-major order.
func (g *Grid) Flatten() []float64 {
	out := make([]float64, 0, g.Len())
	for _, row := range g.Data {
		out = append(out, row...)
	}
	return out
}

// Decode runs the full decode on rs. The caller hands rs over for the
// duration of the call and must not read or seek it concurrently.
//
// Files whose layout is recognized but not decodable, or not recognized at
// all, return a Grid with no values and a nil error.
func Decode(rs io.ReadSeeker) (*Grid, error) {
	p, err := ReadPreamble(rs)
	if err != nil {
		return nil, err
	}

	g := &Grid{Preamble: p}
	if !p.Version.Decodable() {
		return g, nil
	}

	if err := p.Header.Validate(); err != nil {
		return nil, err
	}

	if err := checkLength(rs, p.Header); err != nil {
		return nil, err
	}

	if _, err := rs.Seek(LegacyDataOffset, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek to first row: %w", err)
	}

	for i := int32(0); i < p.Header.Rows; i++ {
		row, err := DecodeRow(rs, p.Endian, p.Header.Columns)
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", i, err)
		}
		g.Data = append(g.Data, row)
	}
	return g, nil
}

// checkLength rejects streams shorter than the rows the header describes, so
// a corrupt header cannot drive allocation.
func checkLength(rs io.Seeker, h Header) error {
	size, err := rs.Seek(0, io.SeekEnd)
	if err != nil {
		return fmt.Errorf("measure stream: %w", err)
	}
	rowBytes := 8 + 2*int64(h.Columns)
	if size < LegacyDataOffset || (size-LegacyDataOffset)/rowBytes < int64(h.Rows) {
		return fmt.Errorf("stream truncated: %d rows of %d bytes need %d bytes after offset %d, have %d: %w",
			h.Rows, rowBytes, int64(h.Rows)*rowBytes, LegacyDataOffset, size, io.ErrUnexpectedEOF)
	}
	return nil
}

// ReadGrid opens path, decodes it and closes it.
func ReadGrid(path string) (*Grid, error) {
	src, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	g, err := Decode(src)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return g, nil
}
