package xmrg

import (
	"errors"
	"fmt"
	"io"

	"github.com/go-playground/validator/v10"
)

// LegacyDataOffset is the absolute offset of the first row record in a
// pre-1997 file: byte-order word, 16-byte header, trailing header marker.
const LegacyDataOffset = 24

// ErrInvalidHeader is returned when a decodable file declares an empty grid.
var ErrInvalidHeader = errors.New("invalid xmrg header")

var validate = validator.New()

// Header is the first record of an XMRG file.
type Header struct {
	OriginX int32 `json:"origin_x"`
	OriginY int32 `json:"origin_y"`
	Columns int32 `json:"columns" validate:"gt=0"`
	Rows    int32 `json:"rows" validate:"gt=0"`
}

// Len is the number of grid cells the header describes.
func (h Header) Len() int {
	if h.Columns <= 0 || h.Rows <= 0 {
		return 0
	}
	return int(h.Columns) * int(h.Rows)
}

// Validate checks that the header describes a non-empty grid.
func (h Header) Validate() error {
	if err := validate.Struct(h); err != nil {
		return fmt.Errorf("%w: %dx%d: %v", ErrInvalidHeader, h.Columns, h.Rows, err)
	}
	return nil
}

// ReadHeader reads the four header integers. The stream must be positioned
// just past the byte-order word.
func ReadHeader(r io.Reader, e Endian) (Header, error) {
	v, err := e.ReadInt32s(r, 4)
	if err != nil {
		return Header{}, fmt.Errorf("read header: %w", err)
	}
	return Header{OriginX: v[0], OriginY: v[1], Columns: v[2], Rows: v[3]}, nil
}

// Preamble is everything read before the data rows.
type Preamble struct {
	Endian  Endian  `json:"endian"`
	Header  Header  `json:"header"`
	Marker  int32   `json:"marker"`
	Version Version `json:"version"`
}

// ReadPreamble detects the byte order, reads the header and classifies the
// layout from the second record's length marker. The stream is left just past
// the marker; callers seek before reading rows.
func ReadPreamble(rs io.ReadSeeker) (Preamble, error) {
	e, err := DetectEndian(rs)
	if err != nil {
		return Preamble{}, err
	}

	h, err := ReadHeader(rs, e)
	if err != nil {
		return Preamble{}, err
	}

	if _, err := rs.Seek(4, io.SeekCurrent); err != nil {
		return Preamble{}, fmt.Errorf("skip header marker: %w", err)
	}

	marker, err := e.ReadInt32(rs)
	if err != nil {
		return Preamble{}, fmt.Errorf("read version marker: %w", err)
	}

	return Preamble{
		Endian:  e,
		Header:  h,
		Marker:  marker,
		Version: ClassifyVersion(marker, h.Columns),
	}, nil
}
