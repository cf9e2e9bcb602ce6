package xmrg

import (
	"fmt"
	"io"
)

// NoData marks a cell without a measurement.
const NoData = -999.0

// recordMarkerSize is the width of a Fortran sequential record marker.
const recordMarkerSize = 4

// ToMillimeters converts a raw sample (hundredths of a millimetre) to
// millimetres. Negative samples become NoData.
func ToMillimeters(raw int16) float64 {
	if raw < 0 {
		return NoData
	}
	return float64(raw) / 100.0
}

// DecodeRow reads one row record: leading marker, columns samples, trailing
// marker. It consumes exactly 8+2*columns bytes and expects the stream to
// sit at the start of the record.
func DecodeRow(rs io.ReadSeeker, e Endian, columns int32) ([]float64, error) {
	if _, err := rs.Seek(recordMarkerSize, io.SeekCurrent); err != nil {
		return nil, fmt.Errorf("skip leading marker: %w", err)
	}

	raw, err := e.ReadInt16s(rs, int(columns))
	if err != nil {
		return nil, fmt.Errorf("read samples: %w", err)
	}

	if _, err := rs.Seek(recordMarkerSize, io.SeekCurrent); err != nil {
		return nil, fmt.Errorf("skip trailing marker: %w", err)
	}

	out := make([]float64, len(raw))
	for i, v := range raw {
		out[i] = ToMillimeters(v)
	}
	return out, nil
}
