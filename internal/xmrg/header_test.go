package xmrg

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"

	"github.com/couchcryptid/xmrg-etl/internal/xmrg/xmrgtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyVersion(t *testing.T) {
	tests := []struct {
		name    string
		marker  int32
		columns int32
		want    Version
	}{
		{"build5", 66, 100, VersionBuild5},
		{"build4", 38, 100, VersionBuild4},
		{"legacy", 200, 100, VersionLegacy},
		{"legacy hrap conus width", 670, 335, VersionLegacy},
		{"build5 wins over legacy", 66, 33, VersionBuild5},
		{"build4 wins over legacy", 38, 19, VersionBuild4},
		{"odd marker", 37, 100, VersionUnrecognized},
		{"off by one", 201, 100, VersionUnrecognized},
		{"zero", 0, 100, VersionUnrecognized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyVersion(tt.marker, tt.columns))
		})
	}
}

func TestVersion_Decodable(t *testing.T) {
	assert.True(t, VersionLegacy.Decodable())
	assert.False(t, VersionBuild4.Decodable())
	assert.False(t, VersionBuild5.Decodable())
	assert.False(t, VersionUnrecognized.Decodable())
}

func TestVersion_String(t *testing.T) {
	assert.Equal(t, "legacy", VersionLegacy.String())
	assert.Equal(t, "build4.2", VersionBuild4.String())
	assert.Equal(t, "build5.2.2", VersionBuild5.String())
	assert.Equal(t, "unrecognized", Version(42).String())
}

func TestReadPreamble_Legacy(t *testing.T) {
	for _, order := range []binary.ByteOrder{binary.BigEndian, binary.LittleEndian} {
		t.Run(order.String(), func(t *testing.T) {
			data := xmrgtest.File{
				Order:   order,
				OriginX: 367,
				OriginY: 263,
				Samples: [][]int16{{1, 2, 3}, {4, 5, 6}},
			}.Bytes()
			r := bytes.NewReader(data)

			p, err := ReadPreamble(r)
			require.NoError(t, err)

			assert.Equal(t, Header{OriginX: 367, OriginY: 263, Columns: 3, Rows: 2}, p.Header)
			assert.Equal(t, int32(6), p.Marker)
			assert.Equal(t, VersionLegacy, p.Version)

			pos, err := r.Seek(0, io.SeekCurrent)
			require.NoError(t, err)
			assert.Equal(t, int64(LegacyDataOffset+4), pos, "marker read leaves the stream past the first row marker")
		})
	}
}

func TestReadPreamble_DetectsByteOrder(t *testing.T) {
	be, err := ReadPreamble(bytes.NewReader(xmrgtest.File{Order: binary.BigEndian, Samples: [][]int16{{0}}}.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, BigEndian, be.Endian)

	le, err := ReadPreamble(bytes.NewReader(xmrgtest.File{Order: binary.LittleEndian, Samples: [][]int16{{0}}}.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, LittleEndian, le.Endian)
}

func TestReadPreamble_Build5(t *testing.T) {
	data := xmrgtest.File{
		Columns: 335,
		Rows:    159,
		Marker:  66,
		Payload: make([]byte, 66),
	}.Bytes()

	p, err := ReadPreamble(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, VersionBuild5, p.Version)
	assert.Equal(t, int32(335), p.Header.Columns)
}

func TestReadPreamble_TruncatedHeader(t *testing.T) {
	data := xmrgtest.File{Samples: [][]int16{{1}}}.Bytes()

	_, err := ReadPreamble(bytes.NewReader(data[:12]))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read header")
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestReadPreamble_MissingMarker(t *testing.T) {
	data := xmrgtest.File{Samples: [][]int16{{1}}}.Bytes()

	_, err := ReadPreamble(bytes.NewReader(data[:LegacyDataOffset]))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read version marker")
}

func TestHeader_Validate(t *testing.T) {
	require.NoError(t, Header{Columns: 335, Rows: 159}.Validate())

	err := Header{Columns: 0, Rows: 159}.Validate()
	assert.ErrorIs(t, err, ErrInvalidHeader)

	err = Header{Columns: 10, Rows: -1}.Validate()
	assert.ErrorIs(t, err, ErrInvalidHeader)
}

func TestHeader_Len(t *testing.T) {
	assert.Equal(t, 6, Header{Columns: 3, Rows: 2}.Len())
	assert.Equal(t, 0, Header{Columns: -3, Rows: 2}.Len())
}
