package xmrg

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Endian is the byte order of an XMRG file.
type Endian uint8

const (
	LittleEndian Endian = iota
	BigEndian
)

// bigEndianWord is the header record length as seen through a big-endian
// read of a big-endian file.
const bigEndianWord = 16

func (e Endian) String() string {
	if e == BigEndian {
		return "big"
	}
	return "little"
}

func (e Endian) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

func (e Endian) order() binary.ByteOrder {
	if e == BigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// DetectEndian reads the leading 4-byte word and classifies the stream.
// The stream advances by 4 bytes.
func DetectEndian(r io.Reader) (Endian, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return LittleEndian, fmt.Errorf("read byte-order word: %w", err)
	}
	if int32(binary.BigEndian.Uint32(buf[:])) == bigEndianWord {
		return BigEndian, nil
	}
	return LittleEndian, nil
}

// ReadInt32 reads one signed 32-bit integer.
func (e Endian) ReadInt32(r io.Reader) (int32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return int32(e.order().Uint32(buf[:])), nil
}

// ReadInt16 reads one signed 16-bit integer.
func (e Endian) ReadInt16(r io.Reader) (int16, error) {
	var buf [2]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return int16(e.order().Uint16(buf[:])), nil
}

// ReadUint8 reads one byte. Byte order does not apply.
func (e Endian) ReadUint8(r io.Reader) (uint8, error) {
	var buf [1]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}

// ReadInt32s reads count consecutive int32 values. On error nothing is
// returned but the error.
func (e Endian) ReadInt32s(r io.Reader, count int) ([]int32, error) {
	buf, err := readN(r, count, 4)
	if err != nil {
		return nil, err
	}
	order := e.order()
	out := make([]int32, count)
	for i := range out {
		out[i] = int32(order.Uint32(buf[i*4:]))
	}
	return out, nil
}

// ReadInt16s reads count consecutive int16 values. On error nothing is
// returned but the error.
func (e Endian) ReadInt16s(r io.Reader, count int) ([]int16, error) {
	buf, err := readN(r, count, 2)
	if err != nil {
		return nil, err
	}
	order := e.order()
	out := make([]int16, count)
	for i := range out {
		out[i] = int16(order.Uint16(buf[i*2:]))
	}
	return out, nil
}

// ReadUint8s reads count consecutive bytes.
func (e Endian) ReadUint8s(r io.Reader, count int) ([]uint8, error) {
	return readN(r, count, 1)
}

// maxEagerRead bounds the buffer allocated before any bytes arrive.
const maxEagerRead = 1 << 16

func readN(r io.Reader, count, width int) ([]byte, error) {
	if count < 0 {
		return nil, fmt.Errorf("negative read count %d", count)
	}
	n := int64(count) * int64(width)
	if n <= maxEagerRead {
		buf := make([]byte, n)
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, err
		}
		return buf, nil
	}

	// Large counts grow with the data actually read rather than the count.
	var b bytes.Buffer
	got, err := io.CopyN(&b, r, n)
	if err != nil {
		if errors.Is(err, io.EOF) && got > 0 {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}
	return b.Bytes(), nil
}
