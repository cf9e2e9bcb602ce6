package csvfile

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/couchcryptid/xmrg-etl/internal/domain"
	"github.com/couchcryptid/xmrg-etl/internal/xmrg"
)

// Writer appends observations as "longitude,latitude,value" lines, using the
// HRAP native longitude. It implements pipeline.BatchLoader.
type Writer struct {
	mu     sync.Mutex
	out    *bufio.Writer
	closer io.Closer
}

// NewWriter opens path for appending. "-" writes to stdout.
func NewWriter(path string) (*Writer, error) {
	if path == "-" {
		return newWriter(os.Stdout, nil), nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open csv output: %w", err)
	}
	return newWriter(f, f), nil
}

func newWriter(w io.Writer, c io.Closer) *Writer {
	return &Writer{out: bufio.NewWriter(w), closer: c}
}

// LoadBatch writes one line per observation and flushes.
func (w *Writer) LoadBatch(ctx context.Context, observations []domain.Observation) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	for _, obs := range observations {
		f := xmrg.Feature{
			Point: xmrg.Point{Lon: obs.LonWest, Lat: obs.Geo.Lat},
			Value: obs.PrecipMM,
		}
		if _, err := w.out.WriteString(f.CSV() + "\n"); err != nil {
			return fmt.Errorf("write csv: %w", err)
		}
	}
	if err := w.out.Flush(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.out.Flush(); err != nil {
		return err
	}
	if w.closer == nil {
		return nil
	}
	return w.closer.Close()
}
