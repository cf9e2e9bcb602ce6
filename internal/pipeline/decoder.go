package pipeline

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/xmrg-etl/internal/domain"
	"github.com/couchcryptid/xmrg-etl/internal/xmrg"
)

// GridDecoder implements Decoder by reading the file from disk. Compressed
// files are inflated according to their extension.
type GridDecoder struct {
	logger *slog.Logger
}

// NewDecoder creates a GridDecoder.
func NewDecoder(logger *slog.Logger) *GridDecoder {
	return &GridDecoder{logger: logger}
}

func (d *GridDecoder) Decode(ctx context.Context, file *domain.SourceFile) (*xmrg.Grid, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	g, err := xmrg.ReadGrid(file.Path)
	if err != nil {
		return nil, err
	}

	d.logger.Debug("grid decoded",
		"file", file.Name,
		"bytes", file.Size,
		"version", g.Version,
		"endian", g.Endian,
		"cells", g.Len(),
	)
	return g, nil
}
