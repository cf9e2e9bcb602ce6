package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/couchcryptid/xmrg-etl/internal/xmrg"
)

// ObservationTime returns the valid time encoded in the file name, falling
// back to the file's modification time (truncated to the hour) when the name
// carries no usable date.
func ObservationTime(file SourceFile) time.Time {
	if t, err := xmrg.ParseFileTime(file.Name); err == nil {
		return t
	}
	return file.ModTime.UTC().Truncate(time.Hour)
}

// NewObservation converts a grid feature into an Observation for the run.
func NewObservation(run Run, f xmrg.Feature) Observation {
	missing := f.Value == xmrg.NoData
	return Observation{
		ID:            generateID(run.Source, f.Cell, run.ObservedAt),
		Source:        run.Source,
		RunID:         run.ID,
		HRAP:          HRAP{X: f.Cell.X, Y: f.Cell.Y},
		Geo:           Geo{Lat: f.Point.Lat, Lon: f.Point.EastLongitude()},
		LonWest:       f.Point.Lon,
		PrecipMM:      f.Value,
		Missing:       missing,
		Intensity:     deriveIntensity(f.Value),
		ObservedAt:    run.ObservedAt,
		FormatVersion: run.Version.String(),
		ProcessedAt:   clock.Now().UTC(),
	}
}

// NewRunSummary builds the summary for a decoded grid.
func NewRunSummary(run Run, g *xmrg.Grid, published int, startedAt time.Time) RunSummary {
	s := xmrg.Summarize(g)
	return RunSummary{
		RunID:         run.ID,
		Source:        run.Source,
		FormatVersion: g.Version.String(),
		Endian:        g.Endian.String(),
		Header:        g.Header,
		ObservedAt:    run.ObservedAt,
		Cells:         s.Cells,
		ValidCells:    s.Valid,
		MeanMM:        s.Mean,
		MaxMM:         s.Max,
		Published:     published,
		StartedAt:     startedAt,
		CompletedAt:   clock.Now().UTC(),
	}
}

// deriveIntensity labels an hourly accumulation using the AMS rainfall rate
// classes: <2.5 mm/h light, <7.6 mm/h moderate, <50 mm/h heavy, else violent.
// Dry and missing cells get no label.
func deriveIntensity(mm float64) string {
	switch {
	case mm <= 0:
		return ""
	case mm < 2.5:
		return "light"
	case mm < 7.6:
		return "moderate"
	case mm < 50:
		return "heavy"
	default:
		return "violent"
	}
}

// generateID produces a deterministic ID from the source file, cell and valid
// time, so republishing a file after a failed load yields the same keys.
func generateID(source string, cell xmrg.Cell, observedAt time.Time) string {
	input := fmt.Sprintf("%s|%d|%d|%s", source, cell.X, cell.Y, observedAt.UTC().Format(time.RFC3339))
	hash := sha256.Sum256([]byte(input))
	return fmt.Sprintf("hrap-%d-%d-%s", cell.X, cell.Y, hex.EncodeToString(hash[:6]))
}
