package domain

import (
	"context"
	"time"

	"github.com/couchcryptid/xmrg-etl/internal/xmrg"
)

// SourceFile is an XMRG file waiting to be processed.
type SourceFile struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
	Commit  func(ctx context.Context) error
}

// Run identifies one decode of one source file.
type Run struct {
	ID         string
	Source     string
	ObservedAt time.Time
	Version    xmrg.Version
}

// Geo represents a WGS-84 latitude/longitude coordinate pair.
type Geo struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// HRAP is the native grid index of an observation.
type HRAP struct {
	X int32 `json:"x"`
	Y int32 `json:"y"`
}

// Observation is one grid cell's hourly precipitation, destined for the sink.
type Observation struct {
	ID            string    `json:"id"`
	Source        string    `json:"source"`
	RunID         string    `json:"run_id"`
	HRAP          HRAP      `json:"hrap"`
	Geo           Geo       `json:"geo"`
	LonWest       float64   `json:"lon_west"` // HRAP native longitude, degrees West in [0, 360)
	PrecipMM      float64   `json:"precip_mm"`
	Missing       bool      `json:"missing,omitempty"`
	Intensity     string    `json:"intensity,omitempty"`
	ObservedAt    time.Time `json:"observed_at"`
	FormatVersion string    `json:"format_version"`
	ProcessedAt   time.Time `json:"processed_at"`
}

// RunSummary describes the outcome of the most recent file.
type RunSummary struct {
	RunID         string      `json:"run_id"`
	Source        string      `json:"source"`
	FormatVersion string      `json:"format_version"`
	Endian        string      `json:"endian"`
	Header        xmrg.Header `json:"header"`
	ObservedAt    time.Time   `json:"observed_at"`
	Cells         int         `json:"cells"`
	ValidCells    int         `json:"valid_cells"`
	MeanMM        float64     `json:"mean_mm"`
	MaxMM         float64     `json:"max_mm"`
	Published     int         `json:"published"`
	StartedAt     time.Time   `json:"started_at"`
	CompletedAt   time.Time   `json:"completed_at"`
}
