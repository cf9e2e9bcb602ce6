// Command inspect prints what an XMRG file contains without emitting its
// values: byte order, header, format version, valid time, summary statistics
// and the geographic bounding box of the grid.
//
// Usage:
//
//	go run ./cmd/inspect data/xmrg/xmrg0506199516z.gz
//	go run ./cmd/inspect -json data/xmrg/*
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/couchcryptid/xmrg-etl/internal/xmrg"
)

// report is the inspection result for one file.
type report struct {
	Path     string        `json:"path"`
	Endian   xmrg.Endian   `json:"endian"`
	Header   xmrg.Header   `json:"header"`
	Marker   int32         `json:"marker"`
	Version  xmrg.Version  `json:"version"`
	ValidAt  *time.Time    `json:"valid_at,omitempty"`
	Summary  *xmrg.Summary `json:"summary,omitempty"`
	BBox     *bbox         `json:"bbox,omitempty"`
	Problems []string      `json:"problems,omitempty"`
}

// bbox bounds the grid in east-positive degrees.
type bbox struct {
	West  float64 `json:"west"`
	South float64 `json:"south"`
	East  float64 `json:"east"`
	North float64 `json:"north"`
}

func main() {
	asJSON := flag.Bool("json", false, "print one JSON report per line")
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	failed := false
	enc := json.NewEncoder(os.Stdout)
	for _, path := range flag.Args() {
		r := inspect(path)
		if len(r.Problems) > 0 {
			failed = true
		}
		if *asJSON {
			_ = enc.Encode(r)
			continue
		}
		printReport(r)
	}
	if failed {
		os.Exit(1)
	}
}

func inspect(path string) report {
	r := report{Path: path}

	if t, err := xmrg.ParseFileTime(filepath.Base(path)); err == nil {
		r.ValidAt = &t
	} else {
		r.Problems = append(r.Problems, err.Error())
	}

	g, err := xmrg.ReadGrid(path)
	if err != nil {
		r.Problems = append(r.Problems, err.Error())
		return r
	}
	r.Endian = g.Endian
	r.Header = g.Header
	r.Marker = g.Marker
	r.Version = g.Version

	if !g.Version.Decodable() {
		r.Problems = append(r.Problems, fmt.Sprintf("%s format not decodable", g.Version))
		return r
	}

	s := xmrg.Summarize(g)
	r.Summary = &s
	r.BBox = boundingBox(g.Header)
	return r
}

func boundingBox(h xmrg.Header) *bbox {
	coords := h.Coordinates()
	if coords == nil {
		return nil
	}
	b := &bbox{West: math.Inf(1), South: math.Inf(1), East: math.Inf(-1), North: math.Inf(-1)}
	for _, row := range coords {
		for _, p := range row {
			lon := p.EastLongitude()
			b.West = math.Min(b.West, lon)
			b.East = math.Max(b.East, lon)
			b.South = math.Min(b.South, p.Lat)
			b.North = math.Max(b.North, p.Lat)
		}
	}
	return b
}

func printReport(r report) {
	fmt.Printf("%s\n", r.Path)
	if r.Version != xmrg.VersionUnrecognized || r.Header.Len() > 0 {
		fmt.Printf("  endian:   %s\n", r.Endian)
		fmt.Printf("  header:   origin=(%d,%d) columns=%d rows=%d\n",
			r.Header.OriginX, r.Header.OriginY, r.Header.Columns, r.Header.Rows)
		fmt.Printf("  version:  %s (marker %d)\n", r.Version, r.Marker)
	}
	if r.ValidAt != nil {
		fmt.Printf("  valid at: %s\n", r.ValidAt.Format(time.RFC3339))
	}
	if r.Summary != nil {
		fmt.Printf("  cells:    %d (%d measured)\n", r.Summary.Cells, r.Summary.Valid)
		fmt.Printf("  mean mm:  %.2f\n", r.Summary.Mean)
		fmt.Printf("  max mm:   %.2f\n", r.Summary.Max)
	}
	if r.BBox != nil {
		fmt.Printf("  bbox:     W %.4f S %.4f E %.4f N %.4f\n", r.BBox.West, r.BBox.South, r.BBox.East, r.BBox.North)
	}
	for _, p := range r.Problems {
		fmt.Printf("  problem:  %s\n", p)
	}
}
