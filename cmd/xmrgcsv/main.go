// Command xmrgcsv decodes XMRG files and prints one "longitude,latitude,value"
// line per grid cell, longitude in degrees West as stored by HRAP. With -json
// it prints one observation object per line instead.
//
// Usage:
//
//	go run ./cmd/xmrgcsv data/xmrg/xmrg0506199516z.gz
//	go run ./cmd/xmrgcsv -skip-nodata -out features.csv data/xmrg/xmrg*
package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/couchcryptid/xmrg-etl/internal/domain"
	"github.com/couchcryptid/xmrg-etl/internal/xmrg"
	"github.com/google/uuid"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() (err error) {
	out := flag.String("out", "-", "output path, - for stdout")
	skipNoData := flag.Bool("skip-nodata", false, "omit cells holding the no-data sentinel")
	asJSON := flag.Bool("json", false, "emit newline-delimited observation JSON instead of CSV")
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		return fmt.Errorf("missing input files")
	}

	var w io.Writer = os.Stdout
	if *out != "-" {
		f, err := os.Create(*out)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("close %s: %w", *out, cerr)
			}
		}()
		w = f
	}

	return writeAll(w, flag.Args(), *skipNoData, *asJSON)
}

// writeAll converts each path in order. Output from files converted before a
// failure is flushed to w before the error is returned.
func writeAll(w io.Writer, paths []string, skipNoData, asJSON bool) error {
	bw := bufio.NewWriter(w)
	for _, path := range paths {
		n, err := convert(bw, path, skipNoData, asJSON)
		if err != nil {
			return errors.Join(fmt.Errorf("%s: %w", path, err), bw.Flush())
		}
		log.Printf("%s: %d features", path, n)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}
	return nil
}

func convert(w *bufio.Writer, path string, skipNoData, asJSON bool) (int, error) {
	g, err := xmrg.ReadGrid(path)
	if err != nil {
		return 0, err
	}
	if !g.Version.Decodable() {
		log.Printf("%s: %s format not decodable, skipping", path, g.Version)
		return 0, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	run := domain.Run{
		ID:      uuid.NewString(),
		Source:  filepath.Base(path),
		Version: g.Version,
	}
	run.ObservedAt = domain.ObservationTime(domain.SourceFile{Name: run.Source, ModTime: info.ModTime()})

	enc := json.NewEncoder(w)
	n := 0
	for f := range g.Features() {
		if skipNoData && f.Value == xmrg.NoData {
			continue
		}
		if asJSON {
			if err := enc.Encode(domain.NewObservation(run, f)); err != nil {
				return n, err
			}
		} else if _, err := w.WriteString(f.CSV() + "\n"); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}
