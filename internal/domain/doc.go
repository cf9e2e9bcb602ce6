// Package domain models hourly precipitation observations taken from NWS
// XMRG grids.
//
// # Data Source
//
// XMRG files are the hourly multisensor precipitation estimates produced by
// the NWS River Forecast Centers, one file per hour on the HRAP grid. The
// decoding itself lives in package xmrg; this package turns decoded cells
// into sink-ready observations.
//
// # Conventions
//
// Valid time:
//
//	Taken from the file name, "xmrgMMDDYYYYHHz" → e.g. "xmrg0506199516z" is
//	the hour ending 1995-05-06 16:00 UTC. Names without a usable stamp fall
//	back to the file's modification time truncated to the hour.
//
// Longitude:
//
//	HRAP longitudes are degrees West in [0, 360). Observations carry both the
//	native value (lon_west) and a signed WGS-84 longitude (geo.lon, East
//	positive) so downstream consumers do not have to know the convention.
//
// Missing data:
//
//	Cells without a measurement hold -999.0 and are flagged missing. The
//	pipeline drops them by default (SKIP_NO_DATA).
//
// Intensity classification:
//
//	Hourly accumulations map to the AMS rainfall rate classes:
//
//	  <2.5 mm light | <7.6 mm moderate | <50 mm heavy | ≥50 mm violent
//
// # ID Generation
//
// Observation IDs are deterministic: "hrap-<x>-<y>-" followed by a SHA-256
// prefix of source|x|y|valid time. Reprocessing a file after a failed load
// produces the same keys, so downstream upserts stay idempotent. See
// [generateID].
package domain
