// Package xmrg decodes NWS XMRG gridded precipitation files and projects their
// cells onto longitude/latitude.
//
// # Data Source
//
// XMRG files are produced by the NWS precipitation processing stage and
// distributed as one file per hour, usually gzip compressed, named after the
// valid time: "xmrg0506199516z.gz" holds the hour ending 16Z on 1995-05-06.
// Format notes: https://www.nws.noaa.gov/oh/hrl/misc/xmrg.pdf
//
// # Layout
//
// XMRG is written by Fortran unformatted sequential I/O, so every record is
// bracketed by 4-byte length markers. The pre-1997 layout is:
//
//	offset  size        field
//	0       4           record marker (16 when read big-endian on a big-endian file)
//	4       4           origin x (HRAP column of the south-west cell)
//	8       4           origin y (HRAP row of the south-west cell)
//	12      4           columns
//	16      4           rows
//	20      4           record marker
//	24      4           row record marker (leading)
//	28      2*columns   int16 samples, hundredths of a millimetre
//	...     4           row record marker (trailing)
//
// The row block repeats rows times, south to north.
//
// Byte order is not declared anywhere. The first marker holds the byte
// length of the header record (16), so reading it big-endian yields 16 on a
// big-endian file and 268435456 on a little-endian one.
//
// # Versions
//
// The second record is the only thing that distinguishes layouts. Its length
// marker is 66 for build 5.2.2 files, 38 for build 4.2 files, and 2*columns
// for pre-1997 files, where the second record is already the first data row.
// Only the pre-1997 layout is decoded; the others are classified and returned
// as empty grids.
//
// # Values
//
// Samples are hundredths of a millimetre. Negative samples mean no data and
// become [NoData] (-999.0).
//
// # HRAP
//
// Cells are indexed on the Hydrologic Rainfall Analysis Project grid, a polar
// stereographic projection true at 60°N with the pole at HRAP (401, 1601) and
// a 4.7625 km mesh. [HRAPToLatLon] inverts it. Longitudes are degrees West,
// in [0, 360).
// See https://www.nws.noaa.gov/oh/hrl/distmodel/hrap.htm
package xmrg
