package xmrg

import "math"

// HRAP projection constants.
const (
	earthRadiusKM = 6371.2
	stdLongitude  = 105.0
	stdLatitude   = 60.0
	meshLengthKM  = 4.7625
	poleX         = 401.0
	poleY         = 1601.0
)

const radToDeg = 180.0 / math.Pi

// Point is a geographic position in degrees. Lon is positive West in
// [0, 360); Lat is positive North.
type Point struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// EastLongitude returns the longitude as a signed WGS-84 value in
// (-180, 180], East positive.
func (p Point) EastLongitude() float64 {
	if p.Lon <= 180 {
		return -p.Lon
	}
	return 360 - p.Lon
}

// HRAPToLatLon projects an HRAP grid coordinate to longitude/latitude.
//
// The asin argument is not clamped. Non-finite inputs yield NaN.
func HRAPToLatLon(x, y float64) Point {
	dx := x - poleX
	dy := y - poleY
	rr := dx*dx + dy*dy

	g := earthRadiusKM * (1 + math.Sin(stdLatitude/radToDeg)) / meshLengthKM
	gg := g * g

	lat := math.Asin((gg-rr)/(gg+rr)) * radToDeg

	bearing := math.Atan2(dy, dx) * radToDeg
	if bearing < 0 {
		bearing += 360
	}

	lon := 270 + stdLongitude - bearing
	if lon < 0 {
		lon += 360
	}
	if lon >= 360 {
		lon -= 360
	}

	return Point{Lon: lon, Lat: lat}
}
