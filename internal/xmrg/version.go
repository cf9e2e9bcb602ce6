package xmrg

// Version identifies an XMRG on-disk layout.
type Version uint8

const (
	VersionUnrecognized Version = iota
	VersionLegacy               // pre-1997, second record is the first data row
	VersionBuild4               // build 4.2, 38-byte second record
	VersionBuild5               // build 5.2.2, 66-byte second record
)

const (
	build4Marker = 38
	build5Marker = 66
)

func (v Version) String() string {
	switch v {
	case VersionLegacy:
		return "legacy"
	case VersionBuild4:
		return "build4.2"
	case VersionBuild5:
		return "build5.2.2"
	default:
		return "unrecognized"
	}
}

func (v Version) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// Decodable reports whether rows of this layout can be decoded.
func (v Version) Decodable() bool {
	return v == VersionLegacy
}

// ClassifyVersion maps the second record's length marker to a layout.
// The fixed markers win over the 2*columns rule, so a 33- or 19-column
// legacy file reads as a newer build.
func ClassifyVersion(marker, columns int32) Version {
	switch {
	case marker == build5Marker:
		return VersionBuild5
	case marker == build4Marker:
		return VersionBuild4
	case int64(marker) == 2*int64(columns):
		return VersionLegacy
	default:
		return VersionUnrecognized
	}
}
