// Package meta extracts acquisition metadata from microscopy filenames.
//
// Filenames from the scope follow the convention
// '20X-something-something_seedlingN_overview_z01c2.tif': a magnification
// token, an arbitrary separator region, then z-slice and channel indices
// immediately before the .tif extension.
package meta

import "regexp"

// filenamePattern matches '<digits>X-...-_z<digits>c<digits>.tif'.
var filenamePattern = regexp.MustCompile(
	`(?P<magnification>\d+X)-` +
		`.*?` +
		`_z(?P<zslice>\d+)c(?P<channel>\d+)` +
		`\.tif$`,
)

// Record holds the metadata attached to every measurement from one file.
// Optional fields are nil when the filename does not follow the naming
// convention; they map to NULL columns in the store.
type Record struct {
	Filename      string
	Magnification *string
	ZSlice        *string
	Channel       *string
}

// Parse extracts a metadata Record from a base filename. A filename that
// does not match the convention yields a Record with only Filename set;
// this is a degraded but valid record, never an error.
func Parse(name string) Record {
	m := filenamePattern.FindStringSubmatch(name)
	if m == nil {
		return Record{Filename: name}
	}

	mag := m[filenamePattern.SubexpIndex("magnification")]
	z := m[filenamePattern.SubexpIndex("zslice")]
	ch := m[filenamePattern.SubexpIndex("channel")]
	return Record{
		Filename:      name,
		Magnification: &mag,
		ZSlice:        &z,
		Channel:       &ch,
	}
}
