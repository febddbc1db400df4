// Package geo handles GeoJSON geometry decoding and shape helpers.
package geo

import (
	"encoding/json"

	"github.com/paulmach/orb"
)

// rawGeometry is the minimal wire shape of a GeoJSON geometry object.
// Coordinates are kept raw so a bad nesting level only fails the one
// geometry being converted, never a whole document.
type rawGeometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// Convert decodes a GeoJSON geometry object into an orb.Geometry.
//
// It returns nil (not an error) when the type is missing or
// unrecognized, or when the coordinates are structurally too short.
// For Polygon and MultiPolygon only the outer ring of each polygon is
// kept; interior rings (holes) are discarded.
//
// Coordinates are used verbatim as (longitude, latitude), no CRS or
// range validation.
func Convert(data json.RawMessage) orb.Geometry {
	if len(data) == 0 {
		return nil
	}

	var raw rawGeometry
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}

	switch raw.Type {
	case "Point":
		var coords []float64
		if err := json.Unmarshal(raw.Coordinates, &coords); err != nil || len(coords) < 2 {
			return nil
		}
		return orb.Point{coords[0], coords[1]}

	case "LineString":
		var coords [][]float64
		if err := json.Unmarshal(raw.Coordinates, &coords); err != nil {
			return nil
		}
		if ls := toLineString(coords); len(ls) > 0 {
			return ls
		}

	case "Polygon":
		var coords [][][]float64
		if err := json.Unmarshal(raw.Coordinates, &coords); err != nil {
			return nil
		}
		if ring := outerRing(coords); len(ring) > 0 {
			return orb.Polygon{ring}
		}

	case "MultiPoint":
		var coords [][]float64
		if err := json.Unmarshal(raw.Coordinates, &coords); err != nil {
			return nil
		}
		var mp orb.MultiPoint
		for _, c := range coords {
			if len(c) >= 2 {
				mp = append(mp, orb.Point{c[0], c[1]})
			}
		}
		if len(mp) > 0 {
			return mp
		}

	case "MultiLineString":
		var coords [][][]float64
		if err := json.Unmarshal(raw.Coordinates, &coords); err != nil {
			return nil
		}
		var mls orb.MultiLineString
		for _, line := range coords {
			if ls := toLineString(line); len(ls) > 0 {
				mls = append(mls, ls)
			}
		}
		if len(mls) > 0 {
			return mls
		}

	case "MultiPolygon":
		var coords [][][][]float64
		if err := json.Unmarshal(raw.Coordinates, &coords); err != nil {
			return nil
		}
		var mp orb.MultiPolygon
		for _, poly := range coords {
			if ring := outerRing(poly); len(ring) > 0 {
				mp = append(mp, orb.Polygon{ring})
			}
		}
		if len(mp) > 0 {
			return mp
		}
	}

	return nil
}

func toLineString(coords [][]float64) orb.LineString {
	var ls orb.LineString
	for _, c := range coords {
		if len(c) >= 2 {
			ls = append(ls, orb.Point{c[0], c[1]})
		}
	}
	return ls
}

func outerRing(coords [][][]float64) orb.Ring {
	if len(coords) == 0 {
		return nil
	}
	var ring orb.Ring
	for _, c := range coords[0] {
		if len(c) >= 2 {
			ring = append(ring, orb.Point{c[0], c[1]})
		}
	}
	return ring
}
