package geo

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Shape is the coarse geometric category of a geometry, independent of
// its semantic kind.
type Shape int

const (
	ShapeUnknown Shape = iota
	ShapePoint
	ShapeLine
	ShapePolygon
)

// ShapeOf reports the coarse shape of an orb geometry.
func ShapeOf(g orb.Geometry) Shape {
	switch g.(type) {
	case orb.Point, orb.MultiPoint:
		return ShapePoint
	case orb.LineString, orb.MultiLineString:
		return ShapeLine
	case orb.Polygon, orb.MultiPolygon:
		return ShapePolygon
	default:
		return ShapeUnknown
	}
}

// AnchorPoint reduces a geometry to a single point: points pass
// through as-is, everything else is reduced to its centroid.
func AnchorPoint(g orb.Geometry) orb.Point {
	if p, ok := g.(orb.Point); ok {
		return p
	}
	c, _ := planar.CentroidArea(g)
	return c
}
