package mvf

import (
	"strings"

	"github.com/paulmach/orb"

	"github.com/indoorgis/mvfkit/internal/geo"
)

// GeometryFeature is one converted geometry from a per-floor geometry
// document, tagged with its semantic kind. Read-only once built.
type GeometryFeature struct {
	ID          string
	FloorID     string
	Geometry    orb.Geometry
	Name        string
	Description string
	ExternalID  string
	Icon        string
	Kind        string
}

// Bucket is the classification target of one geometry feature.
type Bucket int

const (
	BucketDiscard Bucket = iota
	BucketDoors
	BucketWindows
	BucketWalls
	BucketSpaces
	BucketLineDoors
	BucketConnections
)

// Buckets holds one floor's classified geometry features. Each feature
// appears in at most one slice.
type Buckets struct {
	Doors       []GeometryFeature
	Windows     []GeometryFeature
	Walls       []GeometryFeature
	Spaces      []GeometryFeature
	LineDoors   []GeometryFeature
	Connections []GeometryFeature
}

// classifyRule maps a predicate to a bucket. Rules are evaluated in
// order; the first match wins.
type classifyRule struct {
	match  func(f *GeometryFeature) bool
	bucket Bucket
}

// classifyRules encodes the classification policy: kind-based door,
// window and wall matching takes precedence over raw shape; shape is
// the fallback. Unclassified points are liberally kept as connections
// so undocumented point features are not silently lost, while the
// synthetic -p1/-p2 door-traversal endpoints are always dropped.
var classifyRules = []classifyRule{
	{kindContains("object"), BucketDiscard},
	{kindContainsAny("door", "entrance", "entry", "exit"), BucketDoors},
	{kindContains("window"), BucketWindows},
	{kindContains("wall"), BucketWalls},
	{hasShape(geo.ShapePolygon), BucketSpaces},
	{allOf(hasShape(geo.ShapeLine), doorTraversalEndpoint), BucketDiscard},
	{hasShape(geo.ShapeLine), BucketLineDoors},
	{allOf(hasShape(geo.ShapePoint), doorTraversalEndpoint), BucketDiscard},
	{allOf(hasShape(geo.ShapePoint), connectionPoint), BucketConnections},
}

// Classify resolves the bucket for a single feature by walking the
// rule table. Features matching no rule are discarded.
func Classify(f *GeometryFeature) Bucket {
	for _, rule := range classifyRules {
		if rule.match(f) {
			return rule.bucket
		}
	}
	return BucketDiscard
}

// ClassifyAll buckets every feature of one floor. Features were
// already filtered for convertible geometry upstream.
func ClassifyAll(features []GeometryFeature) Buckets {
	var b Buckets
	for _, f := range features {
		switch Classify(&f) {
		case BucketDoors:
			b.Doors = append(b.Doors, f)
		case BucketWindows:
			b.Windows = append(b.Windows, f)
		case BucketWalls:
			b.Walls = append(b.Walls, f)
		case BucketSpaces:
			b.Spaces = append(b.Spaces, f)
		case BucketLineDoors:
			b.LineDoors = append(b.LineDoors, f)
		case BucketConnections:
			b.Connections = append(b.Connections, f)
		}
	}
	return b
}

func kindContains(sub string) func(*GeometryFeature) bool {
	return func(f *GeometryFeature) bool {
		return strings.Contains(strings.ToLower(f.Kind), sub)
	}
}

func kindContainsAny(subs ...string) func(*GeometryFeature) bool {
	return func(f *GeometryFeature) bool {
		kind := strings.ToLower(f.Kind)
		for _, sub := range subs {
			if strings.Contains(kind, sub) {
				return true
			}
		}
		return false
	}
}

func hasShape(shape geo.Shape) func(*GeometryFeature) bool {
	return func(f *GeometryFeature) bool {
		return geo.ShapeOf(f.Geometry) == shape
	}
}

func allOf(preds ...func(*GeometryFeature) bool) func(*GeometryFeature) bool {
	return func(f *GeometryFeature) bool {
		for _, p := range preds {
			if !p(f) {
				return false
			}
		}
		return true
	}
}

// doorTraversalEndpoint reports ids carrying the synthetic -p1/-p2
// markers the Mappedin API attaches to door navigation endpoints.
func doorTraversalEndpoint(f *GeometryFeature) bool {
	return strings.Contains(f.ID, "-p1") || strings.Contains(f.ID, "-p2")
}

// connectionPoint matches vertical-circulation kinds plus unknown and
// POI points.
func connectionPoint(f *GeometryFeature) bool {
	kind := strings.ToLower(f.Kind)
	for _, sub := range []string{"stair", "elevator", "escalator", "lift"} {
		if strings.Contains(kind, sub) {
			return true
		}
	}
	return f.Kind == KindUnknown || strings.Contains(kind, "poi")
}
