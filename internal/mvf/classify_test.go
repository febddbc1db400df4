package mvf

import (
	"testing"

	"github.com/paulmach/orb"
)

var (
	testPoint   = orb.Point{0, 0}
	testLine    = orb.LineString{{0, 0}, {1, 0}}
	testPolygon = orb.Polygon{{{0, 0}, {1, 0}, {1, 1}, {0, 0}}}
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		f    GeometryFeature
		want Bucket
	}{
		{"object polygon discarded", GeometryFeature{ID: "g1", Kind: "object", Geometry: testPolygon}, BucketDiscard},
		{"object point discarded", GeometryFeature{ID: "g1", Kind: "furniture-object", Geometry: testPoint}, BucketDiscard},
		{"object case-insensitive", GeometryFeature{ID: "g1", Kind: "Object", Geometry: testPolygon}, BucketDiscard},
		{"door kind on line", GeometryFeature{ID: "g1", Kind: "door", Geometry: testLine}, BucketDoors},
		{"door kind on polygon", GeometryFeature{ID: "g1", Kind: "door", Geometry: testPolygon}, BucketDoors},
		{"entrance is a door", GeometryFeature{ID: "g1", Kind: "main-entrance", Geometry: testLine}, BucketDoors},
		{"entry is a door", GeometryFeature{ID: "g1", Kind: "entry", Geometry: testLine}, BucketDoors},
		{"exit is a door", GeometryFeature{ID: "g1", Kind: "emergency exit", Geometry: testLine}, BucketDoors},
		{"door object still discarded", GeometryFeature{ID: "g1", Kind: "door-object", Geometry: testLine}, BucketDiscard},
		{"window", GeometryFeature{ID: "g1", Kind: "Window", Geometry: testLine}, BucketWindows},
		{"wall", GeometryFeature{ID: "g1", Kind: "wall", Geometry: testLine}, BucketWalls},
		{"plain polygon is a space", GeometryFeature{ID: "g1", Kind: "room", Geometry: testPolygon}, BucketSpaces},
		{"unknown polygon is a space", GeometryFeature{ID: "g1", Kind: KindUnknown, Geometry: testPolygon}, BucketSpaces},
		{"plain line is a line door", GeometryFeature{ID: "g1", Kind: KindUnknown, Geometry: testLine}, BucketLineDoors},
		{"line with p1 marker discarded", GeometryFeature{ID: "g1-p1", Kind: KindUnknown, Geometry: testLine}, BucketDiscard},
		{"point with p1 marker discarded", GeometryFeature{ID: "g1-p1", Kind: KindUnknown, Geometry: testPoint}, BucketDiscard},
		{"point with p2 marker discarded", GeometryFeature{ID: "door-3-p2", Kind: KindUnknown, Geometry: testPoint}, BucketDiscard},
		{"unknown point is a connection", GeometryFeature{ID: "g1", Kind: KindUnknown, Geometry: testPoint}, BucketConnections},
		{"stair point", GeometryFeature{ID: "g1", Kind: "stairs", Geometry: testPoint}, BucketConnections},
		{"elevator point", GeometryFeature{ID: "g1", Kind: "elevators", Geometry: testPoint}, BucketConnections},
		{"escalator point", GeometryFeature{ID: "g1", Kind: "escalator", Geometry: testPoint}, BucketConnections},
		{"lift point", GeometryFeature{ID: "g1", Kind: "lift", Geometry: testPoint}, BucketConnections},
		{"poi point", GeometryFeature{ID: "g1", Kind: "poi", Geometry: testPoint}, BucketConnections},
		{"named point filtered out", GeometryFeature{ID: "g1", Kind: "desk", Geometry: testPoint}, BucketDiscard},
		{"nil geometry discarded", GeometryFeature{ID: "g1", Kind: "room"}, BucketDiscard},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Classify(&tc.f); got != tc.want {
				t.Errorf("Classify(kind=%q, id=%q) = %v, want %v", tc.f.Kind, tc.f.ID, got, tc.want)
			}
		})
	}
}

func TestClassifyAll_EachFeatureInOneBucket(t *testing.T) {
	features := []GeometryFeature{
		{ID: "d1", Kind: "door", Geometry: testLine},
		{ID: "w1", Kind: "window", Geometry: testLine},
		{ID: "wa1", Kind: "wall", Geometry: testLine},
		{ID: "s1", Kind: "room", Geometry: testPolygon},
		{ID: "l1", Kind: KindUnknown, Geometry: testLine},
		{ID: "c1", Kind: KindUnknown, Geometry: testPoint},
		{ID: "o1", Kind: "object", Geometry: testPolygon},
		{ID: "d1-p1", Kind: KindUnknown, Geometry: testPoint},
	}

	b := ClassifyAll(features)

	total := len(b.Doors) + len(b.Windows) + len(b.Walls) + len(b.Spaces) + len(b.LineDoors) + len(b.Connections)
	if total != 6 {
		t.Errorf("bucketed features = %d, want 6 (object and -p1 point discarded)", total)
	}
	if len(b.Doors) != 1 || b.Doors[0].ID != "d1" {
		t.Errorf("Doors = %v, want [d1]", b.Doors)
	}
	if len(b.LineDoors) != 1 || b.LineDoors[0].ID != "l1" {
		t.Errorf("LineDoors = %v, want [l1]", b.LineDoors)
	}
	if len(b.Connections) != 1 || b.Connections[0].ID != "c1" {
		t.Errorf("Connections = %v, want [c1]", b.Connections)
	}
}

func TestKindTable_Default(t *testing.T) {
	table := KindTable{"g1": "wall", "g2": ""}

	if got := table.Kind("g1"); got != "wall" {
		t.Errorf("Kind(g1) = %q, want wall", got)
	}
	if got := table.Kind("g2"); got != KindUnknown {
		t.Errorf("Kind(g2) = %q, want %q for empty entry", got, KindUnknown)
	}
	if got := table.Kind("missing"); got != KindUnknown {
		t.Errorf("Kind(missing) = %q, want %q", got, KindUnknown)
	}

	var nilTable KindTable
	if got := nilTable.Kind("g1"); got != KindUnknown {
		t.Errorf("nil table Kind() = %q, want %q", got, KindUnknown)
	}
}
