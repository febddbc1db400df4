package geo

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/paulmach/orb"
)

func TestConvert_Point(t *testing.T) {
	g := Convert(json.RawMessage(`{"type":"Point","coordinates":[1.5,2.5]}`))
	want := orb.Point{1.5, 2.5}
	if g != want {
		t.Errorf("Convert() = %v, want %v", g, want)
	}
}

func TestConvert_PointTooShort(t *testing.T) {
	if g := Convert(json.RawMessage(`{"type":"Point","coordinates":[1.5]}`)); g != nil {
		t.Errorf("Convert() = %v, want nil for short coordinates", g)
	}
}

func TestConvert_LineStringRoundTrip(t *testing.T) {
	g := Convert(json.RawMessage(`{"type":"LineString","coordinates":[[0,0],[1,1],[2,0]]}`))
	want := orb.LineString{{0, 0}, {1, 1}, {2, 0}}
	if !reflect.DeepEqual(g, want) {
		t.Errorf("Convert() = %v, want %v", g, want)
	}
}

func TestConvert_LineStringDropsShortPairs(t *testing.T) {
	g := Convert(json.RawMessage(`{"type":"LineString","coordinates":[[0,0],[1],[2,0]]}`))
	want := orb.LineString{{0, 0}, {2, 0}}
	if !reflect.DeepEqual(g, want) {
		t.Errorf("Convert() = %v, want %v", g, want)
	}
}

func TestConvert_PolygonKeepsOuterRingOnly(t *testing.T) {
	raw := `{"type":"Polygon","coordinates":[
		[[0,0],[4,0],[4,4],[0,4],[0,0]],
		[[1,1],[2,1],[2,2],[1,2],[1,1]]
	]}`
	g := Convert(json.RawMessage(raw))

	poly, ok := g.(orb.Polygon)
	if !ok {
		t.Fatalf("Convert() = %T, want orb.Polygon", g)
	}
	if len(poly) != 1 {
		t.Errorf("len(poly) = %d, want 1 (holes discarded)", len(poly))
	}
	want := orb.Ring{{0, 0}, {4, 0}, {4, 4}, {0, 4}, {0, 0}}
	if !reflect.DeepEqual(poly[0], want) {
		t.Errorf("outer ring = %v, want %v", poly[0], want)
	}
}

func TestConvert_MultiPolygon(t *testing.T) {
	raw := `{"type":"MultiPolygon","coordinates":[
		[[[0,0],[1,0],[1,1],[0,0]],[[0.1,0.1],[0.2,0.1],[0.2,0.2],[0.1,0.1]]],
		[[[5,5],[6,5],[6,6],[5,5]]]
	]}`
	g := Convert(json.RawMessage(raw))

	mp, ok := g.(orb.MultiPolygon)
	if !ok {
		t.Fatalf("Convert() = %T, want orb.MultiPolygon", g)
	}
	if len(mp) != 2 {
		t.Fatalf("len(mp) = %d, want 2", len(mp))
	}
	for i, poly := range mp {
		if len(poly) != 1 {
			t.Errorf("polygon %d has %d rings, want 1", i, len(poly))
		}
	}
}

func TestConvert_MultiPoint(t *testing.T) {
	g := Convert(json.RawMessage(`{"type":"MultiPoint","coordinates":[[0,0],[1,2]]}`))
	want := orb.MultiPoint{{0, 0}, {1, 2}}
	if !reflect.DeepEqual(g, want) {
		t.Errorf("Convert() = %v, want %v", g, want)
	}
}

func TestConvert_MultiLineString(t *testing.T) {
	g := Convert(json.RawMessage(`{"type":"MultiLineString","coordinates":[[[0,0],[1,0]],[[2,2],[3,3]]]}`))
	want := orb.MultiLineString{{{0, 0}, {1, 0}}, {{2, 2}, {3, 3}}}
	if !reflect.DeepEqual(g, want) {
		t.Errorf("Convert() = %v, want %v", g, want)
	}
}

func TestConvert_Invalid(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"empty", ``},
		{"null", `null`},
		{"not json", `{{`},
		{"missing type", `{"coordinates":[1,2]}`},
		{"unknown type", `{"type":"GeometryCollection","coordinates":[]}`},
		{"wrong nesting", `{"type":"Polygon","coordinates":[1,2]}`},
		{"empty polygon", `{"type":"Polygon","coordinates":[]}`},
		{"empty linestring", `{"type":"LineString","coordinates":[]}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if g := Convert(json.RawMessage(tc.raw)); g != nil {
				t.Errorf("Convert(%s) = %v, want nil", tc.raw, g)
			}
		})
	}
}

func TestShapeOf(t *testing.T) {
	cases := []struct {
		g    orb.Geometry
		want Shape
	}{
		{orb.Point{0, 0}, ShapePoint},
		{orb.MultiPoint{{0, 0}}, ShapePoint},
		{orb.LineString{{0, 0}, {1, 1}}, ShapeLine},
		{orb.MultiLineString{{{0, 0}, {1, 1}}}, ShapeLine},
		{orb.Polygon{{{0, 0}, {1, 0}, {1, 1}, {0, 0}}}, ShapePolygon},
		{orb.MultiPolygon{{{{0, 0}, {1, 0}, {1, 1}, {0, 0}}}}, ShapePolygon},
		{nil, ShapeUnknown},
	}

	for _, tc := range cases {
		if got := ShapeOf(tc.g); got != tc.want {
			t.Errorf("ShapeOf(%v) = %v, want %v", tc.g, got, tc.want)
		}
	}
}

func TestAnchorPoint_PointPassesThrough(t *testing.T) {
	p := orb.Point{3, 4}
	if got := AnchorPoint(p); got != p {
		t.Errorf("AnchorPoint(%v) = %v, want unchanged", p, got)
	}
}

func TestAnchorPoint_PolygonCentroid(t *testing.T) {
	poly := orb.Polygon{{{0, 0}, {2, 0}, {2, 2}, {0, 2}, {0, 0}}}
	want := orb.Point{1, 1}
	if got := AnchorPoint(poly); got != want {
		t.Errorf("AnchorPoint(square) = %v, want %v", got, want)
	}
}
