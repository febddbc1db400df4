package mvf

import "github.com/paulmach/orb"

// LayerType is the geometry type of a layer.
type LayerType string

const (
	LayerPoint      LayerType = "point"
	LayerLineString LayerType = "linestring"
	LayerPolygon    LayerType = "polygon"
	LayerMixed      LayerType = "mixed"
)

// StyleHint distinguishes layers sharing a geometry type for the
// presentation layer. StyleLineDoors marks the secondary doors layer
// built from unclassified lines.
type StyleHint string

const (
	StyleNone      StyleHint = ""
	StyleDoor      StyleHint = "door"
	StyleWindow    StyleHint = "window"
	StyleWall      StyleHint = "wall"
	StyleLineDoors StyleHint = "line_doors"
)

// Field is one attribute column of a layer. Type is "string" or
// "double".
type Field struct {
	Name string
	Type string
}

// Feature is one geometry plus its attribute values. Attribute keys
// match the owning layer's field names.
type Feature struct {
	Geometry   orb.Geometry
	Attributes map[string]any
}

// Layer is the normalized output unit handed to the host: a named,
// schema-bearing, ordered collection of features. Constructed once per
// parse and immutable afterwards. Layers with zero features are never
// emitted.
type Layer struct {
	Name     string
	Type     LayerType
	Style    StyleHint
	Fields   []Field
	Features []Feature
}

// Field schemas are fixed per layer category: identical across all
// floors and packages, a stable contract for downstream consumers.

func floorFields() []Field {
	return []Field{
		{"floor_id", "string"},
		{"name", "string"},
		{"elevation", "double"},
		{"description", "string"},
		{"external_id", "string"},
	}
}

func geometryFields() []Field {
	return []Field{
		{"geometry_id", "string"},
		{"floor_id", "string"},
		{"name", "string"},
		{"description", "string"},
		{"external_id", "string"},
		{"icon", "string"},
		{"kind", "string"},
	}
}

func locationFields() []Field {
	return []Field{
		{"location_id", "string"},
		{"name", "string"},
		{"description", "string"},
		{"external_id", "string"},
		{"icon", "string"},
		{"categories", "string"},
		{"floor_id", "string"},
		{"geometry_id", "string"},
		{"anchor_count", "string"},
	}
}

func extensionFields() []Field {
	return []Field{
		{"id", "string"},
		{"data", "string"},
	}
}

// geometryFeatureAttrs builds the attribute map for one classified
// geometry feature, matching geometryFields.
func geometryFeatureAttrs(f GeometryFeature) map[string]any {
	return map[string]any{
		"geometry_id": f.ID,
		"floor_id":    f.FloorID,
		"name":        f.Name,
		"description": f.Description,
		"external_id": f.ExternalID,
		"icon":        f.Icon,
		"kind":        f.Kind,
	}
}

// geometryLayer wraps one classified bucket into a layer, or returns
// false when the bucket is empty.
func geometryLayer(name string, typ LayerType, style StyleHint, bucket []GeometryFeature) (Layer, bool) {
	if len(bucket) == 0 {
		return Layer{}, false
	}

	features := make([]Feature, 0, len(bucket))
	for _, f := range bucket {
		features = append(features, Feature{
			Geometry:   f.Geometry,
			Attributes: geometryFeatureAttrs(f),
		})
	}

	return Layer{
		Name:     name,
		Type:     typ,
		Style:    style,
		Fields:   geometryFields(),
		Features: features,
	}, true
}
