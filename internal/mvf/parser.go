package mvf

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/indoorgis/mvfkit/internal/geo"
)

// DefaultVenueName is used when the manifest is absent or carries no
// venue name.
const DefaultVenueName = "Unknown Venue"

// Venue is the result of parsing one MVF package: the venue name from
// the manifest plus the ordered layer descriptors.
type Venue struct {
	Name   string
	Layers []Layer
}

// Parse reads the MVF package at path and returns its layers.
//
// Only two failures are fatal: ErrUnsupportedFormat for an
// unrecognized path extension and ErrPackageUnreadable when the
// archive cannot be opened. Every other anomaly, from a malformed
// document to a single bad geometry, degrades to fewer features or
// layers than the package nominally describes.
//
// Each call builds its indices from scratch, so concurrent parses of
// different packages are independent.
func Parse(path string) (*Venue, error) {
	arc, err := readArchive(path)
	if err != nil {
		return nil, err
	}

	venueName := decodeVenueName(arc.Manifest)
	floors := decodeFloors(arc.Floors)

	kinds := make(map[string]KindTable, len(arc.Kinds))
	for _, doc := range arc.Kinds {
		kinds[doc.FloorID] = decodeKinds(doc.Data)
	}

	featuresByFloor := make(map[string][]GeometryFeature, len(arc.Geometry))
	floorOrder := make([]string, 0, len(arc.Geometry))
	for _, doc := range arc.Geometry {
		if _, seen := featuresByFloor[doc.FloorID]; seen {
			continue
		}
		featuresByFloor[doc.FloorID] = decodeGeometry(doc.FloorID, doc.Data, kinds[doc.FloorID])
		floorOrder = append(floorOrder, doc.FloorID)
	}

	index := make(geometryIndex, len(featuresByFloor))
	for floorID, features := range featuresByFloor {
		index.add(floorID, features)
	}

	locations := decodeLocations(arc.Locations)
	locationsByFloor := resolveLocations(locations, index)

	layers := assemble(venueName, floors, floorOrder, featuresByFloor, locationsByFloor, arc.Extensions)

	log.Info().
		Str("venue", venueName).
		Int("floors", len(floors)).
		Int("locations", len(locations)).
		Int("layers", len(layers)).
		Msg("Parsed MVF package")

	return &Venue{Name: venueName, Layers: layers}, nil
}

// decodeVenueName reads the venue name from the manifest document.
func decodeVenueName(data []byte) string {
	if data == nil {
		return DefaultVenueName
	}

	var doc featureDoc
	if err := json.Unmarshal(data, &doc); err != nil || len(doc.Features) == 0 {
		return DefaultVenueName
	}

	var props manifestProperties
	if doc.Features[0].Properties != nil {
		_ = json.Unmarshal(doc.Features[0].Properties, &props)
	}
	if props.Name == "" {
		return DefaultVenueName
	}
	return props.Name
}

// decodeGeometry parses one per-floor geometry document into tagged
// features. Features with unconvertible or absent geometry are
// excluded here, before classification.
func decodeGeometry(floorID string, data []byte, kinds KindTable) []GeometryFeature {
	if data == nil {
		return nil
	}

	var doc featureDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		log.Warn().Err(err).Str("floor", floorID).Msg("Skipping malformed geometry document")
		return nil
	}

	features := make([]GeometryFeature, 0, len(doc.Features))
	for _, f := range doc.Features {
		g := geo.Convert(f.Geometry)
		if g == nil {
			continue
		}

		var props geometryProperties
		if f.Properties != nil {
			_ = json.Unmarshal(f.Properties, &props)
		}

		features = append(features, GeometryFeature{
			ID:          props.ID,
			FloorID:     floorID,
			Geometry:    g,
			Name:        props.Details.Name,
			Description: props.Details.Description,
			ExternalID:  props.Details.ExternalID,
			Icon:        props.Details.Icon,
			Kind:        kinds.Kind(props.ID),
		})
	}

	log.Debug().
		Str("floor", floorID).
		Int("features", len(features)).
		Int("dropped", len(doc.Features)-len(features)).
		Msg("Decoded floor geometry")

	return features
}

// assemble packages the parsed data into the final ordered layer list:
// the venue-wide floor-boundary layer, then per-floor layers in
// floors-document order (floors known only from geometry documents
// follow in archive order), then extension layers.
func assemble(
	venueName string,
	floors []Floor,
	floorOrder []string,
	featuresByFloor map[string][]GeometryFeature,
	locationsByFloor map[string][]Feature,
	extensions []extensionDocument,
) []Layer {
	var layers []Layer

	if boundary, ok := floorBoundaryLayer(venueName, floors); ok {
		layers = append(layers, boundary)
	}

	for _, floorID := range orderedFloorIDs(floors, floorOrder) {
		name := floorName(floors, floorID)
		buckets := ClassifyAll(featuresByFloor[floorID])

		if l, ok := geometryLayer(name+" - Doors", LayerLineString, StyleDoor, buckets.Doors); ok {
			layers = append(layers, l)
		}
		if l, ok := geometryLayer(name+" - Windows", LayerLineString, StyleWindow, buckets.Windows); ok {
			layers = append(layers, l)
		}
		if l, ok := geometryLayer(name+" - Walls", LayerLineString, StyleWall, buckets.Walls); ok {
			layers = append(layers, l)
		}
		if l, ok := geometryLayer(name+" - Spaces", LayerPolygon, StyleNone, buckets.Spaces); ok {
			layers = append(layers, l)
		}
		if l, ok := geometryLayer(name+" - Doors", LayerLineString, StyleLineDoors, buckets.LineDoors); ok {
			layers = append(layers, l)
		}
		if l, ok := geometryLayer(name+" - Connections", LayerPoint, StyleNone, buckets.Connections); ok {
			layers = append(layers, l)
		}

		if features := locationsByFloor[floorID]; len(features) > 0 {
			layers = append(layers, Layer{
				Name:     name + " - Locations",
				Type:     LayerPoint,
				Fields:   locationFields(),
				Features: features,
			})
		}
	}

	for _, ext := range extensions {
		if l, ok := extensionLayer(venueName, ext); ok {
			layers = append(layers, l)
		}
	}

	return layers
}

// orderedFloorIDs yields floors-document order first, then floors seen
// only in geometry documents, each id once.
func orderedFloorIDs(floors []Floor, floorOrder []string) []string {
	seen := make(map[string]bool, len(floors)+len(floorOrder))
	ids := make([]string, 0, len(floors)+len(floorOrder))

	for _, f := range floors {
		if !seen[f.ID] {
			seen[f.ID] = true
			ids = append(ids, f.ID)
		}
	}
	for _, id := range floorOrder {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	return ids
}

// floorBoundaryLayer builds the venue-wide polygon layer from floor
// boundaries, skipped entirely when no floor carries usable geometry.
func floorBoundaryLayer(venueName string, floors []Floor) (Layer, bool) {
	var features []Feature
	for _, f := range floors {
		if f.Boundary == nil {
			continue
		}

		name := f.Name
		if name == "" {
			name = fmt.Sprintf("Floor %s", f.ID)
		}

		features = append(features, Feature{
			Geometry: f.Boundary,
			Attributes: map[string]any{
				"floor_id":    f.ID,
				"name":        name,
				"elevation":   f.Elevation,
				"description": f.Description,
				"external_id": f.ExternalID,
			},
		})
	}

	if len(features) == 0 {
		return Layer{}, false
	}

	return Layer{
		Name:     venueName + " - Floor Boundaries",
		Type:     LayerPolygon,
		Fields:   floorFields(),
		Features: features,
	}, true
}

// extensionLayer re-emits an unrecognized top-level GeoJSON document
// as an opaque id+JSON-blob layer.
func extensionLayer(venueName string, ext extensionDocument) (Layer, bool) {
	if ext.Data == nil {
		return Layer{}, false
	}

	var doc featureDoc
	if err := json.Unmarshal(ext.Data, &doc); err != nil {
		log.Warn().Err(err).Str("extension", ext.Name).Msg("Skipping malformed extension document")
		return Layer{}, false
	}

	var features []Feature
	for _, f := range doc.Features {
		g := geo.Convert(f.Geometry)
		if g == nil {
			continue
		}

		var props extensionProperties
		data := "{}"
		if f.Properties != nil {
			_ = json.Unmarshal(f.Properties, &props)
			data = string(f.Properties)
		}

		features = append(features, Feature{
			Geometry: g,
			Attributes: map[string]any{
				"id":   props.ID,
				"data": data,
			},
		})
	}

	if len(features) == 0 {
		return Layer{}, false
	}

	return Layer{
		Name:     venueName + " - " + extensionTitle(ext.Name),
		Type:     LayerMixed,
		Fields:   extensionFields(),
		Features: features,
	}, true
}

// extensionTitle turns an entry name like "points_of_interest" into
// "Points Of Interest".
func extensionTitle(name string) string {
	words := strings.Fields(strings.ReplaceAll(name, "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}
