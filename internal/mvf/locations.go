package mvf

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/paulmach/orb"

	"github.com/indoorgis/mvfkit/internal/geo"
)

// LocationAnchor references a geometry on a floor. It is resolved by
// lookup and silently dropped when dangling.
type LocationAnchor struct {
	GeometryID string `json:"geometryId"`
	FloorID    string `json:"floorId"`
}

// Location is one POI record from the locations document.
type Location struct {
	ID         string           `json:"id"`
	Details    details          `json:"details"`
	Categories []category       `json:"categories"`
	Anchors    []LocationAnchor `json:"geometryAnchors"`
}

// category tolerates both wire forms MVF uses: a bare string or an
// object carrying a name.
type category struct {
	Name string
}

func (c *category) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		c.Name = s
		return nil
	}
	var obj struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &obj); err == nil {
		c.Name = obj.Name
	}
	return nil
}

// decodeLocations parses the locations document, accepting either a
// bare array of location records or a FeatureCollection wrapping them
// in feature properties. A malformed document yields no locations.
func decodeLocations(data []byte) []Location {
	if data == nil {
		return nil
	}

	var list []Location
	if err := json.Unmarshal(data, &list); err == nil {
		return list
	}

	var doc featureDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil
	}

	locations := make([]Location, 0, len(doc.Features))
	for _, f := range doc.Features {
		if f.Properties == nil {
			continue
		}
		var loc Location
		if err := json.Unmarshal(f.Properties, &loc); err != nil {
			continue
		}
		locations = append(locations, loc)
	}
	return locations
}

// geometryIndex maps (floorID, geometryID) to converted geometry. It
// covers the full converted set, before any kind-based discard, so
// anchors into walls and doors still resolve.
type geometryIndex map[string]map[string]orb.Geometry

func (x geometryIndex) add(floorID string, features []GeometryFeature) {
	byID, ok := x[floorID]
	if !ok {
		byID = make(map[string]orb.Geometry, len(features))
		x[floorID] = byID
	}
	for _, f := range features {
		// first match wins when ids are duplicated
		if _, exists := byID[f.ID]; !exists {
			byID[f.ID] = f.Geometry
		}
	}
}

func (x geometryIndex) lookup(floorID, geometryID string) (orb.Geometry, bool) {
	byID, ok := x[floorID]
	if !ok {
		return nil, false
	}
	g, ok := byID[geometryID]
	return g, ok
}

// resolveLocations follows each location's geometry anchors into the
// index and emits one point feature per resolved anchor, grouped by
// floor id. Locations with no resolvable anchors produce nothing.
// Non-point anchor geometry is reduced to its centroid.
func resolveLocations(locations []Location, index geometryIndex) map[string][]Feature {
	byFloor := make(map[string][]Feature)

	for _, loc := range locations {
		if len(loc.Anchors) == 0 {
			continue
		}

		names := make([]string, 0, len(loc.Categories))
		for _, c := range loc.Categories {
			names = append(names, c.Name)
		}
		categories := strings.Join(names, ", ")
		anchorCount := strconv.Itoa(len(loc.Anchors))

		for _, anchor := range loc.Anchors {
			g, ok := index.lookup(anchor.FloorID, anchor.GeometryID)
			if !ok {
				continue
			}

			byFloor[anchor.FloorID] = append(byFloor[anchor.FloorID], Feature{
				Geometry: geo.AnchorPoint(g),
				Attributes: map[string]any{
					"location_id":  loc.ID,
					"name":         loc.Details.Name,
					"description":  loc.Details.Description,
					"external_id":  loc.Details.ExternalID,
					"icon":         loc.Details.Icon,
					"categories":   categories,
					"floor_id":     anchor.FloorID,
					"geometry_id":  anchor.GeometryID,
					"anchor_count": anchorCount,
				},
			})
		}
	}

	return byFloor
}
