package mvf

import (
	"encoding/json"

	"github.com/paulmach/orb"

	"github.com/indoorgis/mvfkit/internal/geo"
)

// Floor is one level of a venue as described by floors.geojson.
// Boundary is nil when the floor feature carried no usable geometry.
type Floor struct {
	ID          string
	Name        string
	Elevation   float64
	Description string
	ExternalID  string
	Boundary    orb.Geometry
}

// decodeFloors parses the floors document. A malformed document yields
// no floors, not an error.
func decodeFloors(data []byte) []Floor {
	if data == nil {
		return nil
	}

	var doc featureDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil
	}

	floors := make([]Floor, 0, len(doc.Features))
	for _, f := range doc.Features {
		var props floorProperties
		if f.Properties != nil {
			_ = json.Unmarshal(f.Properties, &props)
		}
		if props.ID == "" {
			props.ID = "unknown"
		}

		floors = append(floors, Floor{
			ID:          props.ID,
			Name:        props.Details.Name,
			Elevation:   props.Elevation,
			Description: props.Details.Description,
			ExternalID:  props.Details.ExternalID,
			Boundary:    geo.Convert(f.Geometry),
		})
	}

	return floors
}

// floorName resolves a floor id to its display name; the id itself is
// the fallback for floors absent from the floors document.
func floorName(floors []Floor, floorID string) string {
	for _, f := range floors {
		if f.ID == floorID {
			if f.Name != "" {
				return f.Name
			}
			return floorID
		}
	}
	return floorID
}
