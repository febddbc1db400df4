// Package mvf parses Mappedin MVF v3 packages into typed geographic
// layers grouped by floor.
//
// An MVF v3 package is a ZIP archive of GeoJSON documents: a manifest,
// floor boundaries, per-floor geometry and kind tables, an optional
// locations document and arbitrary extension documents. Parse walks
// the archive once and returns an ordered list of Layer descriptors
// ready for materialization by a GIS host.
package mvf

import "encoding/json"

// featureDoc is the wire shape of a GeoJSON FeatureCollection as found
// inside an MVF package. Geometry and properties stay raw so one bad
// feature never fails the whole document.
type featureDoc struct {
	Features []rawFeature `json:"features"`
}

type rawFeature struct {
	Geometry   json.RawMessage `json:"geometry"`
	Properties json.RawMessage `json:"properties"`
}

// details is the nested detail block MVF attaches to floor, geometry
// and location properties.
type details struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ExternalID  string `json:"externalId"`
	Icon        string `json:"icon"`
}

type manifestProperties struct {
	Name string `json:"name"`
}

type floorProperties struct {
	ID        string  `json:"id"`
	Elevation float64 `json:"elevation"`
	Details   details `json:"details"`
}

type geometryProperties struct {
	ID      string  `json:"id"`
	Details details `json:"details"`
}

type extensionProperties struct {
	ID string `json:"id"`
}
