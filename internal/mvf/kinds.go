package mvf

import "encoding/json"

// KindUnknown is assigned to geometries with no kind-table entry.
const KindUnknown = "unknown"

// KindTable maps geometry ids to semantic kind strings for one floor.
// Built once per floor, never mutated afterwards. Entries referencing
// ids absent from the geometry set are harmless.
type KindTable map[string]string

// Kind returns the kind for a geometry id, defaulting to KindUnknown.
func (t KindTable) Kind(geometryID string) string {
	if kind, ok := t[geometryID]; ok && kind != "" {
		return kind
	}
	return KindUnknown
}

// decodeKinds parses one per-floor kinds document. A malformed
// document yields an empty table.
func decodeKinds(data []byte) KindTable {
	if data == nil {
		return KindTable{}
	}

	var table KindTable
	if err := json.Unmarshal(data, &table); err != nil {
		return KindTable{}
	}
	return table
}
