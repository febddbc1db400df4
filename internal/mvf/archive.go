package mvf

import (
	"archive/zip"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

const (
	manifestEntry  = "manifest.geojson"
	floorsEntry    = "floors.geojson"
	kindsPrefix    = "kinds/"
	geometryPrefix = "geometry/"
)

// floorDocument is one per-floor payload (kinds or geometry) with the
// floor id derived from the entry name.
type floorDocument struct {
	FloorID string
	Data    []byte
}

// extensionDocument is a top-level GeoJSON entry not claimed by the
// core documents.
type extensionDocument struct {
	Name string
	Data []byte
}

// archive holds the raw contents of one MVF package, fully read into
// memory. Slices keep the archive's entry order.
type archive struct {
	Manifest   []byte
	Floors     []byte
	Kinds      []floorDocument
	Geometry   []floorDocument
	Locations  []byte
	Extensions []extensionDocument
}

// readArchive opens the container at path and classifies its entries.
// The ZIP handle is closed before returning, success or not.
func readArchive(path string) (*archive, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".zip", ".mvf":
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}

	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrPackageUnreadable, path, err)
	}
	defer func() { _ = zr.Close() }()

	var arc archive
	var locationsJSON []byte
	for _, entry := range zr.File {
		name := entry.Name

		switch {
		case name == manifestEntry:
			arc.Manifest = readEntry(entry)

		case name == floorsEntry:
			arc.Floors = readEntry(entry)

		case strings.HasPrefix(name, kindsPrefix) && strings.HasSuffix(name, ".json"):
			arc.Kinds = append(arc.Kinds, floorDocument{
				FloorID: floorIDFromEntry(name),
				Data:    readEntry(entry),
			})

		case strings.HasPrefix(name, geometryPrefix) && strings.HasSuffix(name, ".geojson"):
			arc.Geometry = append(arc.Geometry, floorDocument{
				FloorID: floorIDFromEntry(name),
				Data:    readEntry(entry),
			})

		case name == "locations.geojson":
			arc.Locations = readEntry(entry)

		case name == "locations.json":
			locationsJSON = readEntry(entry)

		case strings.HasSuffix(name, ".geojson") && !strings.Contains(name, "/"):
			arc.Extensions = append(arc.Extensions, extensionDocument{
				Name: strings.TrimSuffix(name, ".geojson"),
				Data: readEntry(entry),
			})
		}
	}

	// locations.geojson wins over locations.json when both exist
	if arc.Locations == nil {
		arc.Locations = locationsJSON
	}

	return &arc, nil
}

// readEntry reads one ZIP entry fully, returning nil when the entry
// cannot be read. A broken entry degrades to a skipped document.
func readEntry(entry *zip.File) []byte {
	rc, err := entry.Open()
	if err != nil {
		log.Warn().Err(err).Str("entry", entry.Name).Msg("Skipping unreadable archive entry")
		return nil
	}
	defer func() { _ = rc.Close() }()

	data, err := io.ReadAll(rc)
	if err != nil {
		log.Warn().Err(err).Str("entry", entry.Name).Msg("Skipping unreadable archive entry")
		return nil
	}

	return data
}

// floorIDFromEntry derives the floor id from a per-floor entry name,
// e.g. geometry/f_00000001.geojson -> f_00000001.
func floorIDFromEntry(name string) string {
	base := path.Base(name)
	base = strings.TrimSuffix(base, ".geojson")
	return strings.TrimSuffix(base, ".json")
}
