// Package export materializes parsed layers as GeoJSON files on disk,
// one file per layer plus a per-venue index.
package export

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/paulmach/orb/geojson"
	"github.com/rs/zerolog/log"
	"github.com/tdewolff/minify/v2"
	mjson "github.com/tdewolff/minify/v2/json"

	"github.com/indoorgis/mvfkit/internal/mvf"
)

// IndexEntry describes one exported layer in the venue index.
type IndexEntry struct {
	Name     string        `json:"name"`
	Type     mvf.LayerType `json:"type"`
	Style    mvf.StyleHint `json:"style,omitempty"`
	File     string        `json:"file"`
	Features int           `json:"features"`
}

// Writer writes venues to a base output directory.
type Writer struct {
	Dir    string
	Minify bool

	m *minify.M
}

// NewWriter creates a writer rooted at dir.
func NewWriter(dir string, compact bool) *Writer {
	m := minify.New()
	m.AddFunc("application/json", mjson.Minify)

	return &Writer{Dir: dir, Minify: compact, m: m}
}

// WriteVenue writes every layer of the venue under <dir>/<venue slug>/
// and an index.json describing them. The directory name falls back to
// the venue name when label is empty.
func (w *Writer) WriteVenue(venue *mvf.Venue, label string) error {
	if label == "" {
		label = venue.Name
	}

	venueDir := filepath.Join(w.Dir, slug(label))
	if err := os.MkdirAll(venueDir, 0755); err != nil {
		return err
	}

	index := make([]IndexEntry, 0, len(venue.Layers))
	for _, layer := range venue.Layers {
		file := layerFileName(layer, index)
		if err := w.writeLayer(filepath.Join(venueDir, file), layer); err != nil {
			return err
		}

		index = append(index, IndexEntry{
			Name:     layer.Name,
			Type:     layer.Type,
			Style:    layer.Style,
			File:     file,
			Features: len(layer.Features),
		})

		log.Debug().
			Str("layer", layer.Name).
			Str("file", file).
			Int("features", len(layer.Features)).
			Msg("Layer written")
	}

	return w.writeJSON(filepath.Join(venueDir, "index.json"), index)
}

// writeLayer encodes one layer as a GeoJSON FeatureCollection.
func (w *Writer) writeLayer(path string, layer mvf.Layer) error {
	fc := geojson.NewFeatureCollection()
	for _, f := range layer.Features {
		feature := geojson.NewFeature(f.Geometry)
		for _, field := range layer.Fields {
			feature.Properties[field.Name] = f.Attributes[field.Name]
		}
		fc.Append(feature)
	}

	return w.writeJSON(path, fc)
}

func (w *Writer) writeJSON(path string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	if w.Minify {
		var buf bytes.Buffer
		if err := w.m.Minify("application/json", &buf, bytes.NewReader(data)); err == nil {
			data = buf.Bytes()
		}
	}

	return os.WriteFile(path, data, 0644)
}

// layerFileName derives a unique file name for a layer within one
// venue. The two same-named Doors layers are disambiguated by style.
func layerFileName(layer mvf.Layer, written []IndexEntry) string {
	name := slug(layer.Name)
	if layer.Style == mvf.StyleLineDoors {
		name += "-line"
	}

	file := name + ".geojson"
	for n := 2; taken(file, written); n++ {
		file = name + "-" + strconv.Itoa(n) + ".geojson"
	}
	return file
}

func taken(file string, written []IndexEntry) bool {
	for _, e := range written {
		if e.File == file {
			return true
		}
	}
	return false
}

// slug lowers a layer name and collapses non-alphanumeric runs to a
// single hyphen.
func slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		default:
			if !dash && b.Len() > 0 {
				b.WriteByte('-')
				dash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
