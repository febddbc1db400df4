// Package server serves exported venue layers over HTTP for preview.
package server

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
)

// Context holds dependencies for request handlers.
type Context struct {
	// Dir is the export root: one subdirectory per venue, each with an
	// index.json and the layer .geojson files.
	Dir string
}

// New creates a server context rooted at the export directory.
func New(dir string) *Context {
	return &Context{Dir: dir}
}

// HandleVenues lists exported venues as a JSON array of directory
// names.
func (s *Context) HandleVenues(w http.ResponseWriter, r *http.Request) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		http.Error(w, "export directory not found", http.StatusNotFound)
		return
	}

	venues := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, err := os.Stat(filepath.Join(s.Dir, e.Name(), "index.json")); err == nil {
			venues = append(venues, e.Name())
		}
	}
	sort.Strings(venues)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(venues)
}

// HandleLayer serves venue files: /venues/{venue}/index.json or
// /venues/{venue}/{layer}.geojson.
func (s *Context) HandleLayer(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) != 3 || parts[0] != "venues" {
		http.NotFound(w, r)
		return
	}

	venue, file := parts[1], parts[2]
	if strings.Contains(venue, "..") || strings.Contains(file, "..") {
		http.NotFound(w, r)
		return
	}

	switch {
	case file == "index.json":
		s.serveFile(w, r, filepath.Join(s.Dir, venue, file), "application/json")
	case strings.HasSuffix(file, ".geojson"):
		s.serveFile(w, r, filepath.Join(s.Dir, venue, file), "application/geo+json")
	default:
		http.NotFound(w, r)
	}
}

func (s *Context) serveFile(w http.ResponseWriter, r *http.Request, path, contentType string) {
	if _, err := os.Stat(path); err != nil {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", contentType)
	http.ServeFile(w, r, path)
	log.Trace().Str("path", path).Msg("Served layer file")
}
