package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mr1hm/go-intensity-maps/internal/models"
)

// Files names the artifacts of one run. With a prefix every name becomes "<prefix>_<name>".
type Files struct {
	IntensityMap  string
	DifferenceMap string
	GeoJSON       string
	Summary       string
}

func FileNames(dir, prefix, eventID string) Files {
	if prefix != "" {
		prefix += "_"
	}
	name := func(format string) string {
		return filepath.Join(dir, prefix+fmt.Sprintf(format, eventID))
	}
	return Files{
		IntensityMap:  name("mapa_%s.html"),
		DifferenceMap: name("mapa_diferencia_%s.html"),
		GeoJSON:       name("reportes_%s.geojson"),
		Summary:       name("resumen_%s.json"),
	}
}

func (f Files) All() []string {
	return []string{f.IntensityMap, f.DifferenceMap, f.GeoJSON, f.Summary}
}

type Writer struct {
	Dir    string
	Prefix string
	Zoom   int
}

func NewWriter(dir, prefix string, zoom int) *Writer {
	return &Writer{Dir: dir, Prefix: prefix, Zoom: zoom}
}

// Write renders both maps, the GeoJSON and the summary for one event.
// summary.Files is filled with the paths written.
func (w *Writer) Write(event *models.Event, reports []models.ClassifiedReport, summary *models.Summary) (Files, error) {
	files := FileNames(w.Dir, w.Prefix, event.ID)

	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return files, fmt.Errorf("error creating output dir: %w", err)
	}

	if err := writeMap(files.IntensityMap, IntensityMap(event, reports, w.Zoom)); err != nil {
		return files, err
	}
	if err := writeMap(files.DifferenceMap, DifferenceMap(event, reports, w.Zoom)); err != nil {
		return files, err
	}
	if err := writeJSON(files.GeoJSON, toGeoJSON(event, reports)); err != nil {
		return files, err
	}

	summary.Files = files.All()
	if err := writeJSON(files.Summary, summary); err != nil {
		return files, err
	}

	return files, nil
}

func writeMap(path string, m *Map) error {
	var buf bytes.Buffer
	if err := WriteHTML(&buf, m); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("error writing %s: %w", path, err)
	}
	slog.Debug("wrote map", "path", path, "markers", m.Markers())
	return nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("error encoding %s: %w", path, err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("error writing %s: %w", path, err)
	}
	slog.Debug("wrote file", "path", path, "bytes", len(data))
	return nil
}
