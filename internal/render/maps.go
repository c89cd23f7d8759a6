package render

import (
	"fmt"

	"github.com/mr1hm/go-intensity-maps/internal/models"
)

// Intensity colours of the INSIVUMEH seismology department, levels 1-10.
var intensityColors = map[int]string{
	1: "#0000A6", 2: "#49FE03", 3: "#FFFF01", 4: "#FFC800", 5: "#FFDE01",
	6: "#FFBD01", 7: "#FF9C01", 8: "#FF7C01", 9: "#C73E10", 10: "#90001F",
}

// Layer names per reported level. Reports rarely go above 10 (Worden et al., 2012).
var intensityLabels = map[int]string{
	1: "No sentido", 2: "Muy débil", 3: "Leve", 4: "Moderado", 5: "Poco fuerte",
	6: "Fuerte", 7: "Muy fuerte", 8: "Destructivo", 9: "Muy destructivo", 10: "Desastroso",
}

// Semaphore colours for the difference map, by DifferenceLevel.
var differenceColors = []string{"#00A600", "#FF9A00", "#C00000"}

var differenceLabels = []string{"diferencia = 0", "diferencia = 1", "diferencia ≥ 2"}

const epicenterColor = "#00008B"

func IntensityColor(level int) string {
	return intensityColors[models.ClampLevel(level)]
}

func DifferenceColor(c models.Category) string {
	return differenceColors[c.DifferenceLevel()]
}

// MarkerSize grows 2 px per level from 6 px at level 3 up to 16 px at level 8.
func MarkerSize(reported float64) int {
	return 2 * (3 + max(0, min(5, int(reported)-3)))
}

type Marker struct {
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Size    int     `json:"size"`
	Color   string  `json:"color"`
	Tooltip string  `json:"tooltip"`
}

type Layer struct {
	Name    string   `json:"name"`
	Markers []Marker `json:"markers"`
}

type LegendItem struct {
	Color string
	Label string
}

// Map is the data behind one rendered HTML page.
type Map struct {
	Title       string
	Event       *models.Event
	Zoom        int
	Layers      []Layer
	LegendTitle string
	Legend      []LegendItem
}

func (m *Map) EpicenterColor() string {
	return epicenterColor
}

func (m *Map) EpicenterTooltip() string {
	return fmt.Sprintf("Evento: %s | M=%.2f", m.Event.ID, m.Event.Magnitude)
}

func (m *Map) Date() string {
	return m.Event.OriginTime.UTC().Format("2006-01-02")
}

func (m *Map) Time() string {
	return m.Event.OriginTime.UTC().Format("15:04:05")
}

// Markers counts markers over all layers.
func (m *Map) Markers() int {
	n := 0
	for _, l := range m.Layers {
		n += len(l.Markers)
	}
	return n
}

// IntensityMap places every report in the layer of its reported level.
func IntensityMap(event *models.Event, reports []models.ClassifiedReport, zoom int) *Map {
	layers := make([]Layer, 0, models.MaxLevel)
	index := make(map[int]int, models.MaxLevel)
	for level := models.MinLevel; level <= models.MaxLevel; level++ {
		index[level] = len(layers)
		layers = append(layers, Layer{Name: intensityLabels[level], Markers: []Marker{}})
	}

	for _, r := range reports {
		level := r.ReportedLevel()
		i := index[level]
		layers[i].Markers = append(layers[i].Markers, Marker{
			Lat:     r.Latitude,
			Lon:     r.Longitude,
			Size:    MarkerSize(r.ReportedMMI),
			Color:   IntensityColor(level),
			Tooltip: fmt.Sprintf("R = %.1f km | IMM_o = %d", r.DistanceKm, int(r.ReportedMMI)),
		})
	}

	legend := make([]LegendItem, 0, models.MaxLevel)
	for level := models.MinLevel; level <= models.MaxLevel; level++ {
		legend = append(legend, LegendItem{Color: intensityColors[level], Label: intensityLabels[level]})
	}

	return &Map{
		Title:       fmt.Sprintf("Intensidades reportadas %s", event.ID),
		Event:       event,
		Zoom:        zoom,
		Layers:      layers,
		LegendTitle: "Intensidad reportada",
		Legend:      legend,
	}
}

// DifferenceMap places every report in one of three layers by how far its
// category is from a match.
func DifferenceMap(event *models.Event, reports []models.ClassifiedReport, zoom int) *Map {
	layers := make([]Layer, len(differenceLabels))
	for i, name := range differenceLabels {
		layers[i] = Layer{Name: name, Markers: []Marker{}}
	}

	for _, r := range reports {
		d := r.Category.DifferenceLevel()
		layers[d].Markers = append(layers[d].Markers, Marker{
			Lat:   r.Latitude,
			Lon:   r.Longitude,
			Size:  MarkerSize(r.ReportedMMI),
			Color: differenceColors[d],
			Tooltip: fmt.Sprintf("IMM_o = %d | IMM_t = %d | dif = %g (%s)",
				int(r.ReportedMMI), r.TheoreticalLevel, r.Difference, r.Category),
		})
	}

	legend := make([]LegendItem, len(differenceLabels))
	for i := range differenceLabels {
		legend[i] = LegendItem{Color: differenceColors[i], Label: differenceLabels[i]}
	}

	return &Map{
		Title:       fmt.Sprintf("Diferencias de intensidad %s", event.ID),
		Event:       event,
		Zoom:        zoom,
		Layers:      layers,
		LegendTitle: "Nivel de diferencia",
		Legend:      legend,
	}
}
