package incident

import (
	"lintang/nightwalk/pkg/datastructure"

	"github.com/uber/h3-go/v4"
	"golang.org/x/exp/slices"
)

const DefaultHeatmapResolution = 9

// HeatCell number of incidents inside one h3 cell. Lat/Lon is the cell center.
type HeatCell struct {
	Cell  string  `json:"cell"`
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
	Count int     `json:"count"`
}

// Heatmap bins points into h3 cells of resolution res, densest cell first.
func Heatmap(points []datastructure.GeoPoint, res int) []HeatCell {
	counts := make(map[h3.Cell]int)
	for _, p := range points {
		cell := h3.LatLngToCell(h3.NewLatLng(p.Lat, p.Lon), res)
		counts[cell]++
	}

	cells := make([]HeatCell, 0, len(counts))
	for cell, n := range counts {
		center := h3.CellToLatLng(cell)
		cells = append(cells, HeatCell{
			Cell:  cell.String(),
			Lat:   center.Lat,
			Lon:   center.Lng,
			Count: n,
		})
	}
	slices.SortFunc(cells, func(a, b HeatCell) int {
		if a.Count != b.Count {
			return b.Count - a.Count
		}
		if a.Cell < b.Cell {
			return -1
		}
		if a.Cell > b.Cell {
			return 1
		}
		return 0
	})
	return cells
}

// InBoundingBox incidents inside bbox, used to trim the heatmap to the route area.
func InBoundingBox(points []datastructure.GeoPoint, bbox datastructure.BoundingBox) []datastructure.GeoPoint {
	inside := make([]datastructure.GeoPoint, 0)
	for _, p := range points {
		if bbox.Contains(p.Lat, p.Lon) {
			inside = append(inside, p)
		}
	}
	return inside
}
