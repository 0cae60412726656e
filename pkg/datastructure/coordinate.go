package datastructure

import (
	"github.com/twpayne/go-polyline"
)

type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func NewCoordinate(lat, lon float64) Coordinate {
	return Coordinate{
		Lat: lat,
		Lon: lon,
	}
}

func NewCoordinates(lat, lon []float64) []Coordinate {
	coords := make([]Coordinate, len(lat))
	for i := range lat {
		coords[i] = NewCoordinate(lat[i], lon[i])
	}
	return coords
}

// CreatePolyline encode path ke google encoded polyline (precision 5).
func CreatePolyline(path []Coordinate) string {
	coords := make([][]float64, 0, len(path))
	for _, p := range path {
		coords = append(coords, []float64{p.Lat, p.Lon})
	}
	return string(polyline.EncodeCoords(coords))
}

// ProjectedPoint is a point in the planar CRS of the current request. Units are meters.
type ProjectedPoint struct {
	X float64
	Y float64
}

func NewProjectedPoint(x, y float64) ProjectedPoint {
	return ProjectedPoint{X: x, Y: y}
}

func Midpoint(a, b ProjectedPoint) ProjectedPoint {
	return ProjectedPoint{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
}
