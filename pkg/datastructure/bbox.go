package datastructure

import (
	"fmt"
	"strconv"

	"github.com/paulmach/orb"
)

// BoundingBox in geographic coordinates (degrees).
type BoundingBox struct {
	South float64 `json:"south"`
	West  float64 `json:"west"`
	North float64 `json:"north"`
	East  float64 `json:"east"`
}

func NewBoundingBox(south, west, north, east float64) BoundingBox {
	return BoundingBox{South: south, West: west, North: north, East: east}
}

// BoundingBoxFromBound converts an orb bound with lon/lat points.
func BoundingBoxFromBound(b orb.Bound) BoundingBox {
	return BoundingBox{South: b.Min.Lat(), West: b.Min.Lon(), North: b.Max.Lat(), East: b.Max.Lon()}
}

func (b BoundingBox) Bound() orb.Bound {
	return orb.Bound{Min: orb.Point{b.West, b.South}, Max: orb.Point{b.East, b.North}}
}

func (b BoundingBox) IsValid() bool {
	return b.South <= b.North && b.West <= b.East &&
		b.South >= -90 && b.North <= 90 && b.West >= -180 && b.East <= 180
}

func (b BoundingBox) Contains(lat, lon float64) bool {
	return lat >= b.South && lat <= b.North && lon >= b.West && lon <= b.East
}

func (b BoundingBox) Center() Coordinate {
	return NewCoordinate((b.South+b.North)/2, (b.West+b.East)/2)
}

// OverpassFilter returns the "(s,w,n,e)" bbox filter of the overpass QL.
func (b BoundingBox) OverpassFilter() string {
	return fmt.Sprintf("(%s,%s,%s,%s)", fmtDeg(b.South), fmtDeg(b.West), fmtDeg(b.North), fmtDeg(b.East))
}

func (b BoundingBox) String() string {
	return fmt.Sprintf("%s,%s,%s,%s", fmtDeg(b.South), fmtDeg(b.West), fmtDeg(b.North), fmtDeg(b.East))
}

func fmtDeg(v float64) string {
	return strconv.FormatFloat(v, 'f', 7, 64)
}
