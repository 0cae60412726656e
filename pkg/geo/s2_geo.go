package geo

import (
	"lintang/nightwalk/pkg/datastructure"

	"github.com/golang/geo/s2"
)

// GeodesicDistance great-circle distance in meters.
func GeodesicDistance(a, b datastructure.Coordinate) float64 {
	return s2.LatLngFromDegrees(a.Lat, a.Lon).Distance(s2.LatLngFromDegrees(b.Lat, b.Lon)).Radians() * earthRadiusM
}

// PolylineLength geodesic length of a sequence of coordinates in meters.
func PolylineLength(coords []datastructure.Coordinate) float64 {
	if len(coords) < 2 {
		return 0
	}
	latlngs := make([]s2.LatLng, 0, len(coords))
	for _, c := range coords {
		latlngs = append(latlngs, s2.LatLngFromDegrees(c.Lat, c.Lon))
	}
	polyline := s2.PolylineFromLatLngs(latlngs)
	return polyline.Length().Radians() * earthRadiusM
}

// Centroid of a set of coordinates on the sphere.
func Centroid(coords []datastructure.Coordinate) datastructure.Coordinate {
	if len(coords) == 0 {
		return datastructure.Coordinate{}
	}
	var sum s2.Point
	for _, c := range coords {
		sum = s2.Point{Vector: sum.Add(s2.PointFromLatLng(s2.LatLngFromDegrees(c.Lat, c.Lon)).Vector)}
	}
	ll := s2.LatLngFromPoint(s2.Point{Vector: sum.Normalize()})
	return datastructure.NewCoordinate(ll.Lat.Degrees(), ll.Lng.Degrees())
}
