package incident

import (
	"lintang/nightwalk/pkg/datastructure"
)

// Store immutable incident history shared by every request.
type Store struct {
	points []datastructure.GeoPoint
}

func NewStore(points []datastructure.GeoPoint) *Store {
	if points == nil {
		points = []datastructure.GeoPoint{}
	}
	return &Store{points: points}
}

func (s *Store) Incidents() []datastructure.GeoPoint {
	return s.points
}

func (s *Store) Len() int {
	return len(s.points)
}
