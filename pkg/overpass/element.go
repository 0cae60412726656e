package overpass

import (
	"strings"

	"lintang/nightwalk/pkg/datastructure"

	"github.com/paulmach/osm"
	"golang.org/x/exp/slices"
)

type Center struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Element one entry of the overpass json "elements" array. nodes carry lat/lon, ways queried
// with "out center" carry a center, ways queried with "out body" carry their node refs.
type Element struct {
	Type   osm.Type          `json:"type"`
	ID     int64             `json:"id"`
	Lat    *float64          `json:"lat,omitempty"`
	Lon    *float64          `json:"lon,omitempty"`
	Center *Center           `json:"center,omitempty"`
	Nodes  []int64           `json:"nodes,omitempty"`
	Tags   map[string]string `json:"tags,omitempty"`
}

type Response struct {
	Version   float64   `json:"version"`
	Generator string    `json:"generator"`
	Remark    string    `json:"remark,omitempty"`
	Elements  []Element `json:"elements"`
}

// Position lat/lon of the element itself, else its center. ok false if it has neither.
func (e Element) Position() (float64, float64, bool) {
	if e.Lat != nil && e.Lon != nil {
		return *e.Lat, *e.Lon, true
	}
	if e.Center != nil {
		return e.Center.Lat, e.Center.Lon, true
	}
	return 0, 0, false
}

// OSMTags tags sorted by key.
func (e Element) OSMTags() osm.Tags {
	tags := make(osm.Tags, 0, len(e.Tags))
	for k, v := range e.Tags {
		tags = append(tags, osm.Tag{Key: k, Value: v})
	}
	slices.SortFunc(tags, func(a, b osm.Tag) int { return strings.Compare(a.Key, b.Key) })
	return tags
}

// GeoPoints elements with a position, in response order. elements without one are skipped.
func (r *Response) GeoPoints() []datastructure.GeoPoint {
	points := make([]datastructure.GeoPoint, 0, len(r.Elements))
	for _, el := range r.Elements {
		lat, lon, ok := el.Position()
		if !ok {
			continue
		}
		var tags datastructure.Tags
		if len(el.Tags) > 0 {
			tags = datastructure.Tags(el.Tags)
		}
		points = append(points, datastructure.NewGeoPoint(lat, lon, tags))
	}
	return points
}
