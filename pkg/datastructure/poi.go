package datastructure

type POIKind string

const (
	KindIncident         POIKind = "incident"
	KindStreetLamp       POIKind = "street_lamp"
	KindConvenienceStore POIKind = "convenience_store"
	KindPolicePost       POIKind = "police_post"
)

// LiveKinds are the kinds fetched from the geodata service per request.
// incident history is loaded once at startup.
var LiveKinds = []POIKind{KindStreetLamp, KindConvenienceStore, KindPolicePost}

func (k POIKind) IsLive() bool {
	return k == KindStreetLamp || k == KindConvenienceStore || k == KindPolicePost
}

// Tags is the raw key/value map of an osm element. only used for display.
type Tags map[string]string

func (t Tags) Get(key string) (string, bool) {
	if t == nil {
		return "", false
	}
	v, ok := t[key]
	return v, ok
}

// GeoPoint is an incident, lamp, store or police post. Immutable once loaded.
type GeoPoint struct {
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
	Tags Tags    `json:"tags,omitempty"`
}

func NewGeoPoint(lat, lon float64, tags Tags) GeoPoint {
	return GeoPoint{Lat: lat, Lon: lon, Tags: tags}
}

func (p GeoPoint) Coordinate() Coordinate {
	return NewCoordinate(p.Lat, p.Lon)
}
