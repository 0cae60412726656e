package geo

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"lintang/nightwalk/pkg/datastructure"
	"lintang/nightwalk/pkg/errs"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"
)

const (
	// DefaultCRS dipakai kalau graph tidak declare crs.
	DefaultCRS    = "EPSG:3857"
	GeographicCRS = "EPSG:4326"
)

var (
	ErrUnknownCRS   = errors.New("unknown crs")
	ErrNotPlanarCRS = errors.New("crs is not planar")
)

// Transformer converts between lon/lat (EPSG:4326) and one planar crs.
type Transformer struct {
	crs     string
	forward orb.Projection
	inverse orb.Projection
}

// ResolveTransformer builds the transformer for a planar crs. Supported: EPSG:3857 (web mercator),
// EPSG:326zz / EPSG:327zz (WGS84 UTM north / south). An empty crs resolves to DefaultCRS.
func ResolveTransformer(crs string) (*Transformer, error) {
	code := strings.ToUpper(strings.TrimSpace(crs))
	if code == "" {
		code = DefaultCRS
	}

	switch {
	case code == "EPSG:3857" || code == "EPSG:900913":
		return &Transformer{
			crs:     code,
			forward: project.WGS84.ToMercator,
			inverse: project.Mercator.ToWGS84,
		}, nil
	case code == GeographicCRS:
		return nil, &errs.ProjectionError{CRS: crs, Err: ErrNotPlanarCRS}
	case strings.HasPrefix(code, "EPSG:326") || strings.HasPrefix(code, "EPSG:327"):
		zone, err := strconv.Atoi(code[len("EPSG:326"):])
		if err != nil || zone < 1 || zone > 60 || len(code) != len("EPSG:32601") {
			return nil, &errs.ProjectionError{CRS: crs, Err: fmt.Errorf("invalid utm zone: %w", ErrUnknownCRS)}
		}
		south := strings.HasPrefix(code, "EPSG:327")
		u := newUTM(zone, south)
		return &Transformer{
			crs:     code,
			forward: u.forward,
			inverse: u.inverse,
		}, nil
	}

	return nil, &errs.ProjectionError{CRS: crs, Err: ErrUnknownCRS}
}

// UTMCrsFor returns the utm crs whose zone contains lat/lon, the same choice osmnx makes when projecting a graph.
func UTMCrsFor(lat, lon float64) string {
	zone := int(math.Floor((lon+180)/6)) + 1
	if zone > 60 {
		zone = 60
	}
	if zone < 1 {
		zone = 1
	}
	if lat < 0 {
		return fmt.Sprintf("EPSG:327%02d", zone)
	}
	return fmt.Sprintf("EPSG:326%02d", zone)
}

func (t *Transformer) CRS() string {
	return t.crs
}

// ToPlanar lon/lat degrees -> planar x/y meters.
func (t *Transformer) ToPlanar(lon, lat float64) (float64, float64) {
	p := t.forward(orb.Point{lon, lat})
	return p.X(), p.Y()
}

// ToGeographic planar x/y -> lon/lat degrees.
func (t *Transformer) ToGeographic(x, y float64) (float64, float64) {
	p := t.inverse(orb.Point{x, y})
	return p.Lon(), p.Lat()
}

func (t *Transformer) ProjectPoint(p datastructure.GeoPoint) datastructure.ProjectedPoint {
	x, y := t.ToPlanar(p.Lon, p.Lat)
	return datastructure.NewProjectedPoint(x, y)
}

func (t *Transformer) ProjectPoints(points []datastructure.GeoPoint) []datastructure.ProjectedPoint {
	projected := make([]datastructure.ProjectedPoint, 0, len(points))
	for _, p := range points {
		projected = append(projected, t.ProjectPoint(p))
	}
	return projected
}

// ProjectGraph fills the planar coordinate of every node.
func (t *Transformer) ProjectGraph(g *datastructure.StreetGraph) {
	for i, n := range g.Nodes() {
		x, y := t.ToPlanar(n.Lon, n.Lat)
		g.SetNodeProjection(int32(i), x, y)
	}
}

// PlanarToBoundingBox re-projects a planar bound to a geographic bbox enclosing all four corners.
func (t *Transformer) PlanarToBoundingBox(b orb.Bound) datastructure.BoundingBox {
	corners := orb.MultiPoint{
		b.Min,
		{b.Max.X(), b.Min.Y()},
		b.Max,
		{b.Min.X(), b.Max.Y()},
	}
	geographic := make(orb.MultiPoint, 0, len(corners))
	for _, c := range corners {
		lon, lat := t.ToGeographic(c.X(), c.Y())
		geographic = append(geographic, orb.Point{lon, lat})
	}
	return datastructure.BoundingBoxFromBound(geographic.Bound())
}
