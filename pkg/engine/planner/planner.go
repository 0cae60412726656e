package planner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"lintang/nightwalk/pkg/concurrent"
	"lintang/nightwalk/pkg/datastructure"
	"lintang/nightwalk/pkg/engine/routingalgorithm"
	"lintang/nightwalk/pkg/engine/safety"
	"lintang/nightwalk/pkg/errs"
	"lintang/nightwalk/pkg/geo"
	"lintang/nightwalk/pkg/logger"
	"lintang/nightwalk/pkg/snap"
)

type Mode string

var ErrUnknownMode = errors.New("unknown route mode")

const (
	ModeSafe     Mode = "safe"
	ModeShortest Mode = "shortest"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeSafe:
		return ModeSafe, nil
	case ModeShortest:
		return ModeShortest, nil
	}
	return "", fmt.Errorf("%w %q", ErrUnknownMode, s)
}

type Request struct {
	Origin      string
	Destination string
	Area        string
	Mode        Mode
}

type Result struct {
	Mode  Mode
	CRS   string
	Route datastructure.Route
	Path  []datastructure.Coordinate
	Score safety.RouteScore
	// Origin & Destination geocoded coordinates, Path starts/ends at the snapped nodes.
	Origin      datastructure.Coordinate
	Destination datastructure.Coordinate
	// BoundingBox scope of the poi queries, derived from the shortest-by-length route.
	BoundingBox datastructure.BoundingBox
	POIs        map[datastructure.POIKind][]datastructure.GeoPoint
	Incidents   []datastructure.GeoPoint
	Warnings    []string
	Elapsed     time.Duration
}

type Planner struct {
	graphs    GraphSource
	geocoder  Geocoder
	pois      POISource
	incidents IncidentStore
	model     safety.Model
	workers   int
	log       *slog.Logger
}

type Option func(*Planner)

func WithModel(m safety.Model) Option {
	return func(p *Planner) { p.model = m }
}

// WithWorkers number of goroutines for the per edge cost pass. <= 0 means NumCPU.
func WithWorkers(n int) Option {
	return func(p *Planner) { p.workers = n }
}

func WithLogger(l *slog.Logger) Option {
	return func(p *Planner) { p.log = l }
}

func NewPlanner(graphs GraphSource, geocoder Geocoder, pois POISource, incidents IncidentStore, opts ...Option) *Planner {
	p := &Planner{
		graphs:    graphs,
		geocoder:  geocoder,
		pois:      pois,
		incidents: incidents,
		model:     safety.DefaultModel(),
		log:       logger.L(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Plan computes the safety weighted walking route.
//
// origin & destination are geocoded and snapped to the nearest graph node, a first dijkstra by length
// gives the bounding box the live pois are fetched in, the cost model is applied to every edge and a
// second dijkstra by safety cost gives the returned route (ModeSafe). ModeShortest returns the first
// route scored under the same model.
//
// a poi kind whose mirrors all failed degrades to an empty set plus a warning. every other error
// aborts the request.
func (p *Planner) Plan(ctx context.Context, req Request) (Result, error) {
	start := time.Now()
	mode, err := ParseMode(string(req.Mode))
	if err != nil {
		return Result{}, err
	}

	originCoord, err := p.geocoder.Geocode(ctx, req.Origin)
	if err != nil {
		return Result{}, err
	}
	destCoord, err := p.geocoder.Geocode(ctx, req.Destination)
	if err != nil {
		return Result{}, err
	}

	g, err := p.graphs.Graph(ctx, req.Area)
	if err != nil {
		return Result{}, err
	}

	tr, err := geo.ResolveTransformer(g.CRS())
	if err != nil {
		return Result{}, err
	}
	tr.ProjectGraph(g)

	snapper := snap.NewNodeSnapper(g)
	from, _, err := snapper.SnapToNode(projectCoordinate(tr, originCoord))
	if err != nil {
		return Result{}, fmt.Errorf("snap origin %q: %w", req.Origin, err)
	}
	to, _, err := snapper.SnapToNode(projectCoordinate(tr, destCoord))
	if err != nil {
		return Result{}, fmt.Errorf("snap destination %q: %w", req.Destination, err)
	}

	rt := routingalgorithm.NewRouteAlgorithm(g)

	// phase 1: by length, only used to scope the poi queries
	scopeRoute, _, err := rt.ShortestPathDijkstra(from, to, datastructure.ByLength)
	if err != nil {
		return Result{}, err
	}
	bbox := tr.PlanarToBoundingBox(PlanarRouteBound(scopeRoute.ProjectedPoints(g), BoundingBoxBuffer))

	pois, warnings := p.fetchLivePOIs(ctx, bbox)
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	incidents := p.incidents.Incidents()
	ix := safety.NewIndexes(
		tr.ProjectPoints(incidents),
		tr.ProjectPoints(pois[datastructure.KindStreetLamp]),
		tr.ProjectPoints(pois[datastructure.KindConvenienceStore]),
		tr.ProjectPoints(pois[datastructure.KindPolicePost]),
	)
	safety.ApplyCostModel(g, ix, p.model, p.workers)

	route := scopeRoute
	if mode == ModeSafe {
		// phase 2: by safety cost
		route, _, err = rt.ShortestPathDijkstra(from, to, datastructure.BySafetyCost)
		if err != nil {
			return Result{}, err
		}
	}
	score := safety.ScoreRoute(g, route)
	path := route.Coordinates(g)

	p.log.Info("route_computed",
		"area", req.Area,
		"mode", string(mode),
		"nodes", len(route.Nodes),
		"total_length", score.TotalLength,
		"path_geodesic_m", geo.PolylineLength(path),
		"straight_line_km", geo.CalculateHaversineDistance(originCoord.Lat, originCoord.Lon, destCoord.Lat, destCoord.Lon),
		"danger_score", score.DangerScore,
		"degraded_kinds", len(warnings),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return Result{
		Mode:        mode,
		CRS:         tr.CRS(),
		Route:       route,
		Path:        path,
		Score:       score,
		Origin:      originCoord,
		Destination: destCoord,
		BoundingBox: bbox,
		POIs:        pois,
		Incidents:   incidents,
		Warnings:    warnings,
		Elapsed:     time.Since(start),
	}, nil
}

type poiResult struct {
	kind   datastructure.POIKind
	points []datastructure.GeoPoint
	err    error
}

// fetchLivePOIs fetches the three live kinds concurrently. failures are turned into warnings.
func (p *Planner) fetchLivePOIs(ctx context.Context, bbox datastructure.BoundingBox) (map[datastructure.POIKind][]datastructure.GeoPoint, []string) {
	wp := concurrent.NewWorkerPool[datastructure.POIKind, poiResult](len(datastructure.LiveKinds), len(datastructure.LiveKinds))
	wp.Start(func(kind datastructure.POIKind) poiResult {
		points, err := p.pois.FetchPOIs(ctx, kind, bbox)
		return poiResult{kind: kind, points: points, err: err}
	})
	for _, kind := range datastructure.LiveKinds {
		wp.AddJob(kind)
	}
	wp.Close()

	results := make(map[datastructure.POIKind]poiResult, len(datastructure.LiveKinds))
	for _, res := range wp.Wait() {
		results[res.kind] = res
	}

	pois := make(map[datastructure.POIKind][]datastructure.GeoPoint, len(datastructure.LiveKinds))
	warnings := make([]string, 0)
	// urutan LiveKinds biar warnings deterministic
	for _, kind := range datastructure.LiveKinds {
		res := results[kind]
		if res.err != nil {
			var poiErr *errs.POIRetrievalError
			attrs := []any{"kind", string(kind), "error", res.err}
			if errors.As(res.err, &poiErr) {
				attrs = append(attrs, "last_mirror", poiErr.Mirror)
			}
			if errs.IsFatal(res.err) {
				// bukan kegagalan mirror (query/adapter error), tetap degrade tapi level error
				p.log.Error("poi_degraded", attrs...)
			} else {
				p.log.Warn("poi_degraded", attrs...)
			}
			warnings = append(warnings, fmt.Sprintf("%s data unavailable, route computed without it", kind))
			pois[kind] = []datastructure.GeoPoint{}
			continue
		}
		pois[kind] = res.points
		if pois[kind] == nil {
			pois[kind] = []datastructure.GeoPoint{}
		}
	}
	return pois, warnings
}

func projectCoordinate(tr *geo.Transformer, c datastructure.Coordinate) datastructure.ProjectedPoint {
	x, y := tr.ToPlanar(c.Lon, c.Lat)
	return datastructure.NewProjectedPoint(x, y)
}
