package service

import (
	"context"
	"errors"
	"log/slog"

	"lintang/nightwalk/pkg/datastructure"
	"lintang/nightwalk/pkg/engine/planner"
	"lintang/nightwalk/pkg/errs"
	"lintang/nightwalk/pkg/incident"
	"lintang/nightwalk/pkg/logger"
	"lintang/nightwalk/pkg/metrics"
	"lintang/nightwalk/pkg/server"
)

type Planner interface {
	Plan(ctx context.Context, req planner.Request) (planner.Result, error)
}

// SafeRouteResult planner result plus what the display layer needs.
type SafeRouteResult struct {
	planner.Result
	Polyline string
	Heatmap  []incident.HeatCell
}

type NavigationService struct {
	planner    Planner
	heatmapRes int
	metrics    *metrics.Metrics
	log        *slog.Logger
}

func NewNavigationService(p Planner, heatmapRes int, m *metrics.Metrics, l *slog.Logger) *NavigationService {
	if heatmapRes <= 0 {
		heatmapRes = incident.DefaultHeatmapResolution
	}
	if l == nil {
		l = logger.L()
	}
	return &NavigationService{planner: p, heatmapRes: heatmapRes, metrics: m, log: l}
}

// SafeRoute errors are *server.Error with a code the rest layer maps to an http status.
func (s *NavigationService) SafeRoute(ctx context.Context, origin, destination, area, mode string) (SafeRouteResult, error) {
	res, err := s.planner.Plan(ctx, planner.Request{
		Origin:      origin,
		Destination: destination,
		Area:        area,
		Mode:        planner.Mode(mode),
	})
	if err != nil {
		outcome, werr := classify(err)
		modeLabel := mode
		if modeLabel == "" {
			modeLabel = string(planner.ModeSafe)
		}
		s.metrics.ObserveRoute(modeLabel, outcome, 0, false)
		if server.Code(werr) == server.ErrInternalServerError || server.Code(werr) == server.ErrBadGateway {
			s.log.Error("route_failed", "origin", origin, "destination", destination, "area", area, "error", err)
		} else {
			s.log.Info("route_rejected", "origin", origin, "destination", destination, "area", area, "error", err)
		}
		return SafeRouteResult{}, werr
	}
	s.metrics.ObserveRoute(string(res.Mode), "ok", res.Score.DangerScore, res.Score.ZeroLength())

	return SafeRouteResult{
		Result:   res,
		Polyline: datastructure.CreatePolyline(res.Path),
		Heatmap:  incident.Heatmap(incident.InBoundingBox(res.Incidents, res.BoundingBox), s.heatmapRes),
	}, nil
}

// classify graph retrieval is checked first, its causes may hold a GeocodeError from the bbox fallback.
func classify(err error) (string, error) {
	var (
		graphErr    *errs.GraphRetrievalError
		geocodeErr  *errs.GeocodeError
		notFoundErr *errs.RouteNotFoundError
		projErr     *errs.ProjectionError
	)
	switch {
	case errors.Is(err, planner.ErrUnknownMode):
		return "bad_request", server.WrapErrorf(err, server.ErrBadParamInput, "mode must be safe or shortest")
	case errors.As(err, &graphErr):
		return "graph_failed", server.WrapErrorf(err, server.ErrBadGateway, "street network for %q could not be retrieved", graphErr.Area)
	case errors.As(err, &geocodeErr):
		return "geocode_failed", server.WrapErrorf(err, server.ErrNotFound, "location %q could not be found", geocodeErr.Query)
	case errors.As(err, &notFoundErr):
		return "no_route", server.WrapErrorf(err, server.ErrNotFound, "no walkable route between origin and destination")
	case errors.As(err, &projErr):
		return "projection_failed", server.WrapErrorf(err, server.ErrInternalServerError, "internal server error")
	}
	return "error", server.WrapErrorf(err, server.ErrInternalServerError, "internal server error")
}
