package rest

import (
	"context"
	"errors"
	"math"
	"net/http"
	"strings"

	"lintang/nightwalk/pkg/datastructure"
	"lintang/nightwalk/pkg/incident"
	"lintang/nightwalk/pkg/metrics"
	"lintang/nightwalk/pkg/poi"
	"lintang/nightwalk/pkg/server/rest/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
)

type NavigationService interface {
	SafeRoute(ctx context.Context, origin, destination, area, mode string) (service.SafeRouteResult, error)
}

type NavigationHandler struct {
	svc      NavigationService
	validate *validator.Validate
	trans    ut.Translator
}

func NavigatorRouter(r *chi.Mux, svc NavigationService, m *metrics.Metrics) {
	english := en.New()
	uni := ut.New(english, english)
	trans, _ := uni.GetTranslator("en")
	validate := validator.New()
	_ = enTranslations.RegisterDefaultTranslations(validate, trans)

	handler := &NavigationHandler{svc: svc, validate: validate, trans: trans}

	r.Group(func(r chi.Router) {
		r.Route("/api/navigations", func(r chi.Router) {
			r.Post("/safe-route", handler.SafeRoute)
		})
		r.Get("/api/healthz", handler.Healthz)
	})
}

// SafeRouteRequest model info
//
//	@Description	request body untuk rute jalan kaki paling aman
type SafeRouteRequest struct {
	Origin      string `json:"origin" validate:"required,max=256"`
	Destination string `json:"destination" validate:"required,max=256"`
	Area        string `json:"area" validate:"required,max=256"`
	Mode        string `json:"mode" validate:"omitempty,oneof=safe shortest"`
}

func (s *SafeRouteRequest) Bind(r *http.Request) error {
	s.Origin = strings.TrimSpace(s.Origin)
	s.Destination = strings.TrimSpace(s.Destination)
	s.Area = strings.TrimSpace(s.Area)
	s.Mode = strings.ToLower(strings.TrimSpace(s.Mode))
	if s.Origin == "" && s.Destination == "" && s.Area == "" {
		return errors.New("invalid request")
	}
	return nil
}

// Coord model info
//
//	@Description	model untuk koordinat
type Coord struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// BBox model info
//
//	@Description	bounding box tempat poi diambil
type BBox struct {
	South float64 `json:"south"`
	West  float64 `json:"west"`
	North float64 `json:"north"`
	East  float64 `json:"east"`
}

// POIResponse model info
//
//	@Description	lampu jalan, minimarket atau pos polisi di sekitar rute
type POIResponse struct {
	Lat   float64           `json:"lat"`
	Lon   float64           `json:"lon"`
	Label string            `json:"label"`
	Tags  map[string]string `json:"tags,omitempty"`
}

// SafeRouteResponse model info
//
//	@Description	response body rute jalan kaki. danger_score null kalau panjang rute 0
type SafeRouteResponse struct {
	Mode            string              `json:"mode"`
	Route           []Coord             `json:"route"`
	Polyline        string              `json:"polyline"`
	DangerScore     *float64            `json:"danger_score"`
	ZeroLength      bool                `json:"zero_length"`
	TotalLength     float64             `json:"total_length"`
	TotalSafetyCost float64             `json:"total_safety_cost"`
	Origin          Coord               `json:"origin"`
	Destination     Coord               `json:"destination"`
	BoundingBox     BBox                `json:"bounding_box"`
	CRS             string              `json:"crs"`
	Lamps           []POIResponse       `json:"lamps"`
	Stores          []POIResponse       `json:"stores"`
	Police          []POIResponse       `json:"police"`
	IncidentHeatmap []incident.HeatCell `json:"incident_heatmap"`
	Warnings        []string            `json:"warnings"`
	ElapsedMs       int64               `json:"elapsed_ms"`
}

func RenderSafeRouteResponse(res service.SafeRouteResult) *SafeRouteResponse {
	route := make([]Coord, 0, len(res.Path))
	for _, c := range res.Path {
		route = append(route, Coord{Lat: c.Lat, Lon: c.Lon})
	}

	var dangerScore *float64
	zeroLength := res.Score.ZeroLength() || math.IsInf(res.Score.DangerScore, 0)
	if !zeroLength {
		d := res.Score.DangerScore
		dangerScore = &d
	}

	heatmap := res.Heatmap
	if heatmap == nil {
		heatmap = []incident.HeatCell{}
	}
	warnings := res.Warnings
	if warnings == nil {
		warnings = []string{}
	}

	return &SafeRouteResponse{
		Mode:            string(res.Mode),
		Route:           route,
		Polyline:        res.Polyline,
		DangerScore:     dangerScore,
		ZeroLength:      zeroLength,
		TotalLength:     res.Score.TotalLength,
		TotalSafetyCost: res.Score.TotalSafetyCost,
		Origin:          Coord{Lat: res.Origin.Lat, Lon: res.Origin.Lon},
		Destination:     Coord{Lat: res.Destination.Lat, Lon: res.Destination.Lon},
		BoundingBox: BBox{
			South: res.BoundingBox.South,
			West:  res.BoundingBox.West,
			North: res.BoundingBox.North,
			East:  res.BoundingBox.East,
		},
		CRS:             res.CRS,
		Lamps:           renderPOIs(datastructure.KindStreetLamp, res.POIs[datastructure.KindStreetLamp]),
		Stores:          renderPOIs(datastructure.KindConvenienceStore, res.POIs[datastructure.KindConvenienceStore]),
		Police:          renderPOIs(datastructure.KindPolicePost, res.POIs[datastructure.KindPolicePost]),
		IncidentHeatmap: heatmap,
		Warnings:        warnings,
		ElapsedMs:       res.Elapsed.Milliseconds(),
	}
}

func renderPOIs(kind datastructure.POIKind, points []datastructure.GeoPoint) []POIResponse {
	resp := make([]POIResponse, 0, len(points))
	for _, p := range points {
		resp = append(resp, POIResponse{
			Lat:   p.Lat,
			Lon:   p.Lon,
			Label: poi.Label(kind, p.Tags),
			Tags:  p.Tags,
		})
	}
	return resp
}

// SafeRoute
//
//	@Summary		rute jalan kaki paling aman dari origin ke destination. Menghindari lokasi kejadian kriminal, lewat dekat lampu jalan, minimarket & pos polisi
//	@Description	rute jalan kaki paling aman dari origin ke destination. Menghindari lokasi kejadian kriminal, lewat dekat lampu jalan, minimarket & pos polisi
//	@Tags			navigations
//	@Param			body	body	SafeRouteRequest	true	"request body safe route"
//	@Accept			application/json
//	@Produce		application/json
//	@Router			/navigations/safe-route [post]
//	@Success		200	{object}	SafeRouteResponse
//	@Failure		400	{object}	ErrResponse
//	@Failure		404	{object}	ErrResponse
//	@Failure		500	{object}	ErrResponse
//	@Failure		502	{object}	ErrResponse
func (h *NavigationHandler) SafeRoute(w http.ResponseWriter, r *http.Request) {
	data := &SafeRouteRequest{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}
	if err := h.validate.Struct(*data); err != nil {
		render.Render(w, r, ErrValidation(err, translateError(err, h.trans)))
		return
	}

	res, err := h.svc.SafeRoute(r.Context(), data.Origin, data.Destination, data.Area, data.Mode)
	if err != nil {
		render.Render(w, r, ErrFromService(err))
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, RenderSafeRouteResponse(res))
}

func (h *NavigationHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusOK)
	render.JSON(w, r, map[string]string{"status": "ok"})
}
