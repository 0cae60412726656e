package rest

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"lintang/nightwalk/pkg/datastructure"
	"lintang/nightwalk/pkg/engine/planner"
	"lintang/nightwalk/pkg/engine/safety"
	"lintang/nightwalk/pkg/errs"
	"lintang/nightwalk/pkg/metrics"
	"lintang/nightwalk/pkg/server"
	"lintang/nightwalk/pkg/server/rest/service"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNavigation struct {
	res  service.SafeRouteResult
	err  error
	mode string
}

func (f *fakeNavigation) SafeRoute(ctx context.Context, origin, destination, area, mode string) (service.SafeRouteResult, error) {
	f.mode = mode
	return f.res, f.err
}

func newTestRouter(svc NavigationService, m *metrics.Metrics) *chi.Mux {
	r := chi.NewRouter()
	r.Use(PromeHttpMiddleware(m))
	NavigatorRouter(r, svc, m)
	return r
}

func do(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/navigations/safe-route", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func sampleResult() service.SafeRouteResult {
	return service.SafeRouteResult{
		Result: planner.Result{
			Mode: planner.ModeSafe,
			Path: []datastructure.Coordinate{
				datastructure.NewCoordinate(35.9060, 139.6230),
				datastructure.NewCoordinate(35.9065, 139.6235),
			},
			Score:       safety.RouteScore{TotalLength: 100, TotalSafetyCost: 1100, DangerScore: 11},
			Origin:      datastructure.NewCoordinate(35.9061, 139.6231),
			Destination: datastructure.NewCoordinate(35.9064, 139.6236),
			POIs: map[datastructure.POIKind][]datastructure.GeoPoint{
				datastructure.KindStreetLamp: {
					datastructure.NewGeoPoint(35.9062, 139.6232, datastructure.Tags{"highway": "street_lamp", "lamp_type": "electric"}),
				},
				datastructure.KindConvenienceStore: {
					datastructure.NewGeoPoint(35.9063, 139.6233, datastructure.Tags{"name": "大宮桜木町店", "brand": "セブン-イレブン"}),
				},
				datastructure.KindPolicePost: {},
			},
			Warnings: []string{"police_post data unavailable, route computed without it"},
		},
		Polyline: "abc",
	}
}

func TestSafeRouteOK(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	svc := &fakeNavigation{res: sampleResult()}
	rec := do(t, newTestRouter(svc, m), `{"origin":"大宮駅","destination":"さいたま新都心駅","area":"さいたま市","mode":"Shortest"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "shortest", svc.mode)

	var resp SafeRouteResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.DangerScore)
	assert.Equal(t, 11.0, *resp.DangerScore)
	assert.False(t, resp.ZeroLength)
	assert.Len(t, resp.Route, 2)
	assert.Equal(t, "abc", resp.Polyline)
	require.Len(t, resp.Lamps, 1)
	assert.Equal(t, "highway: street_lamp, lamp_type: electric", resp.Lamps[0].Label)
	require.Len(t, resp.Stores, 1)
	assert.Equal(t, "大宮桜木町店 セブン-イレブン", resp.Stores[0].Label)
	assert.Empty(t, resp.Police)
	assert.Len(t, resp.Warnings, 1)
	assert.NotNil(t, resp.IncidentHeatmap)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("POST", "/api/navigations/safe-route", "200")))
}

func TestSafeRouteZeroLengthIsNull(t *testing.T) {
	res := sampleResult()
	res.Score = safety.RouteScore{DangerScore: math.Inf(1)}
	rec := do(t, newTestRouter(&fakeNavigation{res: res}, nil), `{"origin":"a","destination":"a","area":"x"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var raw map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	assert.Nil(t, raw["danger_score"])
	assert.Contains(t, raw, "danger_score")
	assert.Equal(t, true, raw["zero_length"])
}

func TestSafeRouteValidation(t *testing.T) {
	h := newTestRouter(&fakeNavigation{res: sampleResult()}, nil)

	rec := do(t, h, `{"origin":"a","area":"x"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var resp ErrResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.ErrValidation, 1)
	assert.Contains(t, resp.ErrValidation[0], "Destination")

	rec = do(t, h, `{"origin":"a","destination":"b","area":"x","mode":"fastest"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSafeRouteServiceErrors(t *testing.T) {
	cases := []struct {
		err    error
		status int
		text   string
	}{
		{server.WrapErrorf(&errs.GeocodeError{Query: "atlantis"}, server.ErrNotFound, "location %q could not be found", "atlantis"), http.StatusNotFound, `location "atlantis" could not be found`},
		{server.WrapErrorf(errors.New("mirrors down"), server.ErrBadGateway, "street network could not be retrieved"), http.StatusBadGateway, "street network could not be retrieved"},
		{server.WrapErrorf(errors.New("secret detail"), server.ErrInternalServerError, "internal server error"), http.StatusInternalServerError, "internal server error"},
		{errors.New("plain"), http.StatusInternalServerError, "internal server error"},
	}
	for _, c := range cases {
		rec := do(t, newTestRouter(&fakeNavigation{err: c.err}, nil), `{"origin":"a","destination":"b","area":"x"}`)
		assert.Equal(t, c.status, rec.Code)

		var resp ErrResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, c.text, resp.ErrorText)
		assert.NotContains(t, rec.Body.String(), "secret detail")
	}
}

func TestHealthz(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/healthz", nil)
	rec := httptest.NewRecorder()
	newTestRouter(&fakeNavigation{}, nil).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
