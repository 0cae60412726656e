package poi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"lintang/nightwalk/pkg/datastructure"
	"lintang/nightwalk/pkg/errs"
	"lintang/nightwalk/pkg/logger"
	"lintang/nightwalk/pkg/overpass"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testBBox = datastructure.NewBoundingBox(35.89, 139.62, 35.91, 139.64)

func TestQueryPerKind(t *testing.T) {
	q, err := Query(datastructure.KindStreetLamp, testBBox, 120)
	require.NoError(t, err)
	assert.Contains(t, q, `node["man_made"="street_lamp"](35.8900000,139.6200000,35.9100000,139.6400000);`)
	assert.True(t, strings.HasSuffix(q, "out body;\n"))
	assert.NotContains(t, q, "way[")

	q, err = Query(datastructure.KindPolicePost, testBBox, 120)
	require.NoError(t, err)
	assert.Contains(t, q, `way["police"]`)
	assert.True(t, strings.HasSuffix(q, "out center;\n"))

	_, err = Query(datastructure.KindIncident, testBBox, 120)
	assert.ErrorIs(t, err, errs.ErrUnsupported)
}

func TestFetchPOIsStoreCenter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		assert.Contains(t, r.PostForm.Get("data"), `way["shop"="convenience"]`)
		w.Write([]byte(`{"elements": [
			{"type": "node", "id": 10, "lat": 35.9, "lon": 139.63, "tags": {"shop": "convenience", "name": "7-Eleven"}},
			{"type": "way", "id": 11, "center": {"lat": 35.901, "lon": 139.631}, "tags": {"shop": "convenience"}}
		]}`))
	}))
	defer srv.Close()

	src := NewOverpassSource(overpass.NewClient([]string{srv.URL}, time.Second, overpass.WithLogger(logger.Discard())), 0)
	points, err := src.FetchPOIs(context.Background(), datastructure.KindConvenienceStore, testBBox)
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, 35.901, points[1].Lat)
	assert.Equal(t, "7-Eleven", Label(datastructure.KindConvenienceStore, points[0].Tags))
}

func TestFetchPOIsAllMirrorsFail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	src := NewOverpassSource(overpass.NewClient([]string{srv.URL}, time.Second, overpass.WithLogger(logger.Discard())), 0)
	points, err := src.FetchPOIs(context.Background(), datastructure.KindPolicePost, testBBox)
	assert.Nil(t, points)

	var retrievalErr *errs.POIRetrievalError
	require.True(t, errors.As(err, &retrievalErr))
	assert.Equal(t, "police_post", retrievalErr.Kind)
	assert.Equal(t, srv.URL, retrievalErr.Mirror)
	assert.False(t, errs.IsFatal(err))
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "street lamp", Label(datastructure.KindStreetLamp, nil))
	assert.Equal(t, "highway: street_lamp, lamp_type: led",
		Label(datastructure.KindStreetLamp, datastructure.Tags{"lamp_type": "led", "highway": "street_lamp"}))
	assert.Equal(t, "convenience store", Label(datastructure.KindConvenienceStore, datastructure.Tags{}))
	assert.Equal(t, "FamilyMart FamilyMart", Label(datastructure.KindConvenienceStore, datastructure.Tags{"name": "FamilyMart", "brand": "FamilyMart"}))
	assert.Equal(t, "Lawson", Label(datastructure.KindConvenienceStore, datastructure.Tags{"brand": "Lawson"}))
	assert.Equal(t, "police", Label(datastructure.KindPolicePost, nil))
	assert.Equal(t, "大宮駅前交番", Label(datastructure.KindPolicePost, datastructure.Tags{"name": "大宮駅前交番"}))
}
