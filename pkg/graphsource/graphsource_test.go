package graphsource

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"lintang/nightwalk/pkg/datastructure"
	"lintang/nightwalk/pkg/errs"
	"lintang/nightwalk/pkg/kv"
	"lintang/nightwalk/pkg/logger"
	"lintang/nightwalk/pkg/overpass"

	"github.com/paulmach/osm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 { return &v }

type fakeQuerier struct {
	queries []string
	res     *overpass.Response
	err     error
}

func (f *fakeQuerier) Query(ctx context.Context, query string) (*overpass.Response, error) {
	f.queries = append(f.queries, query)
	if f.err != nil {
		return nil, f.err
	}
	return f.res, nil
}

func walkResponse() *overpass.Response {
	return &overpass.Response{Elements: []overpass.Element{
		{Type: osm.TypeWay, ID: 100, Nodes: []int64{1, 2, 3}, Tags: map[string]string{"highway": "residential"}},
		{Type: osm.TypeWay, ID: 101, Nodes: []int64{3, 1}, Tags: map[string]string{"highway": "motorway"}},
		{Type: osm.TypeNode, ID: 1, Lat: ptr(35.9060), Lon: ptr(139.6230)},
		{Type: osm.TypeNode, ID: 2, Lat: ptr(35.9065), Lon: ptr(139.6235)},
		{Type: osm.TypeNode, ID: 3, Lat: ptr(35.9070), Lon: ptr(139.6240)},
	}}
}

func TestOverpassByPlace(t *testing.T) {
	q := &fakeQuerier{res: walkResponse()}
	src := NewOverpass(q, 0, logger.Discard())

	g, err := src.ByPlace(context.Background(), `大宮区`)
	require.NoError(t, err)

	assert.Equal(t, 3, g.NumNodes())
	assert.Equal(t, 2, g.NumEdges())
	assert.Equal(t, "EPSG:32654", g.CRS())
	require.Len(t, q.queries, 1)
	assert.Contains(t, q.queries[0], `area["name"="大宮区"]->.searchArea;`)
	assert.Contains(t, q.queries[0], "[timeout:120]")
}

func TestOverpassByBBox(t *testing.T) {
	q := &fakeQuerier{res: walkResponse()}
	src := NewOverpass(q, 60, logger.Discard())
	bbox := datastructure.NewBoundingBox(35.9, 139.6, 35.95, 139.65)

	_, err := src.ByBBox(context.Background(), bbox)
	require.NoError(t, err)
	assert.Equal(t, "[out:json][timeout:60];\nway[\"highway\"]"+bbox.OverpassFilter()+";\n(._;>;);\nout body;\n", q.queries[0])

	_, err = src.ByBBox(context.Background(), datastructure.NewBoundingBox(36, 139.6, 35, 139.65))
	assert.Error(t, err)
}

func TestOverpassEmptyArea(t *testing.T) {
	src := NewOverpass(&fakeQuerier{res: &overpass.Response{}}, 0, logger.Discard())
	_, err := src.ByPlace(context.Background(), "atlantis")
	assert.Error(t, err)
}

func TestPlaceQueryEscapes(t *testing.T) {
	q := PlaceQuery(`a "b" \c`, 10)
	assert.True(t, strings.Contains(q, `area["name"="a \"b\" \\c"]`))
}

type fakeSource struct {
	placeErr  error
	bboxErr   error
	bboxes    []datastructure.BoundingBox
	placeHits int
}

func (f *fakeSource) ByPlace(ctx context.Context, place string) (*datastructure.StreetGraph, error) {
	f.placeHits++
	if f.placeErr != nil {
		return nil, f.placeErr
	}
	return tinyGraph(), nil
}

func (f *fakeSource) ByBBox(ctx context.Context, bbox datastructure.BoundingBox) (*datastructure.StreetGraph, error) {
	f.bboxes = append(f.bboxes, bbox)
	if f.bboxErr != nil {
		return nil, f.bboxErr
	}
	return tinyGraph(), nil
}

func tinyGraph() *datastructure.StreetGraph {
	g := datastructure.NewStreetGraph("EPSG:32654")
	g.AddNode(1, 35.9060, 139.6230)
	g.AddNode(2, 35.9065, 139.6235)
	g.AddEdge(1, 2, 71.5, 100)
	return g
}

type fakeBounds struct {
	bbox datastructure.BoundingBox
	err  error
}

func (f fakeBounds) Bounds(ctx context.Context, query string) (datastructure.BoundingBox, error) {
	return f.bbox, f.err
}

func TestFallbackPlaceSucceeds(t *testing.T) {
	src := &fakeSource{}
	g, err := WithFallback(src, fakeBounds{err: errors.New("unused")}, logger.Discard()).Graph(context.Background(), "Omiya")
	require.NoError(t, err)
	assert.Equal(t, 1, g.NumEdges())
	assert.Empty(t, src.bboxes)
}

func TestFallbackToBBox(t *testing.T) {
	bbox := datastructure.NewBoundingBox(35.89, 139.61, 35.92, 139.64)
	src := &fakeSource{placeErr: errors.New("area not found")}

	g, err := WithFallback(src, fakeBounds{bbox: bbox}, logger.Discard()).Graph(context.Background(), "Omiya")
	require.NoError(t, err)
	assert.Equal(t, 2, g.NumNodes())
	assert.Equal(t, []datastructure.BoundingBox{bbox}, src.bboxes)
}

func TestFallbackBothFail(t *testing.T) {
	placeErr := errors.New("area not found")
	bboxErr := errors.New("mirrors down")
	src := &fakeSource{placeErr: placeErr, bboxErr: bboxErr}

	_, err := WithFallback(src, fakeBounds{bbox: datastructure.NewBoundingBox(0, 0, 1, 1)}, logger.Discard()).
		Graph(context.Background(), "Omiya")

	var retrievalErr *errs.GraphRetrievalError
	require.True(t, errors.As(err, &retrievalErr))
	assert.Equal(t, "Omiya", retrievalErr.Area)
	assert.ErrorIs(t, err, placeErr)
	assert.ErrorIs(t, err, bboxErr)
}

func TestFallbackGeocodeFails(t *testing.T) {
	geoErr := &errs.GeocodeError{Query: "Omiya", Err: errs.ErrNoResult}
	src := &fakeSource{placeErr: errors.New("area not found")}

	_, err := WithFallback(src, fakeBounds{err: geoErr}, logger.Discard()).Graph(context.Background(), "Omiya")
	var retrievalErr *errs.GraphRetrievalError
	require.True(t, errors.As(err, &retrievalErr))
	assert.ErrorIs(t, err, errs.ErrNoResult)
	assert.Empty(t, src.bboxes)
}

func TestCachedSource(t *testing.T) {
	db, err := kv.OpenBadger("")
	require.NoError(t, err)
	store := kv.NewKVDB(db, kv.WithLogger(logger.Discard()))
	defer store.Close()

	src := &fakeSource{}
	c := NewCached(src, store, logger.Discard())
	ctx := context.Background()

	first, err := c.ByPlace(ctx, "Omiya")
	require.NoError(t, err)
	first.SetSafetyCost(0, 999)

	second, err := c.ByPlace(ctx, "omiya")
	require.NoError(t, err)
	assert.Equal(t, 1, src.placeHits)
	assert.Equal(t, 0.0, second.GetEdge(0).SafetyCost)
	assert.Equal(t, 71.5, second.GetEdge(0).Length)

	bbox := datastructure.NewBoundingBox(35.89, 139.61, 35.92, 139.64)
	_, err = c.ByBBox(ctx, bbox)
	require.NoError(t, err)
	_, err = c.ByBBox(ctx, bbox)
	require.NoError(t, err)
	assert.Len(t, src.bboxes, 1)
}

func TestCachedSourceErrorNotCached(t *testing.T) {
	db, err := kv.OpenBadger("")
	require.NoError(t, err)
	store := kv.NewKVDB(db, kv.WithLogger(logger.Discard()))
	defer store.Close()

	src := &fakeSource{placeErr: errors.New("down")}
	c := NewCached(src, store, logger.Discard())
	_, err = c.ByPlace(context.Background(), "Omiya")
	assert.Error(t, err)
	_, err = c.ByPlace(context.Background(), "Omiya")
	assert.Error(t, err)
	assert.Equal(t, 2, src.placeHits)
}

const tinyXML = `<?xml version="1.0" encoding="UTF-8"?>
<osm version="0.6">
  <node id="1" lat="35.9060" lon="139.6230"/>
  <node id="2" lat="35.9065" lon="139.6235"/>
  <way id="100"><nd ref="1"/><nd ref="2"/><tag k="highway" v="footway"/></way>
</osm>`

func TestExtract(t *testing.T) {
	path := filepath.Join(t.TempDir(), "omiya.osm")
	require.NoError(t, os.WriteFile(path, []byte(tinyXML), 0o644))
	src := NewExtract(path, logger.Discard())

	_, err := src.ByPlace(context.Background(), "Omiya")
	assert.ErrorIs(t, err, errs.ErrUnsupported)

	g, err := src.ByBBox(context.Background(), datastructure.NewBoundingBox(35.9, 139.62, 35.91, 139.63))
	require.NoError(t, err)
	assert.Equal(t, 1, g.NumEdges())

	// fallback through the geocoder bbox
	g, err = WithFallback(src, fakeBounds{bbox: datastructure.NewBoundingBox(35.9, 139.62, 35.91, 139.63)}, logger.Discard()).
		Graph(context.Background(), "Omiya")
	require.NoError(t, err)
	assert.Equal(t, 2, g.NumNodes())
}
