package geocoder

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"lintang/nightwalk/pkg/datastructure"
	"lintang/nightwalk/pkg/errs"
	"lintang/nightwalk/pkg/logger"
	"lintang/nightwalk/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const omiyaResponse = `[{
  "place_id": 1,
  "lat": "35.9063",
  "lon": "139.6240",
  "display_name": "大宮駅, さいたま市, 埼玉県, 日本",
  "boundingbox": ["35.9013", "35.9113", "139.6190", "139.6290"]
}]`

func nominatimServer(t *testing.T, hits *int32) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		assert.Equal(t, "jsonv2", r.URL.Query().Get("format"))
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		if r.URL.Query().Get("q") == "大宮駅, 埼玉" {
			w.Write([]byte(omiyaResponse))
			return
		}
		w.Write([]byte(`[]`))
	}))
}

func TestNominatimResolve(t *testing.T) {
	var hits int32
	srv := nominatimServer(t, &hits)
	defer srv.Close()

	n := NewNominatim(srv.URL, nil)
	place, err := n.Resolve(context.Background(), "大宮駅, 埼玉")
	require.NoError(t, err)

	assert.Equal(t, datastructure.NewCoordinate(35.9063, 139.6240), place.Coordinate)
	// boundingbox nominatim urutannya [s, n, w, e]
	assert.Equal(t, datastructure.NewBoundingBox(35.9013, 139.6190, 35.9113, 139.6290), place.BoundingBox)

	_, err = n.Resolve(context.Background(), "atlantis")
	var geocodeErr *errs.GeocodeError
	require.True(t, errors.As(err, &geocodeErr))
	assert.Equal(t, "atlantis", geocodeErr.Query)
	assert.ErrorIs(t, err, errs.ErrNoResult)
}

func TestNominatimHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := NewNominatim(srv.URL, nil).Resolve(context.Background(), "x")
	var geocodeErr *errs.GeocodeError
	assert.True(t, errors.As(err, &geocodeErr))
}

func TestCacheDoesNotRehitUpstream(t *testing.T) {
	var hits int32
	srv := nominatimServer(t, &hits)
	defer srv.Close()

	m := metrics.New(prometheus.NewRegistry())
	c := NewCache(NewNominatim(srv.URL, nil), WithMetrics(m), WithLogger(logger.Discard()))

	for i := 0; i < 3; i++ {
		coord, err := c.Geocode(context.Background(), "大宮駅, 埼玉")
		require.NoError(t, err)
		assert.Equal(t, 35.9063, coord.Lat)
	}
	bbox, err := c.Bounds(context.Background(), "大宮駅, 埼玉")
	require.NoError(t, err)
	assert.True(t, bbox.Contains(35.9063, 139.6240))

	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, 3.0, testutil.ToFloat64(m.GeocodeCache.WithLabelValues("hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.GeocodeCache.WithLabelValues("miss")))
}

func TestCacheDoesNotCacheFailures(t *testing.T) {
	var hits int32
	srv := nominatimServer(t, &hits)
	defer srv.Close()

	c := NewCache(NewNominatim(srv.URL, nil), WithLogger(logger.Discard()))
	_, err := c.Geocode(context.Background(), "atlantis")
	assert.Error(t, err)
	_, err = c.Geocode(context.Background(), "atlantis")
	assert.Error(t, err)

	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
	assert.Equal(t, 0, c.Len())
}

type slowResolver struct {
	calls int32
}

func (s *slowResolver) Resolve(ctx context.Context, query string) (Place, error) {
	atomic.AddInt32(&s.calls, 1)
	time.Sleep(50 * time.Millisecond)
	return Place{Coordinate: datastructure.NewCoordinate(1, 2)}, nil
}

func TestCacheConcurrentSameQuery(t *testing.T) {
	up := &slowResolver{}
	c := NewCache(up, WithLogger(logger.Discard()))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			coord, err := c.Geocode(context.Background(), "same")
			assert.NoError(t, err)
			assert.Equal(t, 1.0, coord.Lat)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&up.calls))

	c.Reset()
	_, err := c.Geocode(context.Background(), "same")
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&up.calls))
}

type mapRemote struct {
	mu     sync.Mutex
	places map[string]Place
}

func (m *mapRemote) Get(ctx context.Context, query string) (Place, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.places[query]
	return p, ok, nil
}

func (m *mapRemote) Set(ctx context.Context, query string, place Place) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.places[query] = place
	return nil
}

func TestCacheRemoteTier(t *testing.T) {
	remote := &mapRemote{places: map[string]Place{
		"warm": {Coordinate: datastructure.NewCoordinate(3, 4)},
	}}
	up := &slowResolver{}
	c := NewCache(up, WithRemoteCache(remote), WithLogger(logger.Discard()))

	coord, err := c.Geocode(context.Background(), "warm")
	require.NoError(t, err)
	assert.Equal(t, 3.0, coord.Lat)
	assert.Equal(t, int32(0), atomic.LoadInt32(&up.calls))

	_, err = c.Geocode(context.Background(), "cold")
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&up.calls))
	_, ok, _ := remote.Get(context.Background(), "cold")
	assert.True(t, ok)
}

func TestCacheUnreachableRedisFallsThrough(t *testing.T) {
	rc := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 50 * time.Millisecond, MaxRetries: -1})
	defer rc.Close()

	up := &slowResolver{}
	c := NewCache(up, WithRemoteCache(NewRedisCache(rc, 0)), WithLogger(logger.Discard()))

	coord, err := c.Geocode(context.Background(), "q")
	require.NoError(t, err)
	assert.Equal(t, 2.0, coord.Lon)
	assert.Equal(t, int32(1), atomic.LoadInt32(&up.calls))
}

func TestNewRedisClientEmptyAddr(t *testing.T) {
	assert.Nil(t, NewRedisClient("", "", 0))
}
