package geocoder

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"lintang/nightwalk/pkg/datastructure"
	"lintang/nightwalk/pkg/errs"
	"lintang/nightwalk/pkg/logger"
)

const (
	DefaultNominatimURL = "https://nominatim.openstreetmap.org/search"
	DefaultTimeout      = 30 * time.Second
	userAgent           = "nightwalk/1.0"
)

// Place result of resolving a free text query.
type Place struct {
	Coordinate  datastructure.Coordinate  `json:"coordinate"`
	BoundingBox datastructure.BoundingBox `json:"bounding_box"`
	DisplayName string                    `json:"display_name"`
}

// Resolver resolves a query to its best matching place. not found is *errs.GeocodeError.
type Resolver interface {
	Resolve(ctx context.Context, query string) (Place, error)
}

// nominatim jsonv2 search result. numbers are strings on the wire, boundingbox is [s, n, w, e].
type nominatimPlace struct {
	Lat         string   `json:"lat"`
	Lon         string   `json:"lon"`
	DisplayName string   `json:"display_name"`
	BoundingBox []string `json:"boundingbox"`
}

type Nominatim struct {
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
}

func NewNominatim(baseURL string, httpClient *http.Client) *Nominatim {
	if baseURL == "" {
		baseURL = DefaultNominatimURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &Nominatim{baseURL: baseURL, httpClient: httpClient, log: logger.L()}
}

func (n *Nominatim) Resolve(ctx context.Context, query string) (Place, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("format", "jsonv2")
	q.Set("limit", "1")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return Place{}, &errs.GeocodeError{Query: query, Err: err}
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	t0 := time.Now()
	resp, err := n.httpClient.Do(req)
	if err != nil {
		n.log.Error("nominatim_http_error", "query", query, "error", err)
		return Place{}, &errs.GeocodeError{Query: query, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Place{}, &errs.GeocodeError{Query: query, Err: fmt.Errorf("nominatim: unexpected status %s", resp.Status)}
	}

	var results []nominatimPlace
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return Place{}, &errs.GeocodeError{Query: query, Err: fmt.Errorf("decode nominatim response: %w", err)}
	}
	n.log.Debug("nominatim_resp", "query", query, "results", len(results), "duration_ms", time.Since(t0).Milliseconds())
	if len(results) == 0 {
		return Place{}, &errs.GeocodeError{Query: query, Err: errs.ErrNoResult}
	}

	place, err := results[0].toPlace()
	if err != nil {
		return Place{}, &errs.GeocodeError{Query: query, Err: err}
	}
	return place, nil
}

func (p nominatimPlace) toPlace() (Place, error) {
	lat, err := strconv.ParseFloat(p.Lat, 64)
	if err != nil {
		return Place{}, fmt.Errorf("parse lat %q: %w", p.Lat, err)
	}
	lon, err := strconv.ParseFloat(p.Lon, 64)
	if err != nil {
		return Place{}, fmt.Errorf("parse lon %q: %w", p.Lon, err)
	}

	place := Place{
		Coordinate:  datastructure.NewCoordinate(lat, lon),
		DisplayName: p.DisplayName,
		BoundingBox: datastructure.NewBoundingBox(lat, lon, lat, lon),
	}
	if len(p.BoundingBox) == 4 {
		vals := [4]float64{}
		for i, s := range p.BoundingBox {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return Place{}, fmt.Errorf("parse boundingbox %q: %w", s, err)
			}
			vals[i] = v
		}
		place.BoundingBox = datastructure.NewBoundingBox(vals[0], vals[2], vals[1], vals[3])
	}
	return place, nil
}
