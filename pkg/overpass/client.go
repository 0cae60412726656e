package overpass

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"lintang/nightwalk/pkg/logger"
	"lintang/nightwalk/pkg/metrics"
)

var DefaultMirrors = []string{
	"https://overpass.kumi.systems/api/interpreter",
	"https://lz4.overpass-api.de/api/interpreter",
	"https://overpass.openstreetmap.ru/api/interpreter",
}

const (
	DefaultTimeout      = 180 * time.Second
	DefaultQueryTimeout = 120 // seconds, the [timeout:] setting of the QL

	userAgent = "nightwalk/1.0"
)

var ErrNoMirrors = errors.New("no overpass mirror configured")

// MirrorError failure of one mirror. StatusCode is 0 for transport & decode errors.
type MirrorError struct {
	Mirror     string
	StatusCode int
	Err        error
}

func (e *MirrorError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: HTTP %d", e.Mirror, e.StatusCode)
	}
	return fmt.Sprintf("%s: %v", e.Mirror, e.Err)
}

func (e *MirrorError) Unwrap() error { return e.Err }

// FirstSuccess tries attempt on every mirror in order, stops at the first success and returns it
// with the mirror that served it. if all fail the last error is returned with the last mirror.
// a cancelled ctx stops the fold.
func FirstSuccess[T any](ctx context.Context, mirrors []string, attempt func(ctx context.Context, mirror string) (T, error)) (T, string, error) {
	var zero T
	if len(mirrors) == 0 {
		return zero, "", ErrNoMirrors
	}

	lastErr := error(nil)
	lastMirror := ""
	for _, mirror := range mirrors {
		if err := ctx.Err(); err != nil {
			if lastErr == nil {
				lastErr = err
			}
			break
		}
		res, err := attempt(ctx, mirror)
		if err == nil {
			return res, mirror, nil
		}
		lastErr, lastMirror = err, mirror
	}
	return zero, lastMirror, lastErr
}

// Client overpass api client over an ordered list of interchangeable mirrors.
type Client struct {
	mirrors    []string
	httpClient *http.Client
	metrics    *metrics.Metrics
	log        *slog.Logger
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.httpClient = c }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(cl *Client) { cl.metrics = m }
}

func WithLogger(l *slog.Logger) Option {
	return func(cl *Client) { cl.log = l }
}

// NewClient timeout bounds every single mirror call. empty mirrors uses DefaultMirrors.
func NewClient(mirrors []string, timeout time.Duration, opts ...Option) *Client {
	if len(mirrors) == 0 {
		mirrors = DefaultMirrors
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := &Client{
		mirrors:    mirrors,
		httpClient: &http.Client{Timeout: timeout},
		log:        logger.L(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Mirrors() []string {
	return c.mirrors
}

// Query posts the QL query to the mirrors in order. on total failure the error is the *MirrorError
// of the last mirror.
func (c *Client) Query(ctx context.Context, query string) (*Response, error) {
	res, mirror, err := FirstSuccess(ctx, c.mirrors, func(ctx context.Context, mirror string) (*Response, error) {
		return c.queryMirror(ctx, mirror, query)
	})
	if err != nil {
		return nil, err
	}
	c.log.Debug("overpass_ok", "mirror", mirror, "elements", len(res.Elements))
	return res, nil
}

func (c *Client) queryMirror(ctx context.Context, mirror, query string) (*Response, error) {
	form := url.Values{}
	form.Set("data", query)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, mirror, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, &MirrorError{Mirror: mirror, Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", userAgent)

	t0 := time.Now()
	res, err := c.doQuery(req, mirror)
	c.metrics.ObserveOverpass(mirror, time.Since(t0), err)
	if err != nil {
		c.log.Warn("overpass_mirror_failed", "mirror", mirror, "error", err, "duration_ms", time.Since(t0).Milliseconds())
		return nil, err
	}
	return res, nil
}

func (c *Client) doQuery(req *http.Request, mirror string) (*Response, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &MirrorError{Mirror: mirror, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))
		return nil, &MirrorError{Mirror: mirror, StatusCode: resp.StatusCode, Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}

	var r Response
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return nil, &MirrorError{Mirror: mirror, Err: fmt.Errorf("decode response: %w", err)}
	}
	return &r, nil
}
