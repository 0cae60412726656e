// Package errs holds the error taxonomy of a routing request.
//
// ProjectionError, GeocodeError, GraphRetrievalError and RouteNotFoundError abort the request.
// POIRetrievalError is recoverable: the caller degrades that kind to an empty set.
package errs

import (
	"errors"
	"fmt"
)

// ProjectionError target coordinate reference system cannot be resolved.
type ProjectionError struct {
	CRS string
	Err error
}

func (e *ProjectionError) Error() string {
	return fmt.Sprintf("projection: cannot resolve crs %q: %v", e.CRS, e.Err)
}

func (e *ProjectionError) Unwrap() error { return e.Err }

// GeocodeError address could not be resolved to coordinates.
type GeocodeError struct {
	Query string
	Err   error
}

func (e *GeocodeError) Error() string {
	return fmt.Sprintf("geocode %q: %v", e.Query, e.Err)
}

func (e *GeocodeError) Unwrap() error { return e.Err }

// GraphRetrievalError both the place query and the bbox fallback failed.
type GraphRetrievalError struct {
	Area     string
	Primary  error
	Fallback error
}

func (e *GraphRetrievalError) Error() string {
	return fmt.Sprintf("graph retrieval for %q failed: place: %v; bbox fallback: %v", e.Area, e.Primary, e.Fallback)
}

func (e *GraphRetrievalError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Primary != nil {
		errs = append(errs, e.Primary)
	}
	if e.Fallback != nil {
		errs = append(errs, e.Fallback)
	}
	return errs
}

// POIRetrievalError every mirror failed for one poi kind. Mirror is the last mirror tried.
type POIRetrievalError struct {
	Kind   string
	Mirror string
	Err    error
}

func (e *POIRetrievalError) Error() string {
	return fmt.Sprintf("poi %s: all mirrors failed, last %s: %v", e.Kind, e.Mirror, e.Err)
}

func (e *POIRetrievalError) Unwrap() error { return e.Err }

// RouteNotFoundError no path between the origin & destination node.
type RouteNotFoundError struct {
	From int64
	To   int64
}

func (e *RouteNotFoundError) Error() string {
	return fmt.Sprintf("no route between node %d and node %d", e.From, e.To)
}

var (
	ErrUnsupported = errors.New("operation not supported by this source")
	ErrNoResult    = errors.New("no result")
)

func IsFatal(err error) bool {
	var poiErr *POIRetrievalError
	return err != nil && !errors.As(err, &poiErr)
}
