// Package incident loads the geocoded incident history once at startup.
package incident

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"lintang/nightwalk/pkg/datastructure"
)

var ErrMissingColumn = errors.New("incident csv: missing column")

// LoadStats counters of a LoadCSV run.
type LoadStats struct {
	Rows    int
	Loaded  int
	Skipped int
}

// LoadCSV reads an "address,lat,lon" file. a missing file is not an error and yields no incidents.
// rows with an unparsable or out of range coordinate are skipped.
func LoadCSV(path string) ([]datastructure.GeoPoint, LoadStats, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return []datastructure.GeoPoint{}, LoadStats{}, nil
	}
	if err != nil {
		return nil, LoadStats{}, fmt.Errorf("open incident csv: %w", err)
	}
	defer f.Close()
	return ReadCSV(f)
}

func ReadCSV(r io.Reader) ([]datastructure.GeoPoint, LoadStats, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	points := make([]datastructure.GeoPoint, 0)
	stats := LoadStats{}

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return points, stats, nil
	}
	if err != nil {
		return nil, stats, fmt.Errorf("read incident csv header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	latCol, okLat := cols["lat"]
	lonCol, okLon := cols["lon"]
	if !okLat || !okLon {
		return nil, stats, fmt.Errorf("%w: need lat & lon, got %v", ErrMissingColumn, header)
	}
	addrCol, okAddr := cols["address"]

	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		stats.Rows++
		if err != nil {
			stats.Skipped++
			continue
		}
		if latCol >= len(record) || lonCol >= len(record) {
			stats.Skipped++
			continue
		}
		lat, errLat := strconv.ParseFloat(strings.TrimSpace(record[latCol]), 64)
		lon, errLon := strconv.ParseFloat(strings.TrimSpace(record[lonCol]), 64)
		if errLat != nil || errLon != nil || lat < -90 || lat > 90 || lon < -180 || lon > 180 {
			stats.Skipped++
			continue
		}

		var tags datastructure.Tags
		if okAddr && addrCol < len(record) && record[addrCol] != "" {
			tags = datastructure.Tags{"address": record[addrCol]}
		}
		points = append(points, datastructure.NewGeoPoint(lat, lon, tags))
		stats.Loaded++
	}
	return points, stats, nil
}
