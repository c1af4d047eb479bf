// Package shaping turns raw feed rows into per-station views for the
// summary and the charts.
package shaping

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"riverbot/internal/entities"
	"riverbot/internal/stations"
)

// ErrUnknownStation is returned when a station number is not in the catalog.
var ErrUnknownStation = errors.New("unknown station")

// Shaper extracts and coerces per-station readings from the bulk feed table.
type Shaper struct {
	catalog *stations.Catalog
}

// NewShaper creates a shaper bound to a station catalog.
func NewShaper(catalog *stations.Catalog) *Shaper {
	return &Shaper{catalog: catalog}
}

// Shape filters raw rows to one station and coerces level and flow to
// numeric values. A value that fails coercion becomes NaN rather than an
// error; bad individual readings must never abort a run.
func (s *Shaper) Shape(raw []entities.RawReading, stationNumber string) ([]entities.Reading, error) {
	if _, ok := s.catalog.Lookup(stationNumber); !ok {
		return nil, fmt.Errorf("shape %s: %w", stationNumber, ErrUnknownStation)
	}

	var readings []entities.Reading
	for _, row := range raw {
		if row.StationNumber != stationNumber {
			continue
		}
		readings = append(readings, entities.Reading{
			Timestamp:     row.Timestamp,
			StationNumber: row.StationNumber,
			StationName:   row.StationName,
			Level:         coerce(row.Level),
			Flow:          coerce(row.Flow),
		})
	}
	return readings, nil
}

// ShapeDaily shapes the station's rows and rolls them up per calendar day.
// Mean, min and max are computed independently for level and flow over the
// valid readings of each day. A day whose readings are all missing gets
// zero-filled aggregates, so absence of data is indistinguishable from zero
// in the output.
func (s *Shaper) ShapeDaily(raw []entities.RawReading, stationNumber string) ([]entities.AggregateRow, error) {
	readings, err := s.Shape(raw, stationNumber)
	if err != nil {
		return nil, err
	}

	days := make(map[time.Time]*dayAccumulator)
	for _, r := range readings {
		day := truncateToDay(r.Timestamp)
		acc := days[day]
		if acc == nil {
			acc = &dayAccumulator{}
			days[day] = acc
		}
		acc.level.add(r.Level)
		acc.flow.add(r.Flow)
	}

	rows := make([]entities.AggregateRow, 0, len(days))
	for day, acc := range days {
		rows = append(rows, entities.AggregateRow{
			Date:      day,
			LevelMean: acc.level.mean(),
			LevelMin:  acc.level.min,
			LevelMax:  acc.level.max,
			FlowMean:  acc.flow.mean(),
			FlowMin:   acc.flow.min,
			FlowMax:   acc.flow.max,
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Date.Before(rows[j].Date) })
	return rows, nil
}

// Latest returns the most recent reading by timestamp. The feed is usually
// already ordered newest-first, but the scan does not rely on that.
func Latest(readings []entities.Reading) (entities.Reading, bool) {
	if len(readings) == 0 {
		return entities.Reading{}, false
	}
	latest := readings[0]
	for _, r := range readings[1:] {
		if r.Timestamp.After(latest.Timestamp) {
			latest = r
		}
	}
	return latest, true
}

// coerce parses a feed value, mapping anything non-numeric to NaN.
func coerce(v string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

// truncateToDay drops the time of day, keeping the timestamp's own location
// so the feed's timezone convention is preserved as-is.
func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// metricAccumulator tracks mean/min/max over the valid values of one metric.
type metricAccumulator struct {
	sum   float64
	count int
	min   float64
	max   float64
}

func (a *metricAccumulator) add(v float64) {
	if entities.Missing(v) {
		return
	}
	if a.count == 0 || v < a.min {
		a.min = v
	}
	if a.count == 0 || v > a.max {
		a.max = v
	}
	a.sum += v
	a.count++
}

func (a *metricAccumulator) mean() float64 {
	if a.count == 0 {
		return 0
	}
	return a.sum / float64(a.count)
}

type dayAccumulator struct {
	level metricAccumulator
	flow  metricAccumulator
}
