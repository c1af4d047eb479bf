// Package entities contains the core domain objects for the river bot.
package entities

import (
	"math"
	"time"
)

// RawReading is a single row from the upstream gauge feed before any numeric
// coercion. Level and Flow keep the feed's original string values so that
// data-quality decisions stay in the shaping layer.
type RawReading struct {
	Timestamp     time.Time
	StationNumber string
	StationName   string
	Level         string
	Flow          string
}

// Reading is one coerced observation for a station at a point in time.
// Level and Flow are NaN when the feed value was absent or non-numeric.
type Reading struct {
	Timestamp     time.Time
	StationNumber string
	StationName   string
	Level         float64
	Flow          float64
}

// AggregateRow is a per-station daily rollup of level and flow.
// Mean, min and max are computed independently per metric. A day with no
// valid readings carries all zeroes; aggregation masks true absence of data.
type AggregateRow struct {
	Date      time.Time
	LevelMean float64
	LevelMin  float64
	LevelMax  float64
	FlowMean  float64
	FlowMin   float64
	FlowMax   float64
}

// ChartImage is a rendered chart held in memory until it is published.
type ChartImage struct {
	Filename string
	PNG      []byte
}

// Missing reports whether a coerced numeric value is absent.
func Missing(v float64) bool {
	return math.IsNaN(v)
}
