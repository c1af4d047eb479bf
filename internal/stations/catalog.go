// Package stations holds the static monitoring-station catalog and the
// flow-threshold status classifier.
package stations

import (
	"sort"

	"riverbot/internal/entities"
)

// Marker is the qualitative status derived from a station's flow reading.
type Marker int

const (
	MarkerNone Marker = iota
	MarkerSafe
	MarkerWarn
	MarkerDanger
)

// Symbol returns the display symbol used in the published summary.
func (m Marker) Symbol() string {
	switch m {
	case MarkerSafe:
		return "🟢"
	case MarkerWarn:
		return "🟡"
	case MarkerDanger:
		return "🔴"
	default:
		return ""
	}
}

// ThresholdRule maps flow readings strictly below UpperBound to Marker.
type ThresholdRule struct {
	UpperBound float64
	Marker     Marker
}

// Station describes one river-gauge monitoring location.
type Station struct {
	Number    string
	Name      string
	ShortName string
	// FlowThresholds must be sorted ascending by UpperBound. Empty means
	// the station is not classified.
	FlowThresholds []ThresholdRule
}

// Catalog is an immutable lookup of stations by number. Build it once at
// startup and pass it to the components that need it.
type Catalog struct {
	byNumber map[string]Station
	order    []string
}

// NewCatalog builds a catalog from a station list, preserving order and
// sorting each station's threshold rules ascending by upper bound.
func NewCatalog(list []Station) *Catalog {
	c := &Catalog{byNumber: make(map[string]Station, len(list))}
	for _, st := range list {
		rules := make([]ThresholdRule, len(st.FlowThresholds))
		copy(rules, st.FlowThresholds)
		sort.Slice(rules, func(i, j int) bool {
			return rules[i].UpperBound < rules[j].UpperBound
		})
		st.FlowThresholds = rules
		c.byNumber[st.Number] = st
		c.order = append(c.order, st.Number)
	}
	return c
}

// DefaultCatalog returns the Calgary-area stations tracked by the bot.
func DefaultCatalog() *Catalog {
	return NewCatalog([]Station{
		{
			Number:    "05BH004",
			Name:      "Bow River at Calgary",
			ShortName: "Bow - YYC",
		},
		{
			Number:    "05BJ001",
			Name:      "Elbow River below Glenmore Dam",
			ShortName: "Elbow blw. Glenmore",
			FlowThresholds: []ThresholdRule{
				{UpperBound: 20, Marker: MarkerSafe},
				{UpperBound: 35, Marker: MarkerWarn},
				{UpperBound: 50, Marker: MarkerDanger},
			},
		},
		{
			Number:    "05BJ008",
			Name:      "Glenmore Reservoir at Calgary",
			ShortName: "Glenmore Resevoir",
		},
		{
			Number:    "05BH005",
			Name:      "Bow River near Cochrane",
			ShortName: "Bow - Cochrane",
		},
		{
			Number:    "05BJ004",
			Name:      "Elbow River at Bragg Creek",
			ShortName: "Elbow - Bragg Creek",
		},
	})
}

// Lookup returns the station for a number, if configured.
func (c *Catalog) Lookup(number string) (Station, bool) {
	st, ok := c.byNumber[number]
	return st, ok
}

// Numbers returns the station numbers in catalog order.
func (c *Catalog) Numbers() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Classify maps a flow reading to a status marker by walking the station's
// threshold rules in ascending order. The first rule whose upper bound
// exceeds the reading wins; a reading above every bound is Danger. Missing
// readings and stations without rules are unclassified.
func (c *Catalog) Classify(number string, flow float64) Marker {
	if entities.Missing(flow) {
		return MarkerNone
	}
	st, ok := c.byNumber[number]
	if !ok || len(st.FlowThresholds) == 0 {
		return MarkerNone
	}
	for _, rule := range st.FlowThresholds {
		if flow < rule.UpperBound {
			return rule.Marker
		}
	}
	return MarkerDanger
}
