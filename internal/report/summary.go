// Package report builds the published text summary.
package report

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"riverbot/internal/entities"
	"riverbot/internal/stations"
)

// headerLayout is the 24-hour clock with an AM/PM suffix, kept for output
// parity with the bot's historical posts.
const headerLayout = "01/02/2006 15:04 PM"

// Summary renders the fixed multi-line report from the most recent reading
// of each tracked station. Missing values render as N/A; the output is
// always a well-formed string.
func Summary(bow, elbow, glenmore, bowCochrane entities.Reading, catalog *stations.Catalog) string {
	var b strings.Builder
	fmt.Fprintf(&b, "River Stats %s\n", bow.Timestamp.Format(headerLayout))
	fmt.Fprintf(&b, "Bow Cochrane: %s m3/min, %s m\n",
		formatValue(bowCochrane.Flow, 2), formatValue(bowCochrane.Level, 2))
	fmt.Fprintf(&b, "Bow YYC: %s m3/min, %s m\n",
		formatValue(bow.Flow, 2), formatValue(bow.Level, 2))
	marker := catalog.Classify(elbow.StationNumber, elbow.Flow)
	fmt.Fprintf(&b, "Elbow YYC: %s: %s m3/min, %s m\n",
		marker.Symbol(), formatValue(elbow.Flow, 2), formatValue(elbow.Level, 2))
	// Reservoir elevation is reported to whole meters.
	fmt.Fprintf(&b, "Glenmore Resevoir: %s m\n", formatValue(glenmore.Level, 0))
	return b.String()
}

// formatValue rounds to the given number of decimals and trims trailing
// zeroes, so 1000.10 renders as 1000.1. Missing values render as N/A.
func formatValue(v float64, decimals int) string {
	if entities.Missing(v) {
		return "N/A"
	}
	shift := math.Pow(10, float64(decimals))
	return strconv.FormatFloat(math.Round(v*shift)/shift, 'f', -1, 64)
}
