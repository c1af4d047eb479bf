// Package integration handles external service interactions.
package integration

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"riverbot/internal/entities"
)

// defaultFeedURL is the City of Calgary river-gauge feed.
const defaultFeedURL = "https://data.calgary.ca/resource/5fdg-ifgr.json"

// timestampLayouts are tried in order against the feed's timestamp strings.
// The parsed value keeps whatever offset the feed encodes; naive timestamps
// are not shifted to any assumed zone.
var timestampLayouts = []string{
	"2006-01-02T15:04:05.000",
	"2006-01-02T15:04:05",
	time.RFC3339,
}

// RiverFetcher retrieves raw gauge readings from the upstream JSON feed.
type RiverFetcher struct {
	feedURL string
	client  *http.Client
}

// NewRiverFetcher creates a fetcher for the given feed URL, defaulting to
// the Calgary open-data endpoint when empty.
func NewRiverFetcher(feedURL string) *RiverFetcher {
	if feedURL == "" {
		feedURL = defaultFeedURL
	}
	return &RiverFetcher{
		feedURL: feedURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// feedRow mirrors one JSON object of the upstream feed. Level and flow are
// decoded tolerantly because the provider has served both strings and bare
// numbers for the same fields.
type feedRow struct {
	Timestamp     string     `json:"timestamp"`
	StationNumber string     `json:"station_number"`
	StationName   string     `json:"station_name"`
	Level         flexString `json:"level"`
	Flow          flexString `json:"flow"`
}

// flexString accepts a JSON string, number, or null.
type flexString string

func (s *flexString) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = flexString(v)
		return nil
	}
	if string(b) == "null" {
		*s = ""
		return nil
	}
	*s = flexString(b)
	return nil
}

// FetchAllRecent pulls the most recent readings for all stations in one
// bulk call, capped at limit rows.
func (f *RiverFetcher) FetchAllRecent(limit int) ([]entities.RawReading, error) {
	query := url.Values{}
	query.Set("$limit", strconv.Itoa(limit))
	return f.fetch(query)
}

// FetchStation pulls readings for a single station, newest first, capped at
// limit rows.
func (f *RiverFetcher) FetchStation(stationNumber string, limit int) ([]entities.RawReading, error) {
	query := url.Values{}
	query.Set("station_number", stationNumber)
	query.Set("$order", "timestamp DESC")
	query.Set("$limit", strconv.Itoa(limit))
	return f.fetch(query)
}

func (f *RiverFetcher) fetch(query url.Values) ([]entities.RawReading, error) {
	requestURL := f.feedURL + "?" + query.Encode()
	slog.Info("fetching river data", "url", requestURL)

	res, err := f.client.Get(requestURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch river data: %v", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d %s", res.StatusCode, res.Status)
	}

	var rows []feedRow
	if err := json.NewDecoder(res.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("failed to decode river data: %v", err)
	}

	var readings []entities.RawReading
	skipped := 0
	for _, row := range rows {
		ts, ok := parseTimestamp(row.Timestamp)
		if !ok {
			slog.Warn("skipping row with unparseable timestamp",
				"timestamp", row.Timestamp, "station", row.StationNumber)
			skipped++
			continue
		}
		readings = append(readings, entities.RawReading{
			Timestamp:     ts,
			StationNumber: row.StationNumber,
			StationName:   row.StationName,
			Level:         string(row.Level),
			Flow:          string(row.Flow),
		})
	}

	slog.Info("fetched river data", "rows", len(rows), "valid", len(readings), "skipped", skipped)
	return readings, nil
}

func parseTimestamp(s string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
