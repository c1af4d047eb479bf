// Package usecases contains the application's business logic.
package usecases

import (
	"fmt"
	"log/slog"

	"riverbot/internal/charts"
	"riverbot/internal/entities"
	"riverbot/internal/integration"
	"riverbot/internal/report"
	"riverbot/internal/shaping"
	"riverbot/internal/stations"
)

// Stations used by the summary and the charts.
const (
	stationBowCalgary  = "05BH004"
	stationElbow       = "05BJ001"
	stationGlenmore    = "05BJ008"
	stationBowCochrane = "05BH005"
)

// chartStations are plotted on both charts, one line each.
var chartStations = []string{stationBowCochrane, stationBowCalgary, stationElbow}

// Publisher posts the summary text with the attached chart images.
type Publisher interface {
	Publish(text string, images []entities.ChartImage) error
}

// ReportUseCase runs one fetch/format/render/publish cycle.
type ReportUseCase struct {
	fetcher    *integration.RiverFetcher
	shaper     *shaping.Shaper
	catalog    *stations.Catalog
	publishers []Publisher
	fetchLimit int
}

// NewReportUseCase creates the report pipeline.
func NewReportUseCase(fetcher *integration.RiverFetcher, catalog *stations.Catalog, fetchLimit int, publishers ...Publisher) *ReportUseCase {
	return &ReportUseCase{
		fetcher:    fetcher,
		shaper:     shaping.NewShaper(catalog),
		catalog:    catalog,
		publishers: publishers,
		fetchLimit: fetchLimit,
	}
}

// PublishReport fetches the bulk feed, shapes every catalog station, builds
// the summary and the two charts, and posts them to every configured
// publisher. The first failure aborts the run; nothing is posted partially.
func (uc *ReportUseCase) PublishReport() error {
	slog.Info("starting river report run")

	raw, err := uc.fetcher.FetchAllRecent(uc.fetchLimit)
	if err != nil {
		return fmt.Errorf("failed to fetch river data: %v", err)
	}

	shaped := make(map[string][]entities.Reading)
	for _, number := range uc.catalog.Numbers() {
		readings, err := uc.shaper.Shape(raw, number)
		if err != nil {
			return fmt.Errorf("failed to shape station %s: %v", number, err)
		}
		slog.Info("shaped station readings", "station", number, "rows", len(readings))
		shaped[number] = readings
	}

	latest := make(map[string]entities.Reading)
	for _, number := range []string{stationBowCalgary, stationElbow, stationGlenmore, stationBowCochrane} {
		r, ok := shaping.Latest(shaped[number])
		if !ok {
			return fmt.Errorf("no readings in feed for station %s", number)
		}
		latest[number] = r
	}

	summary := report.Summary(
		latest[stationBowCalgary],
		latest[stationElbow],
		latest[stationGlenmore],
		latest[stationBowCochrane],
		uc.catalog,
	)
	slog.Info("built summary", "chars", len(summary))

	var flowSeries, levelSeries []charts.Series
	for _, number := range chartStations {
		st, _ := uc.catalog.Lookup(number)
		flowSeries = append(flowSeries, charts.FlowSeries(st.ShortName, shaped[number]))
		levelSeries = append(levelSeries, charts.LevelSeries(st.ShortName, shaped[number]))
	}

	flowPNG, err := charts.Render("Flow (m3/s)", flowSeries)
	if err != nil {
		return fmt.Errorf("failed to render flow chart: %v", err)
	}
	levelPNG, err := charts.Render("Level (m)", levelSeries)
	if err != nil {
		return fmt.Errorf("failed to render level chart: %v", err)
	}
	slog.Info("rendered charts", "flowBytes", len(flowPNG), "levelBytes", len(levelPNG))

	images := []entities.ChartImage{
		{Filename: "flow.png", PNG: flowPNG},
		{Filename: "level.png", PNG: levelPNG},
	}
	for _, p := range uc.publishers {
		if err := p.Publish(summary, images); err != nil {
			return fmt.Errorf("failed to publish report: %v", err)
		}
	}

	slog.Info("river report published", "publishers", len(uc.publishers))
	return nil
}
