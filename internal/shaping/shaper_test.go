package shaping

import (
	"errors"
	"testing"
	"time"

	"riverbot/internal/entities"
	"riverbot/internal/stations"
)

func testShaper() *Shaper {
	return NewShaper(stations.DefaultCatalog())
}

func rawRow(station string, ts time.Time, level, flow string) entities.RawReading {
	return entities.RawReading{
		Timestamp:     ts,
		StationNumber: station,
		StationName:   "Station " + station,
		Level:         level,
		Flow:          flow,
	}
}

func TestShapeFiltersAndCoerces(t *testing.T) {
	now := time.Date(2022, time.May, 30, 6, 15, 0, 0, time.UTC)
	raw := []entities.RawReading{
		rawRow("05BH004", now, "1.23", "99.5"),
		rawRow("05BJ001", now, "1.52", "18.25"),
		rawRow("05BH004", now.Add(-time.Hour), "not-a-number", ""),
	}

	readings, err := testShaper().Shape(raw, "05BH004")
	if err != nil {
		t.Fatalf("Shape failed: %v", err)
	}
	if len(readings) != 2 {
		t.Fatalf("expected 2 readings for 05BH004, got %d", len(readings))
	}

	if readings[0].Level != 1.23 || readings[0].Flow != 99.5 {
		t.Errorf("first reading coerced wrong: level=%v flow=%v", readings[0].Level, readings[0].Flow)
	}
	if !entities.Missing(readings[1].Level) {
		t.Error("non-numeric level should coerce to missing")
	}
	if !entities.Missing(readings[1].Flow) {
		t.Error("empty flow should coerce to missing")
	}
}

func TestShapeUnknownStation(t *testing.T) {
	_, err := testShaper().Shape(nil, "05XX999")
	if err == nil {
		t.Fatal("expected an error for an unconfigured station")
	}
	if !errors.Is(err, ErrUnknownStation) {
		t.Errorf("expected ErrUnknownStation, got %v", err)
	}
}

func TestShapeDailyAggregates(t *testing.T) {
	day := time.Date(2022, time.May, 30, 0, 0, 0, 0, time.UTC)
	raw := []entities.RawReading{
		rawRow("05BH004", day.Add(6*time.Hour), "1.0", "10"),
		rawRow("05BH004", day.Add(12*time.Hour), "3.0", "20"),
	}

	rows, err := testShaper().ShapeDaily(raw, "05BH004")
	if err != nil {
		t.Fatalf("ShapeDaily failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 aggregate day, got %d", len(rows))
	}

	agg := rows[0]
	if !agg.Date.Equal(day) {
		t.Errorf("aggregate date = %v, want %v", agg.Date, day)
	}
	if agg.FlowMean != 15 || agg.FlowMin != 10 || agg.FlowMax != 20 {
		t.Errorf("flow aggregates = mean %v min %v max %v, want 15/10/20",
			agg.FlowMean, agg.FlowMin, agg.FlowMax)
	}
	if agg.LevelMean != 2 || agg.LevelMin != 1 || agg.LevelMax != 3 {
		t.Errorf("level aggregates = mean %v min %v max %v, want 2/1/3",
			agg.LevelMean, agg.LevelMin, agg.LevelMax)
	}
}

func TestShapeDailyZeroFillsEmptyDay(t *testing.T) {
	day := time.Date(2022, time.May, 30, 0, 0, 0, 0, time.UTC)
	raw := []entities.RawReading{
		rawRow("05BH004", day.Add(6*time.Hour), "n/a", "n/a"),
	}

	rows, err := testShaper().ShapeDaily(raw, "05BH004")
	if err != nil {
		t.Fatalf("ShapeDaily failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 aggregate day, got %d", len(rows))
	}

	agg := rows[0]
	if agg.FlowMean != 0 || agg.FlowMin != 0 || agg.FlowMax != 0 ||
		agg.LevelMean != 0 || agg.LevelMin != 0 || agg.LevelMax != 0 {
		t.Errorf("day without valid readings should be all-zero, got %+v", agg)
	}
}

func TestShapeDailySortsByDate(t *testing.T) {
	day1 := time.Date(2022, time.May, 30, 8, 0, 0, 0, time.UTC)
	day2 := time.Date(2022, time.May, 31, 8, 0, 0, 0, time.UTC)
	raw := []entities.RawReading{
		rawRow("05BH004", day2, "2.0", "20"),
		rawRow("05BH004", day1, "1.0", "10"),
	}

	rows, err := testShaper().ShapeDaily(raw, "05BH004")
	if err != nil {
		t.Fatalf("ShapeDaily failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 aggregate days, got %d", len(rows))
	}
	if !rows[0].Date.Before(rows[1].Date) {
		t.Errorf("aggregate rows not sorted ascending: %v then %v", rows[0].Date, rows[1].Date)
	}
}

func TestLatest(t *testing.T) {
	now := time.Date(2022, time.May, 30, 6, 15, 0, 0, time.UTC)
	readings := []entities.Reading{
		{Timestamp: now.Add(-2 * time.Hour), Flow: 1},
		{Timestamp: now, Flow: 3},
		{Timestamp: now.Add(-time.Hour), Flow: 2},
	}

	latest, ok := Latest(readings)
	if !ok {
		t.Fatal("Latest returned not-ok for a populated slice")
	}
	if !latest.Timestamp.Equal(now) {
		t.Errorf("Latest picked %v, want %v", latest.Timestamp, now)
	}

	if _, ok := Latest(nil); ok {
		t.Error("Latest returned ok for an empty slice")
	}
}
