package db

import (
	"path/filepath"
	"testing"
	"time"

	"solarcast/model"
)

func TestSaveAndRecentPredictions(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer store.Close()

	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		v := model.DefaultVector()
		v.DateHour = float64(i)
		if err := store.SavePrediction(v, 100+float64(i), base.Add(time.Duration(i)*time.Minute)); err != nil {
			t.Fatalf("save: %v", err)
		}
	}

	records, err := store.RecentPredictions(2)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Prediction != 102 {
		t.Fatalf("expected newest first, got %v", records[0].Prediction)
	}
	if records[0].DateHour != 2 {
		t.Fatalf("expected date_hour 2, got %v", records[0].DateHour)
	}
	if records[0].WindSpeed != 3.5 {
		t.Fatalf("expected stored wind_speed 3.5, got %v", records[0].WindSpeed)
	}
}

func TestRecentPredictionsEmpty(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "empty.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer store.Close()

	records, err := store.RecentPredictions(10)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected no records, got %d", len(records))
	}
}
