package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/peakcomfort/backend/internal/geocode"
	"github.com/peakcomfort/backend/internal/models"
)

func TestBackfillCoordinatesCounts(t *testing.T) {
	customers := []models.Customer{
		{ID: "c1", Street: "123 Main St"},
		{ID: "c2", Street: "does not exist"},
		{ID: "c3", Street: "456 Oak Ave"},
		{ID: "c4", Street: "timeout lane"},
	}

	lookup := func(_ context.Context, c models.Customer) (geocode.Result, error) {
		switch c.ID {
		case "c2":
			return geocode.Result{}, geocode.ErrNotFound
		case "c4":
			return geocode.Result{}, errors.New("upstream 500")
		default:
			return geocode.Result{Lat: 39.7, Lng: -104.9}, nil
		}
	}
	saved := map[string]geocode.Result{}
	save := func(_ context.Context, c models.Customer, r geocode.Result) error {
		saved[c.ID] = r
		return nil
	}

	summary := backfillCoordinates(context.Background(), customers, lookup, save, time.Millisecond, zerolog.Nop())
	if summary.Scanned != 4 || summary.Updated != 2 || summary.NotFound != 1 || summary.Errors != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if summary.Cancelled {
		t.Fatal("cancelled without cancellation")
	}
	if _, ok := saved["c1"]; !ok {
		t.Fatal("c1 coordinates not saved")
	}
	if _, ok := saved["c2"]; ok {
		t.Fatal("not-found customer saved")
	}
}

func TestBackfillCoordinatesSaveFailureCountsAsError(t *testing.T) {
	customers := []models.Customer{{ID: "c1"}}
	lookup := func(_ context.Context, _ models.Customer) (geocode.Result, error) {
		return geocode.Result{Lat: 1, Lng: 2}, nil
	}
	save := func(_ context.Context, _ models.Customer, _ geocode.Result) error {
		return errors.New("db down")
	}

	summary := backfillCoordinates(context.Background(), customers, lookup, save, time.Millisecond, zerolog.Nop())
	if summary.Errors != 1 || summary.Updated != 0 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
}

func TestBackfillCoordinatesCancellation(t *testing.T) {
	customers := []models.Customer{{ID: "c1"}, {ID: "c2"}, {ID: "c3"}}
	ctx, cancel := context.WithCancel(context.Background())

	var calls int
	lookup := func(_ context.Context, _ models.Customer) (geocode.Result, error) {
		calls++
		cancel()
		return geocode.Result{Lat: 1, Lng: 2}, nil
	}
	save := func(_ context.Context, _ models.Customer, _ geocode.Result) error { return nil }

	summary := backfillCoordinates(ctx, customers, lookup, save, time.Hour, zerolog.Nop())
	if !summary.Cancelled {
		t.Fatalf("expected cancellation, got %+v", summary)
	}
	if calls != 1 {
		t.Fatalf("expected sweep to stop after first item, got %d calls", calls)
	}
}

func TestBackfillCoordinatesDelayFloor(t *testing.T) {
	// Two items with a tiny configured delay must still take at least the
	// 200ms floor between them.
	customers := []models.Customer{{ID: "c1"}, {ID: "c2"}}
	lookup := func(_ context.Context, _ models.Customer) (geocode.Result, error) {
		return geocode.Result{Lat: 1, Lng: 2}, nil
	}
	save := func(_ context.Context, _ models.Customer, _ geocode.Result) error { return nil }

	start := time.Now()
	backfillCoordinates(context.Background(), customers, lookup, save, time.Nanosecond, zerolog.Nop())
	if elapsed := time.Since(start); elapsed < 200*time.Millisecond {
		t.Fatalf("inter-item delay not enforced, sweep took %v", elapsed)
	}
}
