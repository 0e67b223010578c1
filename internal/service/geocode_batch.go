package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/peakcomfort/backend/internal/db"
	"github.com/peakcomfort/backend/internal/geocode"
	"github.com/peakcomfort/backend/internal/models"
)

// GeocodeBatchService backfills coordinates for customers that have an
// address but no lat/lng yet. Items run sequentially with an inter-item
// delay to stay under the provider's rate limit; the context cancels the
// sweep between items.
type GeocodeBatchService struct {
	Store    *db.Store
	Geocoder geocode.Geocoder
	Delay    time.Duration
	Logger   zerolog.Logger
}

type GeocodeBatchSummary struct {
	Scanned   int `json:"scanned"`
	Updated   int `json:"updated"`
	NotFound  int `json:"not_found"`
	Errors    int `json:"errors"`
	Cancelled bool `json:"cancelled,omitempty"`
}

func (s *GeocodeBatchService) Run(ctx context.Context) (GeocodeBatchSummary, error) {
	customers, err := s.Store.ListCustomersMissingCoordinates(ctx)
	if err != nil {
		return GeocodeBatchSummary{}, err
	}

	lookup := func(ctx context.Context, c models.Customer) (geocode.Result, error) {
		return s.Geocoder.Geocode(ctx, geocode.BuildQuery(c.Street, c.City, c.State, c.Zip))
	}
	save := func(ctx context.Context, c models.Customer, r geocode.Result) error {
		return s.Store.UpdateCustomerCoordinates(ctx, c.ID, r.Lat, r.Lng)
	}

	summary := backfillCoordinates(ctx, customers, lookup, save, s.Delay, s.Logger)
	s.Logger.Info().
		Int("scanned", summary.Scanned).
		Int("updated", summary.Updated).
		Int("not_found", summary.NotFound).
		Int("errors", summary.Errors).
		Bool("cancelled", summary.Cancelled).
		Msg("geocode backfill finished")
	return summary, nil
}

func backfillCoordinates(
	ctx context.Context,
	customers []models.Customer,
	lookup func(context.Context, models.Customer) (geocode.Result, error),
	save func(context.Context, models.Customer, geocode.Result) error,
	delay time.Duration,
	logger zerolog.Logger,
) GeocodeBatchSummary {
	if delay < 200*time.Millisecond {
		delay = 200 * time.Millisecond
	}

	summary := GeocodeBatchSummary{}
	for i, c := range customers {
		if ctx.Err() != nil {
			summary.Cancelled = true
			return summary
		}
		summary.Scanned++

		result, err := lookup(ctx, c)
		switch {
		case err == nil:
			if err := save(ctx, c, result); err != nil {
				summary.Errors++
				logger.Error().Err(err).Str("customer_id", c.ID).Msg("failed to save coordinates")
			} else {
				summary.Updated++
			}
		case errors.Is(err, geocode.ErrNotFound):
			summary.NotFound++
			logger.Warn().Str("customer_id", c.ID).Msg("address not found")
		case ctx.Err() != nil:
			summary.Cancelled = true
			return summary
		default:
			summary.Errors++
			boundary := &ExternalServiceError{Service: "geocode", Err: err}
			logger.Error().Err(boundary).Str("customer_id", c.ID).Msg("geocode failed")
		}

		if i < len(customers)-1 {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				summary.Cancelled = true
				return summary
			}
		}
	}
	return summary
}
