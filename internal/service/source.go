package service

import (
	"context"

	"marketdash/internal/domain"
)

// QuoteSource is one upstream provider normalized to the canonical Asset
// shape. FetchBatch never fails: a provider outage degrades the catalog,
// it does not break a refresh.
type QuoteSource interface {
	Kind() domain.AssetKind
	FetchBatch(ctx context.Context) []domain.Asset
}

// sparklines are capped at 7 days of hourly points; anything shorter is
// passed through untouched, never padded
const maxSparklinePoints = 168

func truncateSparkline(points []float64) []float64 {
	if len(points) == 0 {
		return nil
	}
	if len(points) > maxSparklinePoints {
		points = points[len(points)-maxSparklinePoints:]
	}
	return points
}
