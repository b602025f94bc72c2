package service

import (
	"context"
	"sync"

	"marketdash/internal/domain"

	"go.uber.org/zap"
)

type CatalogService interface {
	// RefreshCatalog fans out to every source concurrently and concatenates
	// whatever came back. It never fails; total latency is bounded by the
	// slowest source, not the sum.
	RefreshCatalog(ctx context.Context) []domain.Asset
}

type catalogServiceHandler struct {
	Sources []QuoteSource
	Log     *zap.SugaredLogger
}

func NewCatalogService(log *zap.SugaredLogger, sources ...QuoteSource) CatalogService {
	return catalogServiceHandler{Sources: sources, Log: log}
}

func (h catalogServiceHandler) RefreshCatalog(ctx context.Context) []domain.Asset {
	batches := make([][]domain.Asset, len(h.Sources))

	var wg sync.WaitGroup
	for i, source := range h.Sources {
		wg.Add(1)
		go func(i int, source QuoteSource) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					h.Log.Errorf("%s source panicked during fetch: %v", source.Kind(), r)
					batches[i] = nil
				}
			}()
			batches[i] = source.FetchBatch(ctx)
		}(i, source)
	}
	wg.Wait()

	return mergeBatches(batches)
}

// mergeBatches concatenates batches in source registration order, keeping
// each batch's internal ordering. On a duplicate ID the later batch's record
// replaces the earlier one in place - last writer in merge order wins.
func mergeBatches(batches [][]domain.Asset) []domain.Asset {
	merged := []domain.Asset{}
	position := map[string]int{}
	for _, batch := range batches {
		for _, asset := range batch {
			if i, seen := position[asset.ID]; seen {
				merged[i] = asset
				continue
			}
			position[asset.ID] = len(merged)
			merged = append(merged, asset)
		}
	}
	return merged
}
