package service

import (
	"context"
	"fmt"
	"sync"

	"qc-dashboard/internal/core/logger"
	"qc-dashboard/internal/features/bulkorders/domain"
	"qc-dashboard/internal/features/bulkorders/ports"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// completionConcurrency bounds the parallel completion lookups of one page.
const completionConcurrency = 4

// UpstreamPageFetcher implements ports.PageFetcher on top of the OptimoRoute adapter.
type UpstreamPageFetcher struct {
	searcher  ports.OrderSearcher
	cache     ports.CompletionCache
	batchSize int
}

// NewPageFetcher creates a page fetcher. cache may be nil.
func NewPageFetcher(searcher ports.OrderSearcher, cache ports.CompletionCache, batchSize int) *UpstreamPageFetcher {
	if batchSize <= 0 {
		batchSize = 500
	}
	return &UpstreamPageFetcher{searcher: searcher, cache: cache, batchSize: batchSize}
}

// FetchPage returns one search page; in completion mode its orders carry completion details.
func (f *UpstreamPageFetcher) FetchPage(ctx context.Context, req ports.PageRequest) (*domain.Page, error) {
	page, err := f.searcher.SearchOrders(ctx, domain.SearchQuery{Range: req.Range, AfterTag: req.AfterTag})
	if err != nil {
		return nil, err
	}
	if req.Mode != domain.FetchModeCompletion || !page.Success || len(page.Orders) == 0 {
		return page, nil
	}

	batch, err := f.CompletionDetails(ctx, orderNumbers(page.Orders))
	if err != nil {
		return nil, err
	}
	if !batch.Success {
		failed := domain.SoftFailure(batch.Code, batch.Message)
		failed.Raw = page.Raw
		return failed, nil
	}

	page.Orders = domain.Attach(page.Orders, batch.Details)
	return page, nil
}

// CompletionDetails resolves completion details from the cache first, then from the upstream
// in concurrent batches. The first batch soft failure is reported on the returned batch.
func (f *UpstreamPageFetcher) CompletionDetails(ctx context.Context, orderNos []string) (*domain.CompletionBatch, error) {
	result := &domain.CompletionBatch{Success: true, Details: make(map[string]domain.CompletionDetails, len(orderNos))}

	missing := orderNos
	if f.cache != nil {
		cached, err := f.cache.GetMany(ctx, orderNos)
		if err != nil {
			logger.Get().Warn("Completion cache read failed", zap.Error(err))
		} else {
			missing = missing[:0:0]
			for _, no := range orderNos {
				if d, ok := cached[no]; ok {
					result.Details[no] = d
					continue
				}
				missing = append(missing, no)
			}
		}
	}
	if len(missing) == 0 {
		return result, nil
	}

	var mu sync.Mutex
	fetched := make(map[string]domain.CompletionDetails, len(missing))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(completionConcurrency)
	for _, chunk := range chunks(missing, f.batchSize) {
		chunk := chunk
		g.Go(func() error {
			batch, err := f.searcher.GetCompletionDetails(gctx, chunk)
			if err != nil {
				return fmt.Errorf("completion details for %d orders: %w", len(chunk), err)
			}
			mu.Lock()
			defer mu.Unlock()
			if !batch.Success {
				if result.Success {
					result.Success = false
					result.Code = batch.Code
					result.Message = batch.Message
				}
				return nil
			}
			for no, d := range batch.Details {
				fetched[no] = d
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for no, d := range fetched {
		result.Details[no] = d
	}
	if f.cache != nil && len(fetched) > 0 {
		if err := f.cache.Put(ctx, fetched); err != nil {
			logger.Get().Warn("Completion cache write failed", zap.Error(err))
		}
	}
	return result, nil
}

func orderNumbers(orders []domain.Order) []string {
	out := make([]string, 0, len(orders))
	seen := make(map[string]struct{}, len(orders))
	for _, o := range orders {
		if o.OrderNo == "" {
			continue
		}
		if _, ok := seen[o.OrderNo]; ok {
			continue
		}
		seen[o.OrderNo] = struct{}{}
		out = append(out, o.OrderNo)
	}
	return out
}

func chunks(items []string, size int) [][]string {
	var out [][]string
	for len(items) > size {
		out = append(out, items[:size])
		items = items[size:]
	}
	if len(items) > 0 {
		out = append(out, items)
	}
	return out
}
