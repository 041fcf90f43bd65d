package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"qc-dashboard/internal/core/config"
	"qc-dashboard/internal/core/logger"
	"qc-dashboard/internal/features/bulkorders/domain"
	"qc-dashboard/internal/features/bulkorders/ports"

	"go.uber.org/zap"
)

// Notice titles emitted by the driver.
const (
	TitlePageFetched    = "Page fetched"
	TitleFetchComplete  = "Fetch complete"
	TitleFetchFailed    = "Fetch failed"
	TitlePageLimit      = "Page limit reached"
	TitleUpstreamReject = "Upstream rejected the request"
)

// FetchRequest starts a driver run. AfterTag and Seed resume a previous run.
type FetchRequest struct {
	Range    domain.DateRange
	Mode     domain.FetchMode
	AfterTag string
	Seed     []domain.Order
	// OnPage is called after every successfully reconciled page.
	OnPage func(page *domain.Page, rec Reconciliation)
}

// Result is the final state of a driver run.
type Result struct {
	State    domain.SessionState
	Pages    int
	Fetched  int
	AfterTag string
	Orders   []domain.Order
	LastPage json.RawMessage
	// Failure holds the upstream soft failure message, if any.
	Failure string
}

// Driver pages through the upstream search, one request in flight at a time.
type Driver struct {
	fetcher  ports.PageFetcher
	maxPages int
	delay    time.Duration
	log      *zap.Logger
}

// NewDriver creates a pagination driver.
func NewDriver(fetcher ports.PageFetcher, cfg config.BulkOrdersConfig) *Driver {
	maxPages := cfg.MaxPages
	if maxPages <= 0 {
		maxPages = 200
	}
	return &Driver{
		fetcher:  fetcher,
		maxPages: maxPages,
		delay:    cfg.PageDelay(),
		log:      logger.Named("bulk_driver"),
	}
}

// Run fetches pages until the reconciler stops, the page limit is hit, a request fails or
// ctx is cancelled. The returned Result is never nil. The error is non-nil for transport
// failures and cancellation.
func (d *Driver) Run(ctx context.Context, req FetchRequest, notifier ports.Notifier) (*Result, error) {
	res := &Result{
		State:    domain.SessionContinuing,
		AfterTag: req.AfterTag,
		Orders:   domain.NewAccumulator(req.Seed).Orders(),
	}
	log := d.log.With(zap.String("from", req.Range.From), zap.String("to", req.Range.To), zap.String("mode", string(req.Mode)))
	log.Info("Fetch started", zap.Bool("resumed", req.AfterTag != ""))

	for {
		if res.Pages >= d.maxPages {
			notifier.Notify(ctx, domain.NewNotice(domain.NoticeWarning, TitlePageLimit,
				fmt.Sprintf("Stopped after %d pages; resume to continue", res.Pages)))
			return d.complete(ctx, res, notifier, log), nil
		}

		page, err := d.fetcher.FetchPage(ctx, ports.PageRequest{Range: req.Range, Mode: req.Mode, AfterTag: res.AfterTag})
		if err != nil {
			if ctx.Err() != nil {
				return d.cancel(res, log), ctx.Err()
			}
			log.Error("Page request failed", zap.Int("page", res.Pages+1), zap.Error(err))
			notifier.Notify(ctx, domain.NewNotice(domain.NoticeError, TitleFetchFailed, err.Error()))
			res.State = domain.SessionFailed
			return res, err
		}
		if ctx.Err() != nil {
			return d.cancel(res, log), ctx.Err()
		}

		rec := Reconcile(page, res.Orders, req.Mode)
		if rec.Failure != nil {
			log.Warn("Upstream soft failure", zap.String("code", page.Code), zap.String("message", page.Message))
			notifier.Notify(ctx, *rec.Failure)
			res.State = domain.SessionFailed
			res.Failure = rec.Failure.Message
			return res, nil
		}

		res.Pages++
		res.Fetched += len(page.Orders)
		res.Orders = rec.Accumulated
		res.AfterTag = rec.AfterTag
		if len(page.Raw) > 0 {
			res.LastPage = page.Raw
		}
		if !rec.Continue {
			res.AfterTag = ""
		}
		if req.OnPage != nil {
			req.OnPage(page, rec)
		}

		log.Debug("Page reconciled",
			zap.Int("page", res.Pages),
			zap.Int("received", len(page.Orders)),
			zap.Int("kept", len(rec.Filtered)),
			zap.Int("dropped", rec.Dropped),
			zap.Int("accumulated", len(res.Orders)),
			zap.Bool("continue", rec.Continue))
		notifier.Notify(ctx, domain.NewNotice(domain.NoticeInfo, TitlePageFetched,
			fmt.Sprintf("Page %d: %d orders received, %d kept, %d total", res.Pages, len(page.Orders), len(rec.Filtered), len(res.Orders))))

		if !rec.Continue {
			return d.complete(ctx, res, notifier, log), nil
		}

		if err := d.wait(ctx); err != nil {
			return d.cancel(res, log), err
		}
	}
}

func (d *Driver) complete(ctx context.Context, res *Result, notifier ports.Notifier, log *zap.Logger) *Result {
	res.State = domain.SessionCompleted
	log.Info("Fetch completed", zap.Int("pages", res.Pages), zap.Int("fetched", res.Fetched), zap.Int("kept", len(res.Orders)))
	notifier.Notify(ctx, domain.NewNotice(domain.NoticeInfo, TitleFetchComplete,
		fmt.Sprintf("%d pages, %d orders fetched, %d kept", res.Pages, res.Fetched, len(res.Orders))))
	return res
}

func (d *Driver) cancel(res *Result, log *zap.Logger) *Result {
	res.State = domain.SessionCancelled
	log.Info("Fetch cancelled", zap.Int("pages", res.Pages))
	return res
}

func (d *Driver) wait(ctx context.Context) error {
	if d.delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// IsCancellation reports whether err comes from a cancelled or expired context.
func IsCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
