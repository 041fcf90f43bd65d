package service

import (
	"fmt"

	"qc-dashboard/internal/features/bulkorders/domain"
)

// Reconciliation is the outcome of merging one page into the running accumulator.
type Reconciliation struct {
	// Filtered are the page orders that passed the mode's filter.
	Filtered []domain.Order
	// Accumulated is the accumulator after the merge, in first-seen order.
	Accumulated []domain.Order
	// Dropped counts filtered orders without an order number.
	Dropped int
	// Continue is true when another page should be requested.
	Continue bool
	// AfterTag is the token for the next request.
	AfterTag string
	// Failure is set when the upstream reported a soft failure.
	Failure *domain.Notice
}

// Reconcile filters a page, merges it into previous and decides whether to continue.
// A soft failure leaves the accumulator unchanged and stops the fetch.
func Reconcile(page *domain.Page, previous []domain.Order, mode domain.FetchMode) Reconciliation {
	if !page.Success {
		n := domain.NewNotice(domain.NoticeWarning, "Upstream rejected the request", failureMessage(page.Code, page.Message))
		return Reconciliation{
			Filtered:    []domain.Order{},
			Accumulated: domain.NewAccumulator(previous).Orders(),
			Failure:     &n,
		}
	}

	filtered := page.Orders
	if mode == domain.FetchModeCompletion {
		filtered = domain.FilterCompleted(page.Orders)
	}
	if filtered == nil {
		filtered = []domain.Order{}
	}

	acc := domain.NewAccumulator(previous)
	dropped := acc.Merge(filtered)

	return Reconciliation{
		Filtered:    filtered,
		Accumulated: acc.Orders(),
		Dropped:     dropped,
		Continue:    page.AfterTag != "" && !page.IsComplete,
		AfterTag:    page.AfterTag,
	}
}

func failureMessage(code, message string) string {
	switch {
	case code != "" && message != "":
		return fmt.Sprintf("%s: %s", code, message)
	case code != "":
		return code
	case message != "":
		return message
	default:
		return "unknown error"
	}
}
