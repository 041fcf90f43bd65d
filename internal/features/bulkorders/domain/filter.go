package domain

// RejectReason explains why an order failed the completion filter.
type RejectReason string

const (
	RejectNone              RejectReason = ""
	RejectNoCompletion      RejectReason = "missing completion details"
	RejectNotSuccessful     RejectReason = "completion lookup not successful"
	RejectNoData            RejectReason = "missing completion data"
	RejectUnfinishedStatus  RejectReason = "status is not success or failed"
	RejectMissingTimestamps RejectReason = "missing start or end time"
)

// CheckCompletion applies the completion filter to a single order. The checks run in
// order and the first failing one decides; there is no partial pass.
func CheckCompletion(o Order) RejectReason {
	c := o.Completion
	switch {
	case c == nil:
		return RejectNoCompletion
	case !c.Success:
		return RejectNotSuccessful
	case c.Data == nil:
		return RejectNoData
	case c.Data.Status != CompletionStatusSuccess && c.Data.Status != CompletionStatusFailed:
		return RejectUnfinishedStatus
	case c.Data.StartTime == nil || c.Data.EndTime == nil:
		return RejectMissingTimestamps
	}
	return RejectNone
}

// FilterCompleted returns the orders that pass the completion filter.
func FilterCompleted(orders []Order) []Order {
	out := make([]Order, 0, len(orders))
	for _, o := range orders {
		if CheckCompletion(o) == RejectNone {
			out = append(out, o)
		}
	}
	return out
}
