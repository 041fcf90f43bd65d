package domain

// SearchQuery is one upstream search request.
type SearchQuery struct {
	Range    DateRange
	AfterTag string
}

// CompletionBatch is the result of one completion details lookup.
type CompletionBatch struct {
	// Success is false when the upstream rejected the whole request.
	Success bool
	Code    string
	Message string
	// Details maps order number to its completion details.
	Details map[string]CompletionDetails
}

// Attach sets Completion on every order found in details and returns the updated slice.
func Attach(orders []Order, details map[string]CompletionDetails) []Order {
	out := make([]Order, len(orders))
	for i, o := range orders {
		if d, ok := details[o.OrderNo]; ok {
			d := d
			o.Completion = &d
		}
		out[i] = o
	}
	return out
}

// ImportResult summarizes a work order import.
type ImportResult struct {
	SessionID string `json:"session_id"`
	Imported  int    `json:"imported"`
	Skipped   int    `json:"skipped"`
}
