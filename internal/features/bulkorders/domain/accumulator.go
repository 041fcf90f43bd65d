package domain

// Accumulator collects orders across pages keyed by OrderNo.
// An order keeps the position where its key was first seen; a later write replaces its value.
type Accumulator struct {
	index  map[string]int
	orders []Order
}

// NewAccumulator returns an accumulator seeded with previous orders.
func NewAccumulator(previous []Order) *Accumulator {
	a := &Accumulator{index: make(map[string]int, len(previous))}
	a.Merge(previous)
	return a
}

// Merge adds orders, last write wins. Orders without an OrderNo cannot be keyed and are
// dropped; the number of dropped orders is returned.
func (a *Accumulator) Merge(orders []Order) (dropped int) {
	for _, o := range orders {
		if o.OrderNo == "" {
			dropped++
			continue
		}
		if i, ok := a.index[o.OrderNo]; ok {
			a.orders[i] = o
			continue
		}
		a.index[o.OrderNo] = len(a.orders)
		a.orders = append(a.orders, o)
	}
	return dropped
}

// Len is the number of distinct orders.
func (a *Accumulator) Len() int {
	return len(a.orders)
}

// Get returns the order stored under orderNo.
func (a *Accumulator) Get(orderNo string) (Order, bool) {
	i, ok := a.index[orderNo]
	if !ok {
		return Order{}, false
	}
	return a.orders[i], true
}

// Orders returns a copy of the collected orders in first-seen order.
func (a *Accumulator) Orders() []Order {
	out := make([]Order, len(a.orders))
	copy(out, a.orders)
	return out
}
