package entity

// OrderStatus is the fulfillment state of an order.
type OrderStatus string

const (
	StatusPending     OrderStatus = "pending"
	StatusInWarehouse OrderStatus = "in_warehouse"
	StatusShipped     OrderStatus = "shipped"
)

// next is the single transition table for the status pipeline.
// pending → in_warehouse → shipped, strictly forward, no branching.
// Every caller (advance action, delete rule, PATCH validation) reads
// this table instead of re-declaring the sequence.
var next = map[OrderStatus]OrderStatus{
	StatusPending:     StatusInWarehouse,
	StatusInWarehouse: StatusShipped,
}

// rank orders the statuses so regressions can be detected for
// arbitrary PATCH targets, not just single-step advances.
var rank = map[OrderStatus]int{
	StatusPending:     0,
	StatusInWarehouse: 1,
	StatusShipped:     2,
}

// Valid reports whether s is a known status value.
func (s OrderStatus) Valid() bool {
	_, ok := rank[s]
	return ok
}

// Next returns the following status in the pipeline. The second return
// is false when s is terminal (shipped) — not an error, callers must
// branch on it before offering an advance action.
func (s OrderStatus) Next() (OrderStatus, bool) {
	n, ok := next[s]
	return n, ok
}

// CanAdvance reports whether the order can still move forward.
func (s OrderStatus) CanAdvance() bool {
	_, ok := next[s]
	return ok
}

// CanDelete reports whether an order in this status may be deleted.
// Deletion is only allowed before any fulfillment step has begun.
func (s OrderStatus) CanDelete() bool {
	return s == StatusPending
}

// CanTransitionTo reports whether moving from s to target is legal.
// Forward jumps are allowed (pending → shipped skips the warehouse but
// never moves back); regressions are not.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	if !s.Valid() || !target.Valid() {
		return false
	}
	return rank[target] >= rank[s]
}
