// internal/service/order/domain/state.go
package domain

// Status is the lifecycle state of an order.
type Status string

const (
	StatusCreated           Status = "CREATED"
	StatusInventoryReserved Status = "INVENTORY_RESERVED"
	StatusConfirmed         Status = "CONFIRMED"
	StatusProcessing        Status = "PROCESSING"
	StatusCompleted         Status = "COMPLETED"
	StatusCancelled         Status = "CANCELLED"
	StatusFailed            Status = "FAILED"
)

// forward lists the single happy-path successor of each state.
var forward = map[Status]Status{
	StatusCreated:           StatusInventoryReserved,
	StatusInventoryReserved: StatusConfirmed,
	StatusConfirmed:         StatusProcessing,
	StatusProcessing:        StatusCompleted,
}

func ParseStatus(s string) (Status, bool) {
	st := Status(s)
	switch st {
	case StatusCreated, StatusInventoryReserved, StatusConfirmed, StatusProcessing,
		StatusCompleted, StatusCancelled, StatusFailed:
		return st, true
	}
	return "", false
}

func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusFailed
}

// CanTransitionTo reports whether s -> to is allowed. CANCELLED and FAILED are
// reachable from every non-terminal state.
func (s Status) CanTransitionTo(to Status) bool {
	if s.Terminal() {
		return false
	}
	if to == StatusCancelled || to == StatusFailed {
		return true
	}
	return forward[s] == to
}

// HoldsReservation reports whether an order in s still owns a reserved unit
// that must be handed back if the order does not go through.
func (s Status) HoldsReservation() bool {
	return s == StatusInventoryReserved || s == StatusConfirmed
}
