package domain

// Status represents the lifecycle state of a unit.
type Status string

const (
	// StatusRegistered indicates the unit was scanned in at intake.
	StatusRegistered Status = "Registered"
	// StatusCheckedOut indicates the unit was dispatched to a destination place.
	StatusCheckedOut Status = "CheckedOut"
	// StatusSubmitted indicates the unit was consumed or returned.
	StatusSubmitted Status = "Submitted"
)

// Statuses lists every status in lifecycle order.
var Statuses = []Status{StatusRegistered, StatusCheckedOut, StatusSubmitted}

// ParseStatus converts a raw string into a Status.
func ParseStatus(s string) (Status, error) {
	for _, st := range Statuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", ErrInvalidStatus
}

// Rank returns the position of the status along the lifecycle, or -1 if unknown.
func (s Status) Rank() int {
	for i, st := range Statuses {
		if st == s {
			return i
		}
	}
	return -1
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	return s.Rank() >= 0
}

// Operation identifies a state-changing request against a unit.
type Operation string

const (
	OpIntake    Operation = "intake"
	OpCheckout  Operation = "checkout"
	OpSubmit    Operation = "submit"
	OpAdminEdit Operation = "admin_edit"
	OpDelete    Operation = "delete"
)

// Privileged reports whether the operation requires an admin actor.
func (o Operation) Privileged() bool {
	return o == OpAdminEdit || o == OpDelete
}
