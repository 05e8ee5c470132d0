package domain

// View is a named status projection used by the scanning stations.
type View string

const (
	ViewAll               View = "all"
	ViewHome              View = "home"
	ViewIntake            View = "intake"
	ViewEgress            View = "egress"
	ViewPendingSubmission View = "pending_submission"
	ViewSubmitted         View = "submitted"
)

var viewStatuses = map[View][]Status{
	ViewAll:               Statuses,
	ViewHome:              {StatusRegistered, StatusCheckedOut},
	ViewIntake:            {StatusRegistered},
	ViewEgress:            {StatusCheckedOut},
	ViewPendingSubmission: {StatusCheckedOut},
	ViewSubmitted:         {StatusSubmitted},
}

// ParseView converts a query parameter into a View. Empty means ViewAll.
func ParseView(s string) (View, error) {
	if s == "" {
		return ViewAll, nil
	}
	v := View(s)
	if _, ok := viewStatuses[v]; !ok {
		return "", ErrInvalidQuery
	}
	return v, nil
}

// Includes reports whether units in status s belong to the view.
func (v View) Includes(s Status) bool {
	for _, st := range viewStatuses[v] {
		if st == s {
			return true
		}
	}
	return false
}
