package domain

import (
	"strings"
	"time"
)

// AdminEdit is the correction requested by a privileged actor. Nil fields are kept.
type AdminEdit struct {
	Status *Status `json:"status,omitempty"`
	Place  *string `json:"place,omitempty"`
}

// Empty reports whether the edit changes nothing.
func (e AdminEdit) Empty() bool {
	return e.Status == nil && e.Place == nil
}

// Transition describes one requested change to an existing unit.
type Transition struct {
	Op    Operation
	Actor Actor
	// Place is the checkout destination.
	Place string
	// Edit is only read for OpAdminEdit.
	Edit AdminEdit
	// At is the instant recorded on the unit and the entry.
	At time.Time
	// EntryID identifies the history entry produced by the transition.
	EntryID string
}

// NewUnit builds the Registered unit and its first history entry from a decoded code.
func NewUnit(code ParsedCode, actor Actor, at time.Time, entryID string) (Unit, HistoryEntry) {
	at = at.UTC()
	entry := HistoryEntry{
		ID:           entryID,
		Operation:    OpIntake,
		Actor:        actor.Identity(),
		OccurredAt:   at,
		StatusBefore: "",
		StatusAfter:  string(StatusRegistered),
	}
	u := Unit{
		Key:            code.SerialNumber,
		ProductCode:    code.ProductCode,
		ProductSize:    code.Size,
		LotNumber:      code.LotNumber,
		ExpirationDate: code.ExpirationDate,
		Status:         StatusRegistered,
		LastUpdated:    at,
		Version:        1,
		History:        Ledger{entry},
	}
	return u, entry
}

// Apply validates t against the current state of u and returns the next state and the
// entry recording it. The returned unit keeps u.Version and u.History; persisting the
// entry and bumping the version is the repository's job.
func Apply(u Unit, t Transition) (Unit, HistoryEntry, error) {
	if t.Op.Privileged() && !t.Actor.Admin {
		return Unit{}, HistoryEntry{}, transitionErr(t.Op, u.Key, u.Status, ErrForbidden)
	}

	next := u
	switch t.Op {
	case OpCheckout:
		if u.Status != StatusRegistered {
			return Unit{}, HistoryEntry{}, transitionErr(t.Op, u.Key, u.Status, ErrInvalidTransition)
		}
		place := strings.TrimSpace(t.Place)
		if place == "" {
			return Unit{}, HistoryEntry{}, transitionErr(t.Op, u.Key, u.Status, ErrPlaceRequired)
		}
		next.Status = StatusCheckedOut
		next.Place = place

	case OpSubmit:
		if u.Status != StatusCheckedOut {
			return Unit{}, HistoryEntry{}, transitionErr(t.Op, u.Key, u.Status, ErrInvalidTransition)
		}
		next.Status = StatusSubmitted

	case OpAdminEdit:
		if t.Edit.Empty() {
			return Unit{}, HistoryEntry{}, transitionErr(t.Op, u.Key, u.Status, ErrEmptyEdit)
		}
		if t.Edit.Status != nil {
			if !t.Edit.Status.Valid() {
				return Unit{}, HistoryEntry{}, transitionErr(t.Op, u.Key, u.Status, ErrInvalidStatus)
			}
			next.Status = *t.Edit.Status
		}
		if t.Edit.Place != nil {
			next.Place = strings.TrimSpace(*t.Edit.Place)
		}

	default:
		// intake and delete never transition an existing unit
		return Unit{}, HistoryEntry{}, transitionErr(t.Op, u.Key, u.Status, ErrInvalidTransition)
	}

	at := t.At.UTC()
	next.LastUpdated = at
	entry := HistoryEntry{
		ID:           t.EntryID,
		Operation:    t.Op,
		Actor:        t.Actor.Identity(),
		OccurredAt:   at,
		StatusBefore: string(u.Status),
		StatusAfter:  string(next.Status),
		PlaceBefore:  u.Place,
		PlaceAfter:   next.Place,
	}
	return next, entry, nil
}

// Authorize checks that actor may run op.
func Authorize(op Operation, key string, actor Actor) error {
	if op.Privileged() && !actor.Admin {
		return transitionErr(op, key, "", ErrForbidden)
	}
	return nil
}
