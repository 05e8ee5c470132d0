package domain

import (
	"strings"
	"time"
)

// AnonymousActor is recorded when the caller identity could not be resolved.
const AnonymousActor = "anonymous"

// Actor is the already-resolved identity performing an operation.
type Actor struct {
	// Name identifies the person or station; empty means anonymous.
	Name string
	// Admin grants the privileged operations (AdminEdit, Delete).
	Admin bool
}

// Identity returns the name recorded in the audit trail.
func (a Actor) Identity() string {
	if name := strings.TrimSpace(a.Name); name != "" {
		return name
	}
	return AnonymousActor
}

// Unit represents one physical reagent container tracked by its serial number.
type Unit struct {
	// Key is the decoded serial number. It is unique and never changes.
	Key string `json:"key"`
	// ProductCode is the raw 16-character product prefix of the scanned code.
	ProductCode string `json:"product_code"`
	// ProductSize is the container size derived from ProductCode.
	ProductSize ProductSize `json:"product_size"`
	// LotNumber is set at intake and never changes.
	LotNumber string `json:"lot_number"`
	// ExpirationDate is set at intake and never changes.
	ExpirationDate Date `json:"expiration_date"`
	// Status is the current lifecycle state.
	Status Status `json:"status"`
	// Place is the current location, empty until checkout.
	Place string `json:"place"`
	// LastUpdated is the instant of the most recent transition, in UTC.
	LastUpdated time.Time `json:"last_updated"`
	// Version is incremented by every successful write and guards conditional saves.
	Version int64 `json:"version"`
	// History is the audit trail, oldest first.
	History Ledger `json:"history,omitempty"`
}

// Clone returns a copy that shares no history backing array with u.
func (u Unit) Clone() Unit {
	u.History = u.History.clone()
	return u
}

// WithoutHistory returns a copy of u with the history omitted.
func (u Unit) WithoutHistory() Unit {
	u.History = nil
	return u
}

// HistoryEntry is one immutable record of a status or place change.
type HistoryEntry struct {
	ID           string    `json:"id"`
	Operation    Operation `json:"operation"`
	Actor        string    `json:"actor"`
	OccurredAt   time.Time `json:"occurred_at"`
	StatusBefore string    `json:"status_before"`
	StatusAfter  string    `json:"status_after"`
	PlaceBefore  string    `json:"place_before"`
	PlaceAfter   string    `json:"place_after"`
}
