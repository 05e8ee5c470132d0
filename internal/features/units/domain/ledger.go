package domain

import (
	"iter"
	"slices"
)

// Ledger is the append-only audit trail of a single unit. Entries are stored in
// insertion order and are never updated or removed individually.
type Ledger []HistoryEntry

// Append returns a new ledger with e added at the end. The receiver is left untouched,
// so ledgers already handed to readers never change underneath them.
func (l Ledger) Append(e HistoryEntry) Ledger {
	out := make(Ledger, len(l), len(l)+1)
	copy(out, l)
	return append(out, e)
}

// Len returns the number of entries.
func (l Ledger) Len() int { return len(l) }

// Last returns the most recent entry by insertion order.
func (l Ledger) Last() (HistoryEntry, bool) {
	if len(l) == 0 {
		return HistoryEntry{}, false
	}
	return l[len(l)-1], true
}

// Entries yields the entries ordered by OccurredAt ascending, ties in insertion order.
// The sequence is finite and can be ranged over any number of times.
func (l Ledger) Entries() iter.Seq[HistoryEntry] {
	return func(yield func(HistoryEntry) bool) {
		for _, e := range l.ordered() {
			if !yield(e) {
				return
			}
		}
	}
}

// Reversed yields the entries most recent first, for presentation.
func (l Ledger) Reversed() iter.Seq[HistoryEntry] {
	return func(yield func(HistoryEntry) bool) {
		ordered := l.ordered()
		for i := len(ordered) - 1; i >= 0; i-- {
			if !yield(ordered[i]) {
				return
			}
		}
	}
}

func (l Ledger) ordered() []HistoryEntry {
	out := l.clone()
	slices.SortStableFunc(out, func(a, b HistoryEntry) int {
		return a.OccurredAt.Compare(b.OccurredAt)
	})
	return out
}

func (l Ledger) clone() Ledger {
	if l == nil {
		return nil
	}
	return slices.Clone(l)
}
