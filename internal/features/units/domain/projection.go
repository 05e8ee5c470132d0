package domain

import (
	"slices"
	"strings"
	"time"
)

// Field is an attribute of Unit that can be filtered or sorted on.
type Field string

const (
	FieldKey            Field = "key"
	FieldProductSize    Field = "productSize"
	FieldLotNumber      Field = "lotNumber"
	FieldStatus         Field = "status"
	FieldPlace          Field = "place"
	FieldExpirationDate Field = "expirationDate"
	FieldLastUpdated    Field = "lastUpdated"
)

// Fields lists every filterable and sortable field.
var Fields = []Field{
	FieldKey, FieldProductSize, FieldLotNumber, FieldStatus,
	FieldPlace, FieldExpirationDate, FieldLastUpdated,
}

// ParseField converts a query parameter name into a Field.
func ParseField(s string) (Field, error) {
	for _, f := range Fields {
		if string(f) == s {
			return f, nil
		}
	}
	return "", ErrInvalidQuery
}

// Direction is a sort direction.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// ParseDirection accepts "asc", "desc" or empty (asc).
func ParseDirection(s string) (Direction, error) {
	switch Direction(strings.ToLower(s)) {
	case "", Asc:
		return Asc, nil
	case Desc:
		return Desc, nil
	}
	return "", ErrInvalidQuery
}

// Sort is a single sort key and direction. The zero value keeps the input order.
type Sort struct {
	Field     Field
	Direction Direction
}

// Query is a projection request. Filters compose with AND; empty values match all.
type Query struct {
	View    View
	Filters map[Field]string
	Sort    Sort
}

// Project filters and sorts units. The input slice is not modified and the sort is stable.
func Project(units []Unit, q Query) []Unit {
	out := make([]Unit, 0, len(units))
	for _, u := range units {
		if q.View != "" && !q.View.Includes(u.Status) {
			continue
		}
		if !matches(u, q.Filters) {
			continue
		}
		out = append(out, u)
	}

	if q.Sort.Field == "" {
		return out
	}
	cmp := comparator(q.Sort.Field)
	slices.SortStableFunc(out, func(a, b Unit) int {
		if q.Sort.Direction == Desc {
			return cmp(b, a)
		}
		return cmp(a, b)
	})
	return out
}

func matches(u Unit, filters map[Field]string) bool {
	for f, want := range filters {
		if want == "" {
			continue
		}
		if value(u, f) != want {
			return false
		}
	}
	return true
}

// value renders the field as the string used for exact-match filtering.
func value(u Unit, f Field) string {
	switch f {
	case FieldKey:
		return u.Key
	case FieldProductSize:
		return string(u.ProductSize)
	case FieldLotNumber:
		return u.LotNumber
	case FieldStatus:
		return string(u.Status)
	case FieldPlace:
		return u.Place
	case FieldExpirationDate:
		return u.ExpirationDate.String()
	case FieldLastUpdated:
		return u.LastUpdated.UTC().Format(time.RFC3339)
	}
	return ""
}

func comparator(f Field) func(a, b Unit) int {
	switch f {
	case FieldExpirationDate:
		return func(a, b Unit) int { return a.ExpirationDate.Compare(b.ExpirationDate) }
	case FieldLastUpdated:
		return func(a, b Unit) int { return a.LastUpdated.Compare(b.LastUpdated) }
	default:
		return func(a, b Unit) int {
			return strings.Compare(strings.ToLower(value(a, f)), strings.ToLower(value(b, f)))
		}
	}
}
