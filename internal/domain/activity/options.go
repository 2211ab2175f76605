package activity

import "time"

// Filter provides filtering options for listing activities. Dimensions
// combine with AND semantics; an empty slice or nil pointer leaves that
// dimension unconstrained.
type Filter struct {
	From        *time.Time
	To          *time.Time
	CategoryIDs []string
	TagIDs      []string
	Apps        []string
	Text        string
	Idle        *bool
	Limit       int
	Offset      int
}

// DayFilter returns a filter covering the local calendar day containing t.
func DayFilter(t time.Time) Filter {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	end := start.AddDate(0, 0, 1)
	return Filter{From: &start, To: &end}
}
