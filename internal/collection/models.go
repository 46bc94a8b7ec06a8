package collection

import (
	"strings"
	"time"

	"shelfscan/internal/movie"
)

// Condition describes the physical state of a disc.
type Condition string

const (
	ConditionNew        Condition = "New"
	ConditionLikeNew    Condition = "Like New"
	ConditionGood       Condition = "Good"
	ConditionAcceptable Condition = "Acceptable"
	ConditionPoor       Condition = "Poor"
)

// Conditions lists accepted conditions from best to worst.
var Conditions = []Condition{ConditionNew, ConditionLikeNew, ConditionGood, ConditionAcceptable, ConditionPoor}

// ParseCondition matches a label case-insensitively. Empty input is not a
// condition; callers substitute the configured default first.
func ParseCondition(value string) (Condition, bool) {
	trimmed := strings.TrimSpace(value)
	for _, condition := range Conditions {
		if strings.EqualFold(trimmed, string(condition)) {
			return condition, true
		}
	}
	return "", false
}

// NewItem is the input to Store.Add.
type NewItem struct {
	movie.Record
	Location  string `json:"location,omitempty"`
	Condition string `json:"condition,omitempty"`
}

// Item is a persisted collection entry.
type Item struct {
	movie.Record
	ID        int64
	AddedAt   time.Time
	Location  string
	Condition Condition
}

// Map renders the item with the API field names. Unknown optional fields are nil.
func (i Item) Map() map[string]any {
	var added any
	if !i.AddedAt.IsZero() {
		added = i.AddedAt.UTC().Format(time.RFC3339)
	}
	m := i.Record.Map()
	m["id"] = i.ID
	m["added_date"] = added
	m["location"] = movie.Optional(i.Location)
	m["condition"] = string(i.Condition)
	return m
}
