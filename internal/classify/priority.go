package classify

import "incidash/internal/record"

// Priority is the urgency bucket of an incident.
type Priority string

const (
	Low    Priority = "low"
	Medium Priority = "medium"
	High   Priority = "high"
)

// Priorities lists the buckets in ascending order.
var Priorities = []Priority{Low, Medium, High}

// Label returns the Persian display label of the priority.
func (p Priority) Label() string {
	switch p {
	case Low:
		return "کم"
	case High:
		return "زیاد"
	default:
		return "متوسط"
	}
}

// PriorityRules recognise priority text.
var PriorityRules = RuleSet[Priority]{
	{Low, []Matcher{Word("low"), Word("کم")}},
	{High, []Matcher{Word("high"), Phrase("زیاد"), Word("بالا")}},
	{Medium, []Matcher{Phrase("medium"), Phrase("متوسط")}},
}

// ClassifyPriority buckets a record by priority_id (1 low, 2 medium, 3 high),
// then by priority_name/priority text. Anything else is Medium.
func ClassifyPriority(r record.Record) Priority {
	if id, ok := r.Int("priority_id"); ok {
		switch id {
		case 1:
			return Low
		case 2:
			return Medium
		case 3:
			return High
		}
	}
	if p, ok := PriorityRules.Classify(r.FirstString("priority_name", "priority")); ok {
		return p
	}
	return Medium
}
