package dates

import (
	"slices"
	"strings"
	"time"

	"incidash/internal/record"
)

// PrimaryDateField is the field read first when dating a record.
const PrimaryDateField = "submission_date"

// jalaliMarker in a field name marks its value as a Jalali date.
const jalaliMarker = "jalali"

var (
	incidentDateFields = []string{
		PrimaryDateField,
		"incident_date", "created_at", "createdAt", "createDate",
		"date", "event_date", "occurred_at",
	}
	submittedFields   = []string{PrimaryDateField, "created_at", "createdAt", "createDate"}
	firstActionFields = []string{
		"first_action_at", "first_action_datetime", "first_action_date",
		"first_action_jalali", "first_action_date_jalali",
	}
	resolvedFields = []string{"resolved_at", "resolved_date", "closed_at", "closed_date"}
)

const (
	lastActionField = "last_action_at"
	createdAtField  = "created_at"
)

// lifecycleFields never count as evidence of when a record was submitted.
var lifecycleFields = slices.Concat(firstActionFields, resolvedFields, []string{lastActionField})

// IsJalaliField reports whether a field name carries the Jalali marker.
func IsJalaliField(name string) bool {
	return strings.Contains(strings.ToLower(name), jalaliMarker)
}

// ExtractPrimaryDate returns the calendar date an incident is filed under.
// Named fields are tried in order; when none parses, the remaining fields are
// scanned (by name) for a value shaped like a delimited date.
func (p *Parser) ExtractPrimaryDate(r record.Record) (time.Time, bool) {
	if t, ok := p.firstParsed(r, incidentDateFields, p.ParseDateOnly); ok {
		return t, true
	}
	return p.scanFields(r, incidentDateFields, p.ParseDateOnly)
}

// ExtractSubmittedDateTime returns when the incident was submitted, with time of day.
func (p *Parser) ExtractSubmittedDateTime(r record.Record) (time.Time, bool) {
	if t, ok := p.firstParsed(r, submittedFields, p.ParseDateTime); ok {
		return t, true
	}
	return p.scanFields(r, lifecycleFields, p.ParseDateTime)
}

// ExtractFirstActionDateTime returns when the first action was taken on the incident.
// The last action time stands in when no first-action field is present.
func (p *Parser) ExtractFirstActionDateTime(r record.Record) (time.Time, bool) {
	if t, ok := p.firstParsed(r, firstActionFields, p.ParseDateTime); ok {
		return t, true
	}
	if v, ok := r.Value(lastActionField); ok {
		return p.ParseDateTime(v, false)
	}
	return time.Time{}, false
}

// ExtractResolvedDateTime returns when the incident was resolved. For records the
// caller classified as closed, the last action time stands in for a missing resolution.
func (p *Parser) ExtractResolvedDateTime(r record.Record, closed bool) (time.Time, bool) {
	if t, ok := p.firstParsed(r, resolvedFields, p.ParseDateTime); ok {
		return t, true
	}
	if closed {
		if v, ok := r.Value(lastActionField); ok {
			return p.ParseDateTime(v, false)
		}
	}
	return time.Time{}, false
}

// ExtractBaselineStart returns the earliest evidence of the record's existence:
// the earlier of its submission and creation times.
func (p *Parser) ExtractBaselineStart(r record.Record) (time.Time, bool) {
	sub, subOK := p.ExtractSubmittedDateTime(r)

	var created time.Time
	createdOK := false
	if v, ok := r.Value(createdAtField); ok {
		created, createdOK = p.ParseDateTime(v, false)
	}

	switch {
	case subOK && createdOK:
		if created.Before(sub) {
			return created, true
		}
		return sub, true
	case subOK:
		return sub, true
	case createdOK:
		return created, true
	default:
		return time.Time{}, false
	}
}

type parseFunc func(raw any, jalaliHint bool) (time.Time, bool)

func (p *Parser) firstParsed(r record.Record, fields []string, parse parseFunc) (time.Time, bool) {
	for _, f := range fields {
		v, ok := r.Value(f)
		if !ok {
			continue
		}
		if t, ok := parse(v, IsJalaliField(f)); ok {
			return t, true
		}
	}
	return time.Time{}, false
}

func (p *Parser) scanFields(r record.Record, skip []string, parse parseFunc) (time.Time, bool) {
	keys := make([]string, 0, len(r))
	for k := range r {
		if !slices.Contains(skip, k) {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)

	for _, k := range keys {
		s, ok := looksLikeDate(r[k])
		if !ok {
			continue
		}
		if t, ok := parse(s, IsJalaliField(k)); ok {
			return t, true
		}
	}
	return time.Time{}, false
}
