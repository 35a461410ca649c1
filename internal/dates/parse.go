// Package dates turns heterogeneous raw date values into canonical Gregorian times.
//
// Raw values are first classified into a tagged variant (Parsed) and then
// normalized to a time.Time in the parser's location. Nothing downstream of
// this package ever sees a Jalali date or an epoch number.
package dates

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"incidash/internal/jalali"
	"incidash/internal/record"
)

// Kind tags what a raw value turned out to be.
type Kind int

const (
	None Kind = iota
	Gregorian
	Jalali
	Instant
)

func (k Kind) String() string {
	switch k {
	case Gregorian:
		return "gregorian"
	case Jalali:
		return "jalali"
	case Instant:
		return "instant"
	default:
		return "none"
	}
}

// Parsed is the result of classifying a raw value. Calendar kinds carry wall-clock
// fields in their own calendar; Instant carries an absolute time.
type Parsed struct {
	Kind    Kind
	Year    int
	Month   int
	Day     int
	Hour    int
	Minute  int
	Second  int
	HasTime bool
	At      time.Time
}

// epochMillisThreshold separates epoch seconds from epoch milliseconds.
const epochMillisThreshold = 1e12

var (
	datePrefixRe = regexp.MustCompile(`^(\d{4})[-/.](\d{1,2})[-/.](\d{1,2})`)
	dateTimeRe   = regexp.MustCompile(`^(\d{4})[-/.](\d{1,2})[-/.](\d{1,2})(?:[ T](\d{1,2}):(\d{2})(?::(\d{2}))?)?$`)
	epochRe      = regexp.MustCompile(`^\d{10,13}$`)
)

// genericLayouts are tried in order for anything that is neither a delimited
// triple nor an epoch number.
var genericLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02T15:04:05Z0700",
	time.RFC1123Z,
	time.RFC1123,
	time.RFC850,
	time.ANSIC,
	time.UnixDate,
	"Mon Jan 2 2006 15:04:05 GMT-0700",
	"Jan 2, 2006 15:04:05",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"02 Jan 2006 15:04",
}

// Parser normalizes raw values into times in a fixed location.
type Parser struct {
	loc *time.Location
}

// NewParser creates a parser that produces times in loc (time.Local when nil).
func NewParser(loc *time.Location) *Parser {
	if loc == nil {
		loc = time.Local
	}
	return &Parser{loc: loc}
}

// Location returns the parser's location.
func (p *Parser) Location() *time.Location {
	return p.loc
}

// Classify inspects a raw value. With withTime set, a delimited triple may carry an
// HH:MM[:SS] suffix and must otherwise end the string; without it only the leading
// triple is read.
func (p *Parser) Classify(raw any, jalaliHint, withTime bool) Parsed {
	switch v := raw.(type) {
	case nil:
		return Parsed{}
	case time.Time:
		if v.IsZero() {
			return Parsed{}
		}
		return Parsed{Kind: Instant, At: v, HasTime: true}
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) || v == 0 {
			return Parsed{}
		}
	case bool:
		return Parsed{}
	}

	s := strings.TrimSpace(jalali.NormalizeDigits(record.AsString(raw)))
	if s == "" {
		return Parsed{}
	}

	if parsed, ok := classifyTriple(s, jalaliHint, withTime); ok {
		return parsed
	}

	if epochRe.MatchString(s) {
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			if n < epochMillisThreshold {
				return Parsed{Kind: Instant, At: time.Unix(n, 0), HasTime: true}
			}
			return Parsed{Kind: Instant, At: time.UnixMilli(n), HasTime: true}
		}
	}

	if t, ok := p.parseGeneric(s); ok {
		return Parsed{Kind: Instant, At: t, HasTime: true}
	}
	return Parsed{}
}

func classifyTriple(s string, jalaliHint, withTime bool) (Parsed, bool) {
	var m []string
	if withTime {
		m = dateTimeRe.FindStringSubmatch(s)
	} else {
		m = datePrefixRe.FindStringSubmatch(s)
	}
	if m == nil {
		return Parsed{}, false
	}

	parsed := Parsed{Kind: Gregorian}
	if jalaliHint {
		parsed.Kind = Jalali
	}
	parsed.Year, _ = strconv.Atoi(m[1])
	parsed.Month, _ = strconv.Atoi(m[2])
	parsed.Day, _ = strconv.Atoi(m[3])
	if parsed.Month < 1 || parsed.Month > 12 || parsed.Day < 1 || parsed.Day > 31 {
		return Parsed{}, false
	}

	if withTime && len(m) > 4 && m[4] != "" {
		parsed.HasTime = true
		parsed.Hour, _ = strconv.Atoi(m[4])
		parsed.Minute, _ = strconv.Atoi(m[5])
		if m[6] != "" {
			parsed.Second, _ = strconv.Atoi(m[6])
		}
		if parsed.Hour > 23 || parsed.Minute > 59 || parsed.Second > 59 {
			return Parsed{}, false
		}
	}
	return parsed, true
}

func (p *Parser) parseGeneric(s string) (time.Time, bool) {
	candidates := []string{s}
	if strings.Contains(s, " ") {
		candidates = append(candidates, strings.Replace(s, " ", "T", 1))
	}
	for _, c := range candidates {
		for _, layout := range genericLayouts {
			if t, err := time.ParseInLocation(layout, c, p.loc); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

// Time normalizes a parsed value to a canonical Gregorian time in loc.
func (v Parsed) Time(loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.Local
	}
	switch v.Kind {
	case Gregorian:
		return time.Date(v.Year, time.Month(v.Month), v.Day, v.Hour, v.Minute, v.Second, 0, loc), true
	case Jalali:
		gy, gm, gd := jalali.ToGregorian(v.Year, v.Month, v.Day)
		return time.Date(gy, time.Month(gm), gd, v.Hour, v.Minute, v.Second, 0, loc), true
	case Instant:
		return v.At.In(loc), true
	default:
		return time.Time{}, false
	}
}

// ParseDateOnly parses raw into local midnight of the date it names.
func (p *Parser) ParseDateOnly(raw any, jalaliHint bool) (time.Time, bool) {
	t, ok := p.Classify(raw, jalaliHint, false).Time(p.loc)
	if !ok {
		return time.Time{}, false
	}
	return StartOfDay(t), true
}

// ParseDateTime parses raw into a date-time; a missing time of day means midnight.
func (p *Parser) ParseDateTime(raw any, jalaliHint bool) (time.Time, bool) {
	return p.Classify(raw, jalaliHint, true).Time(p.loc)
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// looksLikeDate reports whether a raw value has the delimited YYYY-M-D shape.
func looksLikeDate(raw any) (string, bool) {
	switch raw.(type) {
	case nil, bool, float64, int, int64, json.Number:
		return "", false
	}
	s := strings.TrimSpace(jalali.NormalizeDigits(record.AsString(raw)))
	return s, datePrefixRe.MatchString(s)
}
