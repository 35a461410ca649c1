// Package jalali converts between the proleptic Gregorian calendar and the
// Solar Hijri (Jalali) calendar using the arithmetic 33-year intercalation cycle.
//
// Conversion goes through a shared day number, so ToJalali and ToGregorian are
// exact inverses for every valid Jalali date. No bounds checking is done: an
// out-of-range month or day simply rolls over arithmetically.
package jalali

import (
	"fmt"
	"time"
)

const (
	cycleYears = 33
	cycleDays  = 33*365 + 8

	// epochDay is the day number (days since 1970-01-01) of 1 Farvardin 1.
	// It is pinned so that 1 Farvardin 1403 falls on 2024-03-20.
	epochDay = -492268
)

// leapRemainders are the year positions (jy mod 33) that carry a 30-day Esfand.
var leapRemainders = [...]int{1, 5, 9, 13, 17, 22, 26, 30}

// Date is a Jalali calendar date.
type Date struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
}

// IsLeap reports whether jy has 366 days.
func IsLeap(jy int) bool {
	r := mod(jy, cycleYears)
	for _, l := range leapRemainders {
		if r == l {
			return true
		}
	}
	return false
}

// MonthLength returns the number of days in month jm of year jy, or 0 for an invalid month.
func MonthLength(jy, jm int) int {
	switch {
	case jm >= 1 && jm <= 6:
		return 31
	case jm >= 7 && jm <= 11:
		return 30
	case jm == 12:
		if IsLeap(jy) {
			return 30
		}
		return 29
	default:
		return 0
	}
}

// ToJalali converts a Gregorian date to its Jalali equivalent.
func ToJalali(gy, gm, gd int) (jy, jm, jd int) {
	days := daysFromCivil(gy, gm, gd) - epochDay

	cycles := floorDiv(days, cycleDays)
	rem := days - cycles*cycleDays
	jy = cycles*cycleYears + 1

	// At most 33 iterations: rem is always inside one cycle.
	for {
		n := 365
		if IsLeap(jy) {
			n = 366
		}
		if rem < n {
			break
		}
		rem -= n
		jy++
	}

	if rem < 186 {
		return jy, rem/31 + 1, rem%31 + 1
	}
	rem -= 186
	return jy, rem/30 + 7, rem%30 + 1
}

// ToGregorian converts a Jalali date to its Gregorian equivalent.
func ToGregorian(jy, jm, jd int) (gy, gm, gd int) {
	return civilFromDays(jalaliDayNumber(jy, jm, jd) + epochDay)
}

// FromTime returns the Jalali date of t in t's own location.
func FromTime(t time.Time) Date {
	jy, jm, jd := ToJalali(t.Year(), int(t.Month()), t.Day())
	return Date{Year: jy, Month: jm, Day: jd}
}

// Valid reports whether d names a real Jalali day.
func (d Date) Valid() bool {
	return d.Month >= 1 && d.Month <= 12 && d.Day >= 1 && d.Day <= MonthLength(d.Year, d.Month)
}

// Time returns local midnight of d in loc.
func (d Date) Time(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	gy, gm, gd := ToGregorian(d.Year, d.Month, d.Day)
	return time.Date(gy, time.Month(gm), gd, 0, 0, 0, 0, loc)
}

// Format renders d as YYYY/MM/DD, optionally in Persian digits.
func (d Date) Format(eastern bool) string {
	return Format(d.Year, d.Month, d.Day, eastern)
}

func (d Date) String() string {
	return d.Format(false)
}

// Format renders a Jalali date as YYYY/MM/DD with zero-padded month and day.
func Format(jy, jm, jd int, eastern bool) string {
	s := fmt.Sprintf("%d/%02d/%02d", jy, jm, jd)
	if eastern {
		return ToEasternDigits(s)
	}
	return s
}

// FormatTime renders the Jalali date of t.
func FormatTime(t time.Time, eastern bool) string {
	return FromTime(t).Format(eastern)
}

// jalaliDayNumber counts days from 1 Farvardin 1 to the given date.
func jalaliDayNumber(jy, jm, jd int) int {
	var doy int
	if jm <= 7 {
		doy = (jm - 1) * 31
	} else {
		doy = 186 + (jm-7)*30
	}
	return 365*(jy-1) + leapsBefore(jy) + doy + jd - 1
}

// leapsBefore counts leap years in [1, jy).
func leapsBefore(jy int) int {
	n := jy - 1
	q := floorDiv(n, cycleYears)
	r := n - q*cycleYears
	count := 8 * q
	for _, l := range leapRemainders {
		if l <= r {
			count++
		}
	}
	return count
}

// daysFromCivil returns days since 1970-01-01 for a proleptic Gregorian date.
func daysFromCivil(y, m, d int) int {
	if m <= 2 {
		y--
	}
	era := floorDiv(y, 400)
	yoe := y - era*400
	mp := mod(m+9, 12)
	doy := (153*mp+2)/5 + d - 1
	doe := yoe*365 + yoe/4 - yoe/100 + doy
	return era*146097 + doe - 719468
}

// civilFromDays is the inverse of daysFromCivil.
func civilFromDays(z int) (y, m, d int) {
	z += 719468
	era := floorDiv(z, 146097)
	doe := z - era*146097
	yoe := (doe - doe/1460 + doe/36524 - doe/146096) / 365
	y = yoe + era*400
	doy := doe - (365*yoe + yoe/4 - yoe/100)
	mp := (5*doy + 2) / 153
	d = doy - (153*mp+2)/5 + 1
	if mp < 10 {
		m = mp + 3
	} else {
		m = mp - 9
	}
	if m <= 2 {
		y++
	}
	return y, m, d
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func mod(a, b int) int {
	return a - floorDiv(a, b)*b
}
