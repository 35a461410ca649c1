package classify

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"incidash/internal/record"
)

// Status is the lifecycle bucket of an incident.
type Status string

const (
	Unknown  Status = "unknown"
	Pending  Status = "pending"
	Closed   Status = "closed"
	Rejected Status = "rejected"
)

// Statuses lists the buckets in dashboard display order.
var Statuses = []Status{Unknown, Pending, Closed, Rejected}

// Label returns the Persian display label of the bucket.
func (s Status) Label() string {
	switch s {
	case Pending:
		return "در حال بررسی"
	case Closed:
		return "حل شده"
	case Rejected:
		return "رد شده"
	default:
		return "نامشخص"
	}
}

// ParseStatus accepts a bucket name, including the catalogue labels "open" and
// "onhold", which fold into Pending.
func ParseStatus(s string) (Status, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "unknown":
		return Unknown, true
	case "pending", "open", "onhold", "on-hold", "on_hold":
		return Pending, true
	case "closed":
		return Closed, true
	case "rejected":
		return Rejected, true
	}
	return "", false
}

// StatusRules recognise status text in both scripts. Buckets are tried in the
// order unknown, pending, closed, rejected, so text naming several states
// ("closed, pending review") lands in the earlier one. Open and on-hold
// phrases land in Pending.
var StatusRules = RuleSet[Status]{
	{Unknown, []Matcher{
		Phrase("مشخص نشده"), Phrase("نامشخص"), Phrase("تعیین نشده"), Phrase("نامعلوم"),
		Phrase("unspecified"), Phrase("unknown"),
	}},
	{Pending, []Matcher{
		Phrase("در انتظار پاسخ"), Phrase("نیاز به اطلاعات"), Phrase("تعلیق"), Phrase("معلق"),
		Regexp(`on ?hold`),
		Phrase("در حال بررسی"), Phrase("بررسی"), Phrase("pending"), Phrase("انتظار"), Phrase("پیگیری"),
		Word("باز"), Word("open"), Phrase("ثبت اولیه"), Phrase("جدید"),
	}},
	{Closed, []Matcher{
		Phrase("حل شده"), Phrase("برطرف"), Phrase("مختومه"), Phrase("اتمام"),
		Phrase("closed"), Phrase("resolve"),
	}},
	{Rejected, []Matcher{
		Phrase("رد شده"), Phrase("عدم تایید"), Phrase("ابطال"), Phrase("لغو"),
		Phrase("reject"), Word("رد"),
	}},
}

// StatusDef is an entry of the admin-managed status catalogue. Bucket is
// optional; when empty the bucket is inferred from Name.
type StatusDef struct {
	ID     int    `json:"id" yaml:"id"`
	Name   string `json:"name" yaml:"name"`
	Bucket string `json:"bucket,omitempty" yaml:"bucket,omitempty"`
}

// StatusMap resolves numeric status ids to buckets.
type StatusMap map[int]Status

// DefaultStatusMap is the fixed id assignment used when no catalogue is configured.
func DefaultStatusMap() StatusMap {
	return StatusMap{1: Unknown, 2: Rejected, 3: Pending, 4: Closed}
}

// BuildStatusMap derives the id mapping from a status catalogue. Entries
// without an id, or whose bucket can be neither parsed nor inferred, are skipped.
func BuildStatusMap(defs []StatusDef) (StatusMap, error) {
	sm := make(StatusMap, len(defs))
	for _, d := range defs {
		if d.ID == 0 {
			continue
		}
		if d.Bucket != "" {
			b, ok := ParseStatus(d.Bucket)
			if !ok {
				return nil, fmt.Errorf("status %d: unknown bucket %q", d.ID, d.Bucket)
			}
			sm[d.ID] = b
			continue
		}
		b, ok := StatusRules.Classify(d.Name)
		if !ok {
			log.Debug().Int("id", d.ID).Str("name", d.Name).Msg("Status catalogue entry not recognised")
			continue
		}
		sm[d.ID] = b
	}
	return sm, nil
}

// ClassifyStatus buckets a record: the numeric status_id through sm first,
// then status_name/status text, then fallback.
func ClassifyStatus(r record.Record, sm StatusMap, fallback Status) Status {
	if id, ok := r.Int("status_id"); ok {
		if b, hit := sm[id]; hit {
			return b
		}
	}
	if b, ok := StatusRules.Classify(r.FirstString("status_name", "status")); ok {
		return b
	}
	return fallback
}

// DashboardStatus is the classification used by dashboard aggregates; records
// that match nothing count as Unknown.
func DashboardStatus(r record.Record, sm StatusMap) Status {
	return ClassifyStatus(r, sm, Unknown)
}

// ListStatus is the classification used for record listings; records that match
// nothing are shown as Pending.
func ListStatus(r record.Record, sm StatusMap) Status {
	return ClassifyStatus(r, sm, Pending)
}
