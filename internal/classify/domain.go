package classify

import "incidash/internal/record"

// Domain separates cyber incidents from physical-security (passive defence) ones.
type Domain string

const (
	Cyber    Domain = "cyber"
	Physical Domain = "physical"
)

// Domains lists the domains in display order.
var Domains = []Domain{Cyber, Physical}

// Label returns the Persian display label of the domain.
func (d Domain) Label() string {
	if d == Physical {
		return "پدافند غیر عامل"
	}
	return "امنیت سایبری"
}

// DomainRules recognise category text.
var DomainRules = RuleSet[Domain]{
	{Physical, []Matcher{Phrase("physical"), Phrase("پدافند"), Phrase("فیزیکی")}},
	{Cyber, []Matcher{Phrase("cyber"), Phrase("سایبر")}},
}

// ClassifyDomain buckets a record by category_id (1 cyber, 2 physical), then by
// category text. Anything ambiguous is Cyber.
func ClassifyDomain(r record.Record) Domain {
	if id, ok := r.Int("category_id"); ok {
		switch id {
		case 1:
			return Cyber
		case 2:
			return Physical
		}
	}
	for _, field := range []string{"category_label", "category", "category_type"} {
		if d, ok := DomainRules.Classify(r.String(field)); ok {
			return d
		}
	}
	return Cyber
}
