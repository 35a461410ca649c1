package classify

import (
	"regexp"
	"strings"
)

// Matcher is a single predicate over normalized text.
type Matcher interface {
	Match(normalized string) bool
}

// Phrase matches when the text contains the phrase anywhere.
type Phrase string

func (p Phrase) Match(s string) bool {
	return strings.Contains(s, Normalize(string(p)))
}

// Word matches when the text contains the word delimited by spaces or the
// string boundaries.
type Word string

func (w Word) Match(s string) bool {
	return strings.Contains(" "+s+" ", " "+Normalize(string(w))+" ")
}

// Pattern matches a compiled regular expression.
type Pattern struct {
	re *regexp.Regexp
}

// Regexp compiles expr into a Pattern. It panics on an invalid expression and
// is meant for package-level rule tables.
func Regexp(expr string) Pattern {
	return Pattern{re: regexp.MustCompile(expr)}
}

func (p Pattern) Match(s string) bool {
	return p.re.MatchString(s)
}

// Rule assigns Bucket to text matched by any of its matchers.
type Rule[B comparable] struct {
	Bucket   B
	Matchers []Matcher
}

// RuleSet is an ordered list of rules. The first rule with a matching
// predicate wins.
type RuleSet[B comparable] []Rule[B]

// Match evaluates already-normalized text against the rules in order.
func (rs RuleSet[B]) Match(normalized string) (B, bool) {
	var zero B
	if normalized == "" {
		return zero, false
	}
	for _, rule := range rs {
		for _, m := range rule.Matchers {
			if m.Match(normalized) {
				return rule.Bucket, true
			}
		}
	}
	return zero, false
}

// Classify normalizes raw text and matches it.
func (rs RuleSet[B]) Classify(raw string) (B, bool) {
	return rs.Match(Normalize(raw))
}
