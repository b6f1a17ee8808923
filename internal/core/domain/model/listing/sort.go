package listing

import (
	"cmp"
	"regexp"
	"slices"
	"strings"
)

// SortDirection is the ordering of a single sort field.
type SortDirection int

const (
	Ascending SortDirection = iota
	Descending
)

// String returns "asc" or "desc".
func (d SortDirection) String() string {
	if d == Descending {
		return "desc"
	}
	return "asc"
}

// SortCriterion is one field of an ORDER BY.
type SortCriterion struct {
	Field     string
	Direction SortDirection
}

// SortCriteria is an ordered list of unique fields; earlier entries take
// precedence.
type SortCriteria []SortCriterion

// Direction returns the direction for field and whether the field is present.
func (c SortCriteria) Direction(field string) (SortDirection, bool) {
	for _, criterion := range c {
		if criterion.Field == field {
			return criterion.Direction, true
		}
	}
	return Ascending, false
}

// Fields returns the field names in precedence order.
func (c SortCriteria) Fields() []string {
	fields := make([]string, len(c))
	for i, criterion := range c {
		fields[i] = criterion.Field
	}
	return fields
}

// String renders the criteria back into the asc_field form, comma separated.
func (c SortCriteria) String() string {
	parts := make([]string, len(c))
	for i, criterion := range c {
		parts[i] = criterion.Direction.String() + "_" + criterion.Field
	}
	return strings.Join(parts, ",")
}

// SortSpecParser turns free-text sort specifications into SortCriteria for a
// fixed set of sortable fields.
//
// The grammar has two token forms, each with a case-insensitive prefix:
//
//	asc_price   desc_price
//	ASC(price)  desc(price)
//
// The field must be spelled exactly as in the sortable list and follow the
// prefix immediately. The text is scanned left to right for non-overlapping
// tokens, so separators are optional and anything between tokens is skipped:
// "asc_namedesc_priceASC(id)" yields three criteria. Misspelled names
// ("desc_prrrice") and doubled separators ("asc__created") never match.
// When a field appears more than once, its first occurrence wins.
// When one sortable name is a prefix of another, the alternation tries
// longer names first, so "asc_price_net" picks price_net over price
// regardless of the order the sortable list gives.
//
// A parser is immutable and safe for concurrent use.
type SortSpecParser struct {
	pattern *regexp.Regexp
}

// NewSortSpecParser compiles a parser for the given sortable fields. Empty
// names are ignored; with no fields every spec parses to the fallback.
func NewSortSpecParser(sortable []string) SortSpecParser {
	fields := make([]string, 0, len(sortable))
	for _, field := range sortable {
		if field != "" && !slices.Contains(fields, field) {
			fields = append(fields, field)
		}
	}
	if len(fields) == 0 {
		return SortSpecParser{}
	}

	// Longer names first so "asc_price_net" prefers price_net over price.
	slices.SortStableFunc(fields, func(a, b string) int {
		return cmp.Compare(len(b), len(a))
	})
	quoted := make([]string, len(fields))
	for i, field := range fields {
		quoted[i] = regexp.QuoteMeta(field)
	}
	names := strings.Join(quoted, "|")

	return SortSpecParser{
		pattern: regexp.MustCompile(`(?i:(asc|desc))(?:_(` + names + `)|\((` + names + `)\))`),
	}
}

// Parse returns the criteria found in spec, in the order they appear. When
// nothing matches it returns a copy of fallback.
func (p SortSpecParser) Parse(spec string, fallback SortCriteria) SortCriteria {
	if p.pattern == nil || spec == "" {
		return slices.Clone(fallback)
	}

	var criteria SortCriteria
	for _, match := range p.pattern.FindAllStringSubmatch(spec, -1) {
		field := match[2]
		if field == "" {
			field = match[3]
		}
		if _, seen := criteria.Direction(field); seen {
			continue
		}

		direction := Ascending
		if strings.EqualFold(match[1], "desc") {
			direction = Descending
		}
		criteria = append(criteria, SortCriterion{Field: field, Direction: direction})
	}

	if len(criteria) == 0 {
		return slices.Clone(fallback)
	}
	return criteria
}

// ParseSortSpec is a one-shot NewSortSpecParser(sortable).Parse(spec, fallback).
func ParseSortSpec(spec string, sortable []string, fallback SortCriteria) SortCriteria {
	return NewSortSpecParser(sortable).Parse(spec, fallback)
}
