package lead

import (
	"strconv"
	"strings"

	"github.com/SSDIGITAL-DevTeam/leads-generator-end-user/internal/model"
)

// Filter applies a conjunction of independent predicates and returns a new
// slice. Input is never mutated and the relative order of matching leads is
// preserved, so running the same filter twice yields identical output.
//
// Search is a case-insensitive substring match over the union of name,
// company, email, phone, website, business type, address, and the formatted
// location. The category dimensions (business type, city, country) are
// case-insensitive exact matches, not substring matches.
// Rating is a >= gate against the parsed minimum; an unparseable rating
// filter imposes no constraint.
func Filter(leads []model.BusinessLead, filters model.BusinessFilters) []model.BusinessLead {
	search := strings.ToLower(strings.TrimSpace(filters.Search))
	wantType := strings.ToLower(filters.BusinessType)
	wantCity := strings.ToLower(filters.City)
	wantCountry := strings.ToLower(filters.Country)

	minRating, hasRating := parseMinRating(filters.Rating)

	out := make([]model.BusinessLead, 0, len(leads))
	for _, l := range leads {
		if search != "" && !matchesSearch(l, search) {
			continue
		}
		if wantType != "" && strings.ToLower(l.BusinessType) != wantType {
			continue
		}
		if wantCity != "" && strings.ToLower(l.City) != wantCity {
			continue
		}
		if wantCountry != "" && strings.ToLower(l.Country) != wantCountry {
			continue
		}
		if hasRating && l.Rating < minRating {
			continue
		}
		out = append(out, l)
	}
	return out
}

func parseMinRating(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func matchesSearch(l model.BusinessLead, q string) bool {
	for _, field := range []string{
		l.Name,
		l.Company,
		l.Email,
		l.Phone,
		l.Website,
		l.BusinessType,
		l.Address,
		l.Location(),
	} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

// UniqueValues collects the distinct non-empty values produced by get, in
// first-seen order. Used to build the filter dropdown options.
func UniqueValues(leads []model.BusinessLead, get func(model.BusinessLead) string) []string {
	seen := make(map[string]struct{}, len(leads))
	var out []string
	for _, l := range leads {
		v := get(l)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
