// Package lead implements the result-set pipeline: normalize incoming
// payloads into canonical records, filter, paginate, and export them.
package lead

import (
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/SSDIGITAL-DevTeam/leads-generator-end-user/internal/model"
)

// Normalize maps an arbitrary source payload (backend JSON, fixture) into a
// canonical BusinessLead. The backend schema is not contractually stable, so
// resolution is deliberately permissive: missing fields degrade to empty
// string / zero and no error is ever returned. The untouched source payload
// is retained under Raw for export fallback and debugging.
func Normalize(src map[string]any) model.BusinessLead {
	l := model.BusinessLead{
		ID:           resolveID(src),
		Name:         str(src["name"]),
		Company:      firstString(src, "company", "business_name"),
		Phone:        str(src["phone"]),
		Email:        str(src["email"]),
		Website:      resolveWebsite(src),
		LinkedIn:     str(src["linkedin"]),
		Rating:       resolveRating(src["rating"]),
		Reviews:      resolveReviews(src),
		BusinessType: firstString(src, "type_business", "business_type", "category", "businessType"),
		Address:      str(src["address"]),
		City:         str(src["city"]),
		Country:      str(src["country"]),
		Raw:          src,
	}
	if l.Company == "" {
		l.Company = l.Name
	}
	return l
}

// NormalizeAll maps a list of payloads, preserving order.
func NormalizeAll(items []map[string]any) []model.BusinessLead {
	out := make([]model.BusinessLead, 0, len(items))
	for _, item := range items {
		out = append(out, Normalize(item))
	}
	return out
}

// resolveID uses the source id when present (numeric ids are formatted), and
// generates one otherwise so every lead is addressable.
func resolveID(src map[string]any) string {
	switch v := src["id"].(type) {
	case string:
		if v != "" {
			return v
		}
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	}
	return uuid.New().String()
}

// resolveWebsite checks the flat field first, then the nested links.website
// shape some backend versions emit.
func resolveWebsite(src map[string]any) string {
	if w := str(src["website"]); w != "" {
		return w
	}
	if links, ok := src["links"].(map[string]any); ok {
		return str(links["website"])
	}
	return ""
}

// resolveRating: numeric rating, then numeric string parsed, else 0.
func resolveRating(v any) float64 {
	switch r := v.(type) {
	case float64:
		return r
	case int:
		return float64(r)
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(r), 64); err == nil {
			return f
		}
	}
	return 0
}

// resolveReviews collapses the review-count aliases in fixed order:
// reviews, then user_ratings_total, then views. Numbers are formatted,
// non-empty strings pass through as-is, anything else is absent.
func resolveReviews(src map[string]any) string {
	for _, key := range []string{"reviews", "user_ratings_total", "views"} {
		switch v := src[key].(type) {
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		case int:
			return strconv.Itoa(v)
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		}
	}
	return ""
}

// firstString returns the first non-empty string among the given keys.
func firstString(src map[string]any, keys ...string) string {
	for _, key := range keys {
		if s := str(src[key]); s != "" {
			return s
		}
	}
	return ""
}

// str coerces a value to string, empty for anything that is not one.
func str(v any) string {
	s, _ := v.(string)
	return s
}
