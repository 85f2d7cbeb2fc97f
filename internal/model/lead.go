// Package model defines the value types shared across the lead pipeline.
package model

// BusinessLead is the canonical lead record every source payload is mapped
// into. All string fields are defined (empty when absent) so that display and
// export code never has to nil-check.
type BusinessLead struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Company      string         `json:"company"`
	Phone        string         `json:"phone"`
	Email        string         `json:"email"`
	Website      string         `json:"website,omitempty"`
	LinkedIn     string         `json:"linkedin,omitempty"`
	Rating       float64        `json:"rating"`
	Reviews      string         `json:"reviews,omitempty"`
	BusinessType string         `json:"type_business"`
	Address      string         `json:"address"`
	City         string         `json:"city"`
	Country      string         `json:"country"`
	Raw          map[string]any `json:"raw,omitempty"`
}

// Location derives the display location. Computed, never sourced directly.
func (l BusinessLead) Location() string {
	switch {
	case l.City != "" && l.Country != "":
		return l.City + ", " + l.Country
	case l.City != "":
		return l.City
	default:
		return l.Country
	}
}

// DisplayName returns the "Company" column value: name preferred, company as
// fallback.
func (l BusinessLead) DisplayName() string {
	if l.Name != "" {
		return l.Name
	}
	return l.Company
}

// Link returns the preferred outbound link: website first, LinkedIn as
// fallback.
func (l BusinessLead) Link() string {
	if l.Website != "" {
		return l.Website
	}
	return l.LinkedIn
}

// BusinessFilters holds the user-configured filter dimensions. Empty string
// means "no constraint" for that dimension.
type BusinessFilters struct {
	Search       string `json:"search"`
	BusinessType string `json:"businessType"`
	Rating       string `json:"rating"`
	City         string `json:"city"`
	Country      string `json:"country"`
}

// IsZero reports whether no dimension is constrained.
func (f BusinessFilters) IsZero() bool {
	return f == BusinessFilters{}
}

// ScrapeRequest is the payload sent to the backend scrape trigger.
type ScrapeRequest struct {
	TypeBusiness string  `json:"type_business"`
	City         string  `json:"city"`
	Country      string  `json:"country"`
	MinRating    float64 `json:"min_rating"`
}
