package lead

import "github.com/SSDIGITAL-DevTeam/leads-generator-end-user/internal/model"

// Placeholder is what the table surface shows for a missing value. The CSV
// surface uses empty string instead; the two conventions are deliberate.
const Placeholder = "-"

// TableColumns is the fixed rendering order of the result table.
var TableColumns = []string{
	"Company", "Phone", "Links", "Rating", "Reviews",
	"Type Bussiness", "Address", "Location", "Action",
}

// TableRow is one rendered line of the result table. Every cell is a defined
// string; rendering never fails on a missing field.
type TableRow struct {
	Company      string
	Phone        string
	Links        string
	Rating       string
	Reviews      string
	TypeBusiness string
	Address      string
	Location     string
	DetailID     string
}

// TableRows projects the current page into display rows, substituting the
// placeholder wherever a field is absent.
func TableRows(page []model.BusinessLead) []TableRow {
	rows := make([]TableRow, 0, len(page))
	for _, l := range page {
		rows = append(rows, TableRow{
			Company:      orPlaceholder(l.DisplayName()),
			Phone:        orPlaceholder(l.Phone),
			Links:        orPlaceholder(l.Link()),
			Rating:       formatRating(l.Rating),
			Reviews:      orPlaceholder(l.Reviews),
			TypeBusiness: orPlaceholder(l.BusinessType),
			Address:      orPlaceholder(fallback(l.Address, l.Company)),
			Location:     orPlaceholder(l.Location()),
			DetailID:     l.ID,
		})
	}
	return rows
}

func orPlaceholder(s string) string {
	if s == "" {
		return Placeholder
	}
	return s
}

func fallback(s, alt string) string {
	if s != "" {
		return s
	}
	return alt
}
