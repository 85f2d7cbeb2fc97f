package lead

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"

	"github.com/SSDIGITAL-DevTeam/leads-generator-end-user/internal/model"
)

// csvRow is the export column contract. The header spelling ("Type
// Bussiness") matches the UI label verbatim and downstream consumers depend
// on it.
type csvRow struct {
	Company      string `csv:"Company"`
	Phone        string `csv:"Phone"`
	Links        string `csv:"Links"`
	Rating       string `csv:"Rating"`
	Reviews      string `csv:"Reviews"`
	TypeBusiness string `csv:"Type Bussiness"`
	Address      string `csv:"Address"`
	Location     string `csv:"Location"`
}

// ExportCSV serializes leads to w with RFC-4180 quoting. Export operates on
// whatever set the caller supplies, by convention the full filtered set and
// not the rendered page. Missing values become empty CSV fields, unlike the
// "-" placeholder used by the table surface.
func ExportCSV(w io.Writer, leads []model.BusinessLead) error {
	cw := csv.NewWriter(w)
	enc := csvutil.NewEncoder(cw)

	for _, l := range leads {
		if err := enc.Encode(exportRow(l)); err != nil {
			return eris.Wrap(err, "export: encode row")
		}
	}
	// An empty set still gets the header row.
	if len(leads) == 0 {
		if err := enc.EncodeHeader(csvRow{}); err != nil {
			return eris.Wrap(err, "export: encode header")
		}
	}

	cw.Flush()
	return eris.Wrap(cw.Error(), "export: flush")
}

func exportRow(l model.BusinessLead) csvRow {
	address := l.Address
	if address == "" {
		address = l.Company
	}
	return csvRow{
		Company:      l.DisplayName(),
		Phone:        l.Phone,
		Links:        l.Link(),
		Rating:       formatRating(l.Rating),
		Reviews:      l.Reviews,
		TypeBusiness: l.BusinessType,
		Address:      address,
		Location:     l.Location(),
	}
}

// formatRating renders the rating with one decimal, matching the table.
func formatRating(r float64) string {
	return strconv.FormatFloat(r, 'f', 1, 64)
}
