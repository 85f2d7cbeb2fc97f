package lead

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SSDIGITAL-DevTeam/leads-generator-end-user/internal/model"
)

func sampleLeads() []model.BusinessLead {
	return []model.BusinessLead{
		{ID: "1", Company: "A", City: "Paris", Country: "France", Rating: 4, BusinessType: "Cafe"},
		{ID: "2", Company: "B", City: "Paris", Country: "France", Rating: 3, BusinessType: "Cafe"},
		{ID: "3", Company: "Berlin Bakery", City: "Berlin", Country: "Germany", Rating: 4.7, BusinessType: "Bakery"},
	}
}

func TestFilter_EmptyFiltersMatchEverything(t *testing.T) {
	leads := sampleLeads()
	out := Filter(leads, model.BusinessFilters{})
	assert.Equal(t, leads, out)
}

func TestFilter_Idempotent(t *testing.T) {
	filters := model.BusinessFilters{City: "Paris", Rating: "3.5"}
	once := Filter(sampleLeads(), filters)
	twice := Filter(once, filters)
	assert.Equal(t, once, twice)
}

func TestFilter_PreservesOrderAndInput(t *testing.T) {
	leads := sampleLeads()
	out := Filter(leads, model.BusinessFilters{Country: "France"})

	require.Len(t, out, 2)
	assert.Equal(t, "1", out[0].ID)
	assert.Equal(t, "2", out[1].ID)
	assert.Len(t, leads, 3, "input untouched")
}

func TestFilter_SearchIsSubstring_CategoryIsExact(t *testing.T) {
	leads := sampleLeads()

	// Exact category match: a prefix does not match.
	assert.Empty(t, Filter(leads, model.BusinessFilters{City: "berl"}))
	assert.Len(t, Filter(leads, model.BusinessFilters{City: "berlin"}), 1, "case-insensitive exact match")

	// Substring search does match the same prefix.
	found := Filter(leads, model.BusinessFilters{Search: "berl"})
	require.Len(t, found, 1)
	assert.Equal(t, "3", found[0].ID)
}

func TestFilter_SearchUnion(t *testing.T) {
	leads := []model.BusinessLead{
		{ID: "email", Email: "hello@acme.test"},
		{ID: "phone", Phone: "+49 30 1234"},
		{ID: "website", Website: "https://widgets.example"},
		{ID: "address", Address: "12 Rue de Lyon"},
		{ID: "location", City: "Lyon", Country: "France"},
	}

	tests := []struct {
		query string
		want  []string
	}{
		{"acme", []string{"email"}},
		{"30 12", []string{"phone"}},
		{"widgets", []string{"website"}},
		{"lyon", []string{"address", "location"}},
		{"lyon, france", []string{"location"}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			out := Filter(leads, model.BusinessFilters{Search: tt.query})
			var ids []string
			for _, l := range out {
				ids = append(ids, l.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestFilter_RatingBoundary(t *testing.T) {
	leads := []model.BusinessLead{{ID: "x", Rating: 4.0}}

	assert.Len(t, Filter(leads, model.BusinessFilters{Rating: "4.0"}), 1, "4.0 >= 4.0 included")
	assert.Empty(t, Filter(leads, model.BusinessFilters{Rating: "4.1"}), "4.0 < 4.1 excluded")
	assert.Len(t, Filter(leads, model.BusinessFilters{Rating: "not-a-number"}), 1, "invalid rating imposes no constraint")
}

func TestFilter_EndToEndScenario(t *testing.T) {
	leads := []model.BusinessLead{
		{Company: "A", City: "Paris", Country: "France", Rating: 4},
		{Company: "B", City: "Paris", Country: "France", Rating: 3},
	}

	filtered := Filter(leads, model.BusinessFilters{City: "Paris", Rating: "3.5"})
	require.Len(t, filtered, 1)
	assert.Equal(t, "A", filtered[0].Company)

	page1 := Paginate(filtered, 1, 1)
	require.Len(t, page1, 1)
	assert.Equal(t, "A", page1[0].Company)

	assert.Empty(t, Paginate(filtered, 2, 1))
}

func TestUniqueValues(t *testing.T) {
	leads := sampleLeads()
	cities := UniqueValues(leads, func(l model.BusinessLead) string { return l.City })
	assert.Equal(t, []string{"Paris", "Berlin"}, cities, "first-seen order, no duplicates")

	empty := UniqueValues(leads, func(l model.BusinessLead) string { return l.Email })
	assert.Empty(t, empty, "empty values are skipped")
}
