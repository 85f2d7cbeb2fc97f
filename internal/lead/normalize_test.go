package lead

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_EmptyObjectIsSafe(t *testing.T) {
	l := Normalize(map[string]any{})

	assert.NotEmpty(t, l.ID, "id is generated when absent")
	assert.Equal(t, "", l.Name)
	assert.Equal(t, "", l.Company)
	assert.Equal(t, "", l.Phone)
	assert.Equal(t, "", l.Email)
	assert.Equal(t, "", l.Website)
	assert.Equal(t, "", l.BusinessType)
	assert.Equal(t, "", l.Address)
	assert.Equal(t, "", l.City)
	assert.Equal(t, "", l.Country)
	assert.Equal(t, "", l.Reviews)
	assert.Equal(t, 0.0, l.Rating)
	assert.Equal(t, "", l.Location())
}

func TestNormalize_RatingResolution(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		expected float64
	}{
		{"numeric rating", 4.5, 4.5},
		{"numeric string parsed", "3.8", 3.8},
		{"padded numeric string", " 4.0 ", 4.0},
		{"garbage string defaults to 0", "great", 0},
		{"absent defaults to 0", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := Normalize(map[string]any{"rating": tt.value})
			assert.Equal(t, tt.expected, l.Rating)
		})
	}
}

func TestNormalize_ReviewsAliasOrder(t *testing.T) {
	tests := []struct {
		name     string
		src      map[string]any
		expected string
	}{
		{"reviews wins", map[string]any{"reviews": 120.0, "user_ratings_total": 5.0, "views": 9.0}, "120"},
		{"user_ratings_total second", map[string]any{"user_ratings_total": 45.0, "views": 9.0}, "45"},
		{"views last", map[string]any{"views": 9.0}, "9"},
		{"string passes through", map[string]any{"reviews": "1.2k"}, "1.2k"},
		{"none absent", map[string]any{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := Normalize(tt.src)
			assert.Equal(t, tt.expected, l.Reviews)
		})
	}
}

func TestNormalize_BusinessTypeAliasOrder(t *testing.T) {
	tests := []struct {
		name     string
		src      map[string]any
		expected string
	}{
		{"type_business first", map[string]any{"type_business": "dental", "category": "health"}, "dental"},
		{"business_type second", map[string]any{"business_type": "cafe", "businessType": "bar"}, "cafe"},
		{"category third", map[string]any{"category": "retail", "businessType": "bar"}, "retail"},
		{"businessType last", map[string]any{"businessType": "bar"}, "bar"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.src).BusinessType)
		})
	}
}

func TestNormalize_NestedWebsite(t *testing.T) {
	l := Normalize(map[string]any{
		"links": map[string]any{"website": "https://nested.example"},
	})
	assert.Equal(t, "https://nested.example", l.Website)

	l = Normalize(map[string]any{
		"website": "https://flat.example",
		"links":   map[string]any{"website": "https://nested.example"},
	})
	assert.Equal(t, "https://flat.example", l.Website, "flat field wins")
}

func TestNormalize_RetainsRawAndIDs(t *testing.T) {
	src := map[string]any{
		"id":            42.0,
		"company":       "Acme",
		"secret_extras": "kept",
	}
	l := Normalize(src)

	assert.Equal(t, "42", l.ID)
	require.NotNil(t, l.Raw)
	assert.Equal(t, "kept", l.Raw["secret_extras"], "unrecognized fields survive under raw")
}

func TestNormalize_NameCompanyFallback(t *testing.T) {
	l := Normalize(map[string]any{"name": "Dr. Smith Dental"})
	assert.Equal(t, "Dr. Smith Dental", l.DisplayName())
	assert.Equal(t, "Dr. Smith Dental", l.Company, "company backfills from name")

	l = Normalize(map[string]any{"company": "Acme Co"})
	assert.Equal(t, "Acme Co", l.DisplayName(), "company is the fallback display name")
}

func TestLocation_Derivation(t *testing.T) {
	assert.Equal(t, "Paris, France", Normalize(map[string]any{"city": "Paris", "country": "France"}).Location())
	assert.Equal(t, "Paris", Normalize(map[string]any{"city": "Paris"}).Location())
	assert.Equal(t, "France", Normalize(map[string]any{"country": "France"}).Location())
}

func TestNormalizeAll_PreservesOrder(t *testing.T) {
	leads := NormalizeAll([]map[string]any{
		{"company": "A"},
		{"company": "B"},
		{"company": "C"},
	})
	require.Len(t, leads, 3)
	assert.Equal(t, "A", leads[0].Company)
	assert.Equal(t, "B", leads[1].Company)
	assert.Equal(t, "C", leads[2].Company)
}
