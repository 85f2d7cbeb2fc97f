package score

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_TotalEqualsSum(t *testing.T) {
	tests := []struct {
		name string
		b    Breakdown
		want float64
	}{
		{"zero", Breakdown{}, 0},
		{"partial", Breakdown{BusinessProfile: 18, SocialPresence: 12}, 30},
		{"full marks", Breakdown{20, 30, 20, 30}, 100},
		{"mixed", Breakdown{BusinessProfile: 16, ContactCompleteness: 27, SocialPresence: 19, WebsiteQuality: 29}, 91},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(tt.b)
			assert.Equal(t, tt.want, s.Total)
			sum := s.Breakdown.BusinessProfile + s.Breakdown.ContactCompleteness +
				s.Breakdown.SocialPresence + s.Breakdown.WebsiteQuality
			assert.Equal(t, s.Total, sum)
		})
	}
}

func TestNew_ClampsToCategoryMaximums(t *testing.T) {
	s := New(Breakdown{
		BusinessProfile:     99,
		ContactCompleteness: -5,
		SocialPresence:      20.5,
		WebsiteQuality:      30,
	})

	assert.Equal(t, float64(MaxBusinessProfile), s.Breakdown.BusinessProfile)
	assert.Equal(t, 0.0, s.Breakdown.ContactCompleteness)
	assert.Equal(t, float64(MaxSocialPresence), s.Breakdown.SocialPresence)
	assert.Equal(t, float64(MaxWebsiteQuality), s.Breakdown.WebsiteQuality)
	assert.Equal(t, 70.0, s.Total)
}

func TestCategories_SumTo100(t *testing.T) {
	var total float64
	for _, c := range Categories {
		total += c.Maximum
	}
	assert.Equal(t, 100.0, total)
}

func TestDecode_ShapesAndAliases(t *testing.T) {
	tests := []struct {
		name    string
		payload map[string]any
		want    Breakdown
	}{
		{
			"canonical spelling at top level",
			map[string]any{
				"Total": 999.0, // ignored: total is always recomputed
				"Breakdown": map[string]any{
					"bussiness_profile":    18.0,
					"contact_completeness": 22.0,
					"social_precense":      15.0,
					"website_quality":      25.0,
				},
			},
			Breakdown{18, 22, 15, 25},
		},
		{
			"snake aliases under data.score",
			map[string]any{
				"data": map[string]any{
					"score": map[string]any{
						"breakdown": map[string]any{
							"business_profile": 10.0,
							"social_presence":  11.0,
						},
					},
				},
			},
			Breakdown{BusinessProfile: 10, SocialPresence: 11},
		},
		{
			"camel aliases",
			map[string]any{
				"breakdown": map[string]any{
					"contactCompleteness": 12.0,
					"websiteQuality":      13.0,
				},
			},
			Breakdown{ContactCompleteness: 12, WebsiteQuality: 13},
		},
		{
			"numeric strings coerced",
			map[string]any{
				"breakdown": map[string]any{
					"bussiness_profile":    "18",
					"contact_completeness": "22.5",
					"social_precense":      "not a number",
					"website_quality":      25.0,
				},
			},
			Breakdown{BusinessProfile: 18, ContactCompleteness: 22.5, WebsiteQuality: 25},
		},
		{
			"empty payload",
			map[string]any{},
			Breakdown{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Decode(tt.payload)
			assert.Equal(t, tt.want, s.Breakdown)
			sum := tt.want.BusinessProfile + tt.want.ContactCompleteness +
				tt.want.SocialPresence + tt.want.WebsiteQuality
			assert.Equal(t, sum, s.Total, "decoded total is recomputed from the breakdown")
		})
	}
}
