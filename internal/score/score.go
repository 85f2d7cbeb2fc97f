// Package score models the four-category lead quality score.
package score

// Per-category maximums. The categories sum to 100.
const (
	MaxBusinessProfile     = 20
	MaxContactCompleteness = 30
	MaxSocialPresence      = 20
	MaxWebsiteQuality      = 30
)

// Breakdown is the four-category decomposition of a lead's quality score.
// Field names carry the backend's historical spellings on the wire.
type Breakdown struct {
	BusinessProfile     float64 `json:"bussiness_profile"`
	ContactCompleteness float64 `json:"contact_completeness"`
	SocialPresence      float64 `json:"social_precense"`
	WebsiteQuality      float64 `json:"website_quality"`
}

// CompanyScore pairs the total with its breakdown. Total always equals the
// sum of the breakdown values.
type CompanyScore struct {
	Total     float64   `json:"Total"`
	Breakdown Breakdown `json:"Breakdown"`
}

// New builds a score from a breakdown, clamping each category to its maximum
// and computing the total as the sum. This is the only constructor, which is
// how the Total == sum invariant is preserved.
func New(b Breakdown) CompanyScore {
	b.BusinessProfile = clamp(b.BusinessProfile, MaxBusinessProfile)
	b.ContactCompleteness = clamp(b.ContactCompleteness, MaxContactCompleteness)
	b.SocialPresence = clamp(b.SocialPresence, MaxSocialPresence)
	b.WebsiteQuality = clamp(b.WebsiteQuality, MaxWebsiteQuality)
	return CompanyScore{
		Total:     b.BusinessProfile + b.ContactCompleteness + b.SocialPresence + b.WebsiteQuality,
		Breakdown: b,
	}
}

func clamp(v, max float64) float64 {
	if v < 0 {
		return 0
	}
	if v > max {
		return max
	}
	return v
}

// Category describes one scoring dimension for display.
type Category struct {
	Label       string
	Maximum     float64
	Description string
}

// Categories is the fixed presentation order of the breakdown.
var Categories = []Category{
	{
		Label:       "Business Profile",
		Maximum:     MaxBusinessProfile,
		Description: "Evaluates the validity and quality of the company name, domain, and address information.",
	},
	{
		Label:       "Contact Completeness",
		Maximum:     MaxContactCompleteness,
		Description: "Measures how many valid contact channels are available such as emails, phone numbers, social links, or contact forms.",
	},
	{
		Label:       "Social Presence",
		Maximum:     MaxSocialPresence,
		Description: "Checks for the presence of social media profiles across multiple platforms.",
	},
	{
		Label:       "Website Quality",
		Maximum:     MaxWebsiteQuality,
		Description: "Analyzes the website technical and content quality including HTTPS, About page, and Contact section.",
	},
}
