package score

import "strconv"

// Decode maps an arbitrary score payload into a CompanyScore. The backend
// has emitted the score node at several depths and the breakdown keys under
// several spellings; each alias list is checked in order and missing values
// degrade to zero. The returned score is rebuilt through New, so the
// Total == sum invariant holds regardless of what the payload claimed.
func Decode(payload map[string]any) CompanyScore {
	node := scoreNode(payload)
	breakdown := breakdownNode(node, payload)

	return New(Breakdown{
		BusinessProfile: num(breakdown,
			"bussiness_profile", "business_profile", "BusinessProfile", "BussinessProfile"),
		ContactCompleteness: num(breakdown,
			"contact_completeness", "contactCompleteness", "ContactCompleteness"),
		SocialPresence: num(breakdown,
			"social_precense", "social_presence", "socialPresence"),
		WebsiteQuality: num(breakdown,
			"website_quality", "websiteQuality", "website_quality_score"),
	})
}

// scoreNode finds the object holding the score: payload.score,
// payload.data.score, payload.data, or the payload itself.
func scoreNode(payload map[string]any) map[string]any {
	if s, ok := payload["score"].(map[string]any); ok {
		return s
	}
	if data, ok := payload["data"].(map[string]any); ok {
		if s, ok := data["score"].(map[string]any); ok {
			return s
		}
		return data
	}
	return payload
}

func breakdownNode(node, payload map[string]any) map[string]any {
	for _, m := range []map[string]any{node, payload} {
		for _, key := range []string{"Breakdown", "breakdown"} {
			if b, ok := m[key].(map[string]any); ok {
				return b
			}
		}
	}
	return map[string]any{}
}

// num returns the first present value, coercing numeric strings the way the
// frontend always has; anything unparseable degrades to zero.
func num(m map[string]any, keys ...string) float64 {
	for _, key := range keys {
		switch v := m[key].(type) {
		case float64:
			return v
		case string:
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				return f
			}
			return 0
		}
	}
	return 0
}
