package analysis

// NarrativeInsights is the structured payload returned by the external
// language-model collaborator. When the call fails or no API key is
// configured, a fixed unavailable payload is returned instead.
type NarrativeInsights struct {
	Summary         string   `json:"summary"`
	KeyThemes       []string `json:"key_themes"`
	ContentQuality  string   `json:"content_quality"`
	Recommendations []string `json:"recommendations"`
	Available       bool     `json:"available"`
}

// UnavailableInsights is the fixed degradation payload for the insight
// collaborator. It is returned whenever the external call cannot be made;
// it never aborts the analysis session.
func UnavailableInsights(reason string) NarrativeInsights {
	return NarrativeInsights{
		Summary:         "AI analysis not available - " + reason,
		KeyThemes:       []string{"AI analysis requires an OpenAI API key"},
		ContentQuality:  "Unable to assess without AI analysis",
		Recommendations: []string{"Configure an OpenAI API key for detailed insights"},
		Available:       false,
	}
}
