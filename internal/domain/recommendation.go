package domain

const (
	MaxKeywords        = 10
	MaxRecommendations = 5
)

type KeywordRequest struct {
	Occasion         string   `json:"occasion"`
	PreviousKeywords []string `json:"previousKeywords,omitempty"`
}

type KeywordResult struct {
	Keywords []string `json:"keywords"`
}

type RecommendationRequest struct {
	PastPreferences         string `json:"pastPreferences"`
	CurrentBrowsingActivity string `json:"currentBrowsingActivity"`
}

type RecommendationResult struct {
	Recommendations []Recommendation `json:"recommendations"`
}

type Recommendation struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	ImageURL    string   `json:"imageUrl"`
	Keywords    []string `json:"keywords"`
}
