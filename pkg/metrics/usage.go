package metrics

// TokenUsage captures the token counts reported by the generation provider.
type TokenUsage struct {
	PromptTokens    int `json:"promptTokens"`
	CandidateTokens int `json:"candidateTokens,omitempty"`
	TotalTokens     int `json:"totalTokens"`
}

// IsZero reports whether usage data is absent.
func (u TokenUsage) IsZero() bool {
	return u.PromptTokens == 0 && u.CandidateTokens == 0 && u.TotalTokens == 0
}
