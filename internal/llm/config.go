// Package llm wraps the generative model provider used by the agents.
package llm

// ModelTier selects how capable a model a task needs.
type ModelTier string

const (
	// TierLite is for extraction and classification tasks.
	TierLite ModelTier = "lite"
	// TierStandard is for structured analysis.
	TierStandard ModelTier = "standard"
	// TierAdvanced is for long-form writing.
	TierAdvanced ModelTier = "advanced"
)

// Config maps tiers to concrete model names.
type Config struct {
	Models map[ModelTier]string
}

// DefaultConfig returns the default Gemini tier mapping.
func DefaultConfig() *Config {
	return &Config{
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
	}
}

// Model returns the model name for a tier, falling back to the
// standard tier when the requested one is not configured.
func (c *Config) Model(tier ModelTier) string {
	if m, ok := c.Models[tier]; ok {
		return m
	}
	if m, ok := c.Models[TierStandard]; ok {
		return m
	}
	return ""
}
