package domain

// ProcessingStatus tracks a prescription through its extraction lifecycle.
type ProcessingStatus string

const (
	StatusQueued     ProcessingStatus = "queued"
	StatusProcessing ProcessingStatus = "processing"
	StatusCompleted  ProcessingStatus = "completed"
	StatusFailed     ProcessingStatus = "failed"
)

// Valid reports whether s is a known processing status.
func (s ProcessingStatus) Valid() bool {
	switch s {
	case StatusQueued, StatusProcessing, StatusCompleted, StatusFailed:
		return true
	}
	return false
}

// Terminal reports whether s is an end state of a processing attempt.
func (s ProcessingStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Model provider keys. These are the values stored in extraction_results.model_name
// and accepted in selectedModels lists.
const (
	ModelOpenAI = "openai"
	ModelClaude = "claude"
	ModelGemini = "gemini"
)

// DefaultModels is the provider set used when no extraction config selects one.
var DefaultModels = []string{ModelOpenAI, ModelClaude, ModelGemini}
