package embedding

import "context"

// Task types passed through to providers that distinguish them (Gemini does,
// Ollama ignores them).
const (
	TaskRetrievalDocument = "RETRIEVAL_DOCUMENT"
	TaskRetrievalQuery    = "RETRIEVAL_QUERY"
)

// Provider generates a fixed-length embedding vector for a piece of text.
type Provider interface {
	Generate(ctx context.Context, text string, taskType string) ([]float32, error)
}
