package factory

import (
	"fmt"

	"paarth-be/pkg/llm"
	"paarth-be/pkg/llm/gemini"
	"paarth-be/pkg/llm/ollama"
)

func NewProvider(providerType, modelName, baseURL, geminiApiKey, systemInstruction string) (llm.Provider, error) {
	switch providerType {
	case "gemini":
		return gemini.NewGeminiProvider(geminiApiKey, modelName, systemInstruction), nil
	case "ollama":
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, modelName), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
