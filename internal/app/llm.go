package app

import (
	"context"

	"pathfinder/internal/ai"
)

// TextCompleter is the provider seam every AI-backed service depends on.
// Production wiring passes *ai.OpenAICompatibleClient; tests pass fakes.
type TextCompleter interface {
	Complete(ctx context.Context, cfg ai.ChatConfig, messages []ai.ChatMessage) (string, error)
}

func singleUserPrompt(prompt string) []ai.ChatMessage {
	return []ai.ChatMessage{{Role: "user", Content: prompt}}
}
