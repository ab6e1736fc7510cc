package assistant

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/bryanwahyu/aem-assistant/internal/domain/ai"
	"github.com/bryanwahyu/aem-assistant/internal/infra/ai/prompt"
)

// Generator writes the final answer with one model call.
type Generator struct {
	LLM ai.Client
}

// Generate serializes results verbatim ("null" when absent); the answer is returned as is.
func (g *Generator) Generate(ctx context.Context, entries []string, results any, intent Intent, question string) (string, error) {
	b, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode results: %w", err)
	}
	answer, err := g.LLM.Complete(ctx, prompt.GeneratorPrompt(entries, string(b), string(intent), question))
	if err != nil {
		return "", fmt.Errorf("generate answer: %w", err)
	}
	return answer, nil
}
