// Package rag answers questions from the knowledge base plus the current store config.
package rag

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	domaem "github.com/bryanwahyu/aem-assistant/internal/domain/aem"
	"github.com/bryanwahyu/aem-assistant/internal/domain/ai"
	"github.com/bryanwahyu/aem-assistant/internal/domain/knowledge"
	"github.com/bryanwahyu/aem-assistant/internal/infra/ai/prompt"
)

type Service struct {
	LLM       ai.Client
	Retriever knowledge.Retriever
	Store     domaem.Reader
	Logger    *zap.Logger
}

// Answer is returned by Ask.
type Answer struct {
	Answer  string              `json:"answer"`
	Context []knowledge.Snippet `json:"context"`
}

// Ask runs retrieve then generate.
func (s *Service) Ask(ctx context.Context, query string) (Answer, error) {
	snippets, err := s.Retriever.Retrieve(ctx, query)
	if err != nil {
		return Answer{}, fmt.Errorf("retrieve: %w", err)
	}
	s.Logger.Debug("retrieved snippets", zap.Int("count", len(snippets)))

	store, err := json.MarshalIndent(s.Store.Snapshot(), "", "  ")
	if err != nil {
		return Answer{}, fmt.Errorf("encode store: %w", err)
	}
	texts := make([]string, len(snippets))
	for i, sn := range snippets {
		texts[i] = sn.PageContent
	}

	answer, err := s.LLM.Complete(ctx, prompt.RAGPrompt(string(store), strings.Join(texts, "\n\n"), query))
	if err != nil {
		return Answer{}, fmt.Errorf("generate: %w", err)
	}
	if snippets == nil {
		snippets = []knowledge.Snippet{}
	}
	return Answer{Answer: answer, Context: snippets}, nil
}
