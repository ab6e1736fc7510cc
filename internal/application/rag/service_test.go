package rag

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appaem "github.com/bryanwahyu/aem-assistant/internal/application/aem"
	domaem "github.com/bryanwahyu/aem-assistant/internal/domain/aem"
	"github.com/bryanwahyu/aem-assistant/internal/domain/ai"
	domain "github.com/bryanwahyu/aem-assistant/internal/domain/knowledge"
	"github.com/bryanwahyu/aem-assistant/internal/infra/knowledge"
)

type captureLLM struct {
	got ai.Prompt
	err error
}

func (c *captureLLM) Complete(_ context.Context, p ai.Prompt) (string, error) {
	c.got = p
	return "answer", c.err
}

type failingRetriever struct{}

func (failingRetriever) Retrieve(context.Context, string) ([]domain.Snippet, error) {
	return nil, errors.New("index down")
}

func newService(llm ai.Client, r domain.Retriever) *Service {
	return &Service{
		LLM:       llm,
		Retriever: r,
		Store:     appaem.NewService(domaem.DefaultSeed()),
		Logger:    zap.NewNop(),
	}
}

func TestAsk(t *testing.T) {
	llm := &captureLLM{}
	svc := newService(llm, knowledge.StaticRetriever{Snippets: knowledge.KnowledgeBaseSnippets()})

	got, err := svc.Ask(context.Background(), "How do I manage templates?")
	require.NoError(t, err)

	assert.Equal(t, "answer", got.Answer)
	require.Len(t, got.Context, 3)
	assert.Equal(t, "Use the Template Editor to manage AEM templates.", got.Context[1].PageContent)
	assert.Contains(t, llm.got.Vars["context"], "reusable building blocks for content.\n\nUse the Template Editor")
	assert.Contains(t, llm.got.Vars["aem_store"], `"availableTenants"`)
	assert.Equal(t, "How do I manage templates?", llm.got.Vars["question"])
}

func TestAsk_Errors(t *testing.T) {
	_, err := newService(&captureLLM{}, failingRetriever{}).Ask(context.Background(), "q")
	assert.Error(t, err)

	_, err = newService(&captureLLM{err: ai.ErrQuotaExceeded}, knowledge.StaticRetriever{}).Ask(context.Background(), "q")
	assert.ErrorIs(t, err, ai.ErrQuotaExceeded)
}
