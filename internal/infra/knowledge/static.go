// Package knowledge provides the knowledge-base retrievers behind the rag handlers.
package knowledge

import (
	"context"

	domain "github.com/bryanwahyu/aem-assistant/internal/domain/knowledge"
)

// StaticRetriever returns a fixed set of snippets regardless of the query.
type StaticRetriever struct {
	Snippets []domain.Snippet
}

// AssistantSnippets back the assistant's rag handler when no index is configured.
func AssistantSnippets() []domain.Snippet {
	return []domain.Snippet{
		{PageContent: "AEM components are modular. Workflows automate tasks. Templates define structure."},
	}
}

// KnowledgeBaseSnippets back /rag/query when no index is configured.
func KnowledgeBaseSnippets() []domain.Snippet {
	return []domain.Snippet{
		{PageContent: "AEM Components are reusable building blocks for content."},
		{PageContent: "Use the Template Editor to manage AEM templates."},
		{PageContent: "Asset workflows process images and videos automatically."},
	}
}

func (r StaticRetriever) Retrieve(ctx context.Context, _ string) ([]domain.Snippet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return append([]domain.Snippet{}, r.Snippets...), nil
}
