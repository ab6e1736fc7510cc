package assistant

import (
	"go.uber.org/zap"

	domaem "github.com/bryanwahyu/aem-assistant/internal/domain/aem"
	"github.com/bryanwahyu/aem-assistant/internal/domain/ai"
	"github.com/bryanwahyu/aem-assistant/internal/domain/knowledge"
)

// New wires the fixed dispatch table.
func New(llm ai.Client, store domaem.Reader, inspector Inspector, kb knowledge.Retriever, logger *zap.Logger) *Workflow {
	return &Workflow{
		Router: &Router{LLM: llm, Logger: logger},
		Handlers: map[Intent]Handler{
			IntentRAG:             KnowledgeHandler{Retriever: kb},
			IntentAEM:             AEMHandler{Store: store},
			IntentSearchComponent: SearchComponentHandler{Store: store, Inspector: inspector, Logger: logger},
			IntentSearchPage:      SearchPageHandler{Store: store, Inspector: inspector, Logger: logger},
		},
		Generator: &Generator{LLM: llm},
		Logger:    logger,
	}
}
