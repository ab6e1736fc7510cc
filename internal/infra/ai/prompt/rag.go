package prompt

import (
	"fmt"

	"github.com/bryanwahyu/aem-assistant/internal/domain/ai"
)

const ragSystem = `You are an AEM (Adobe Experience Manager) expert assistant.
Use the following context including the current AEM Setup configuration (Store) to answer the user's question.
If you don't know, say you don't know based on the provided information.`

// RAGPrompt builds the knowledge-base answer prompt.
func RAGPrompt(store, context, question string) ai.Prompt {
	user := fmt.Sprintf("AEM Setup Configuration (Store):\n%s\n\nContext from Knowledge Base:\n%s\n\nQuestion: %s",
		store, context, question)
	return ai.Prompt{
		Name:   NameRAG,
		System: ragSystem,
		User:   user,
		Vars: map[string]string{
			"aem_store": store,
			"context":   context,
			"question":  question,
		},
	}
}
