package prompt

import (
	"fmt"
	"strings"

	"github.com/bryanwahyu/aem-assistant/internal/domain/ai"
)

// Prompt names, dipakai juga sebagai label metrics
const (
	NameRouter    = "router"
	NameGenerator = "generator"
	NameRAG       = "rag"
)

const routerSystem = `You are a router for an AEM Assistant.
Classify the user's intent into ONE word:
- search_component: User wants to FIND WHERE a specific component (like 'hero' or 'teaser') is used on the site.
- search_page: User wants to see ALL components that exist on a specific URL.
- rag: User is asking 'HOW-TO' questions, asking for definitions, or general AEM processes.
- aem: User is asking about the current environment setup or configuration.
- general: Greeting or unrelated chat.

Reply with the single word only.`

// RouterPrompt builds the intent classification prompt for question.
func RouterPrompt(question string) ai.Prompt {
	return ai.Prompt{
		Name:   NameRouter,
		System: routerSystem,
		User:   fmt.Sprintf("Question: %s\nIntent:", question),
		Vars:   map[string]string{"question": question},
	}
}

const generatorSystem = `You are an expert AEM Assistant.
Use the provided Context and Structured Results to answer the user's question accurately.

If the Intent is 'search_component' or 'search_page', summarize the findings clearly.
If no results are found in the Structured Results, state that clearly rather than saying information is missing.`

// GeneratorPrompt builds the final answer prompt. results is already serialized; context
// entries are joined by newlines in insertion order.
func GeneratorPrompt(context []string, results, intent, question string) ai.Prompt {
	joined := strings.Join(context, "\n")
	var b strings.Builder
	fmt.Fprintf(&b, "Context:\n%s\n\n", joined)
	fmt.Fprintf(&b, "Structured Results:\n%s\n\n", results)
	fmt.Fprintf(&b, "Intent: %s\n", intent)
	fmt.Fprintf(&b, "Question: %s\n", question)
	b.WriteString("Answer:")
	return ai.Prompt{
		Name:   NameGenerator,
		System: generatorSystem,
		User:   b.String(),
		Vars: map[string]string{
			"context":  joined,
			"results":  results,
			"intent":   intent,
			"question": question,
		},
	}
}
