package prompt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRouterPrompt(t *testing.T) {
	p := RouterPrompt("how do I create a template?")
	assert.Equal(t, NameRouter, p.Name)
	assert.Contains(t, p.System, "search_component")
	assert.Contains(t, p.User, "Question: how do I create a template?")
	assert.Equal(t, "how do I create a template?", p.Vars["question"])
}

func TestGeneratorPrompt_JoinsContextInOrder(t *testing.T) {
	p := GeneratorPrompt([]string{"first", "second"}, "null", "general", "hi")
	assert.Equal(t, NameGenerator, p.Name)
	assert.Contains(t, p.User, "Context:\nfirst\nsecond\n")
	assert.Contains(t, p.User, "Structured Results:\nnull\n")
	assert.Contains(t, p.User, "Intent: general\nQuestion: hi\nAnswer:")
	assert.Equal(t, "first\nsecond", p.Vars["context"])
}

func TestRAGPrompt(t *testing.T) {
	p := RAGPrompt(`{"urls":[]}`, "snippet", "what is a template?")
	assert.Equal(t, NameRAG, p.Name)
	assert.Contains(t, p.User, "AEM Setup Configuration (Store):\n{\"urls\":[]}")
	assert.Contains(t, p.User, "Context from Knowledge Base:\nsnippet")
	assert.Equal(t, "what is a template?", p.Vars["question"])
}
