// Package local is an offline, rule-based stand-in for a hosted model. It answers the
// fixed prompts deterministically and embeds text with feature hashing.
package local

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"strings"
	"unicode"

	"github.com/bryanwahyu/aem-assistant/internal/domain/ai"
	"github.com/bryanwahyu/aem-assistant/internal/infra/ai/prompt"
	"github.com/bryanwahyu/aem-assistant/internal/metrics"
)

const provider = "local"

// Dimensions of the hashed embedding space
const Dimensions = 256

type Client struct{}

func New() *Client { return &Client{} }

func (c *Client) Complete(ctx context.Context, p ai.Prompt) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var out string
	switch p.Name {
	case prompt.NameRouter:
		out = classify(p.Vars["question"])
	case prompt.NameGenerator:
		out = summarize(p.Vars["intent"], p.Vars["context"])
	case prompt.NameRAG:
		out = answerFromKnowledge(p.Vars["context"])
	default:
		metrics.ObserveLLM(provider, p.Name, fmt.Errorf("unknown prompt"))
		return "", fmt.Errorf("local: no rule for prompt %q", p.Name)
	}
	metrics.ObserveLLM(provider, p.Name, nil)
	return out, nil
}

var (
	ragHints       = []string{"how do i", "how to", "what is", "what are", "explain"}
	componentHints = []string{"where", "find", "used", "component"}
	aemHints       = []string{"environment", "config", "setup", "tenant"}
)

// classify picks the first matching rule in this order: rag hints, any http(s) URL,
// component hints, aem hints, then general. A how-to question that mentions a URL is rag,
// and any URL counts as a page query whether or not the store tracks it; the search_page
// handler answers untracked URLs with its not-recognized message.
func classify(question string) string {
	q := strings.ToLower(question)
	switch {
	case containsAny(q, ragHints):
		return "rag"
	case strings.Contains(q, "http://") || strings.Contains(q, "https://"):
		return "search_page"
	case containsAny(q, componentHints):
		return "search_component"
	case containsAny(q, aemHints):
		return "aem"
	}
	return "general"
}

func summarize(intent, context string) string {
	context = strings.TrimSpace(context)
	if context == "" {
		return "Hello! I can look up components, pages and the AEM setup for you. What would you like to know?"
	}
	return fmt.Sprintf("(%s) %s", intent, context)
}

func answerFromKnowledge(context string) string {
	context = strings.TrimSpace(context)
	if context == "" {
		return "I don't know based on the provided information."
	}
	return "Based on the knowledge base:\n" + context
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// Embed hashes lower-cased word tokens into a fixed-size, L2-normalised vector.
func (c *Client) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = hashVector(t)
	}
	metrics.ObserveLLM(provider, "embed", nil)
	return out, nil
}

func hashVector(text string) []float32 {
	v := make([]float32, Dimensions)
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, w := range words {
		h := fnv.New32a()
		_, _ = h.Write([]byte(w))
		v[h.Sum32()%Dimensions]++
	}
	var norm float64
	for _, x := range v {
		norm += float64(x) * float64(x)
	}
	if norm == 0 {
		return v
	}
	n := float32(math.Sqrt(norm))
	for i := range v {
		v[i] /= n
	}
	return v
}
