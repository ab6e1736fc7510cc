package assistant

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/bryanwahyu/aem-assistant/internal/domain/ai"
	"github.com/bryanwahyu/aem-assistant/internal/infra/ai/prompt"
)

// Intent is the classified purpose of a query.
type Intent string

const (
	IntentSearchComponent Intent = "search_component"
	IntentSearchPage      Intent = "search_page"
	IntentRAG             Intent = "rag"
	IntentAEM             Intent = "aem"
	IntentGeneral         Intent = "general"
)

// Intents lists every valid intent.
var Intents = []Intent{IntentSearchComponent, IntentSearchPage, IntentRAG, IntentAEM, IntentGeneral}

var stripChars = strings.NewReplacer(`'`, "", `"`, "", "(", "", ")", "", ".", "")

// NormalizeIntent maps raw model output to an Intent; anything unrecognized is general.
func NormalizeIntent(raw string) Intent {
	clean := stripChars.Replace(strings.ToLower(strings.TrimSpace(raw)))
	for _, in := range Intents {
		if clean == string(in) {
			return in
		}
	}
	return IntentGeneral
}

// Router classifies a query with one model call.
type Router struct {
	LLM    ai.Client
	Logger *zap.Logger
}

// Classify never retries; provider errors are returned as is.
func (r *Router) Classify(ctx context.Context, query string) (Intent, error) {
	raw, err := r.LLM.Complete(ctx, prompt.RouterPrompt(query))
	if err != nil {
		return "", fmt.Errorf("route intent: %w", err)
	}
	intent := NormalizeIntent(raw)
	r.Logger.Debug("intent classified", zap.String("raw", raw), zap.String("intent", string(intent)))
	return intent, nil
}
