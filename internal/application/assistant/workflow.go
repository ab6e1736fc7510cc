// Package assistant answers natural-language questions about the AEM setup by routing the
// query to one handler and composing the answer from what the handler found.
package assistant

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Message roles
const (
	RoleHuman     = "human"
	RoleAssistant = "assistant"
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// State is threaded through route, dispatch and generate. Messages and Context only
// grow; Intent, Results and Answer are overwritten by the step that sets them.
type State struct {
	Messages []Message
	Context  []string
	Intent   Intent
	Results  any
	Answer   string
}

// Response is returned to the caller.
type Response struct {
	Answer  string `json:"answer"`
	Intent  Intent `json:"intent"`
	Results any    `json:"results"`
}

// Workflow runs router -> handler(intent) -> generator once per query.
type Workflow struct {
	Router    *Router
	Handlers  map[Intent]Handler
	Generator *Generator
	Logger    *zap.Logger
}

// Run is stateless between calls. Any step error aborts the run.
func (w *Workflow) Run(ctx context.Context, query string) (Response, error) {
	start := time.Now()
	st := &State{
		Messages: []Message{{Role: RoleHuman, Content: query}},
		Intent:   IntentGeneral,
	}

	if err := w.route(ctx, st); err != nil {
		return Response{}, err
	}
	if err := w.dispatch(ctx, st); err != nil {
		return Response{}, err
	}
	if err := w.generate(ctx, st); err != nil {
		return Response{}, err
	}

	w.Logger.Info("assistant query answered",
		zap.String("intent", string(st.Intent)),
		zap.Int("context_entries", len(st.Context)),
		zap.Duration("took", time.Since(start)))
	return Response{Answer: st.Answer, Intent: st.Intent, Results: st.Results}, nil
}

func (w *Workflow) route(ctx context.Context, st *State) error {
	intent, err := w.Router.Classify(ctx, st.question())
	if err != nil {
		return err
	}
	st.Intent = intent
	return nil
}

// dispatch runs the handler registered for the intent; general has none.
func (w *Workflow) dispatch(ctx context.Context, st *State) error {
	h, ok := w.Handlers[st.Intent]
	if !ok {
		return nil
	}
	out, err := h.Handle(ctx, st.question())
	if err != nil {
		return fmt.Errorf("%s handler: %w", st.Intent, err)
	}
	if out.Context != "" {
		st.Context = append(st.Context, out.Context)
	}
	if out.Results != nil {
		st.Results = out.Results
	}
	return nil
}

func (w *Workflow) generate(ctx context.Context, st *State) error {
	answer, err := w.Generator.Generate(ctx, st.Context, st.Results, st.Intent, st.question())
	if err != nil {
		return err
	}
	st.Answer = answer
	st.Messages = append(st.Messages, Message{Role: RoleAssistant, Content: answer})
	return nil
}

func (st *State) question() string {
	return st.Messages[0].Content
}
