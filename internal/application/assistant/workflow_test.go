package assistant

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	appaem "github.com/bryanwahyu/aem-assistant/internal/application/aem"
	appinspect "github.com/bryanwahyu/aem-assistant/internal/application/inspect"
	domaem "github.com/bryanwahyu/aem-assistant/internal/domain/aem"
	"github.com/bryanwahyu/aem-assistant/internal/domain/ai"
	"github.com/bryanwahyu/aem-assistant/internal/domain/inspect"
	"github.com/bryanwahyu/aem-assistant/internal/infra/ai/local"
	"github.com/bryanwahyu/aem-assistant/internal/infra/ai/prompt"
	"github.com/bryanwahyu/aem-assistant/internal/infra/knowledge"
	"github.com/bryanwahyu/aem-assistant/internal/infra/web"
)

// fakeLLM answers the router prompt with route and the generator prompt with answer,
// recording every prompt it sees.
type fakeLLM struct {
	mu       sync.Mutex
	route    string
	routeErr error
	answer   string
	genErr   error
	prompts  []ai.Prompt
}

func (f *fakeLLM) Complete(_ context.Context, p ai.Prompt) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, p)
	switch p.Name {
	case prompt.NameRouter:
		return f.route, f.routeErr
	case prompt.NameGenerator:
		return f.answer, f.genErr
	}
	return "", errors.New("unexpected prompt " + p.Name)
}

type fakeInspector struct {
	hits  []inspect.ComponentHit
	page  []inspect.PageComponent
	calls int
}

func (f *fakeInspector) SearchByComponent(context.Context, string, []domaem.TrackedURL, []string) []inspect.ComponentHit {
	f.calls++
	return f.hits
}

func (f *fakeInspector) SearchByPage(context.Context, string, []domaem.ComponentDefinition) []inspect.PageComponent {
	f.calls++
	return f.page
}

func newWorkflow(llm ai.Client, insp Inspector) *Workflow {
	store := appaem.NewService(domaem.DefaultSeed())
	kb := knowledge.StaticRetriever{Snippets: knowledge.AssistantSnippets()}
	return New(llm, store, insp, kb, zap.NewNop())
}

func TestRun_GeneralSkipsHandlers(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	llm := &fakeLLM{route: "general", answer: "Hi!"}
	insp := &fakeInspector{}
	resp, err := newWorkflow(llm, insp).Run(context.Background(), "hello")
	require.NoError(t, err)

	assert.Equal(t, Response{Answer: "Hi!", Intent: IntentGeneral}, resp)
	assert.Zero(t, insp.calls)
	require.Len(t, llm.prompts, 2)
	assert.Equal(t, "", llm.prompts[1].Vars["context"])
	assert.Equal(t, "null", llm.prompts[1].Vars["results"])
}

func TestRun_RAGAddsKnowledgeContext(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	llm := &fakeLLM{route: "rag", answer: "Templates define structure."}
	resp, err := newWorkflow(llm, &fakeInspector{}).Run(context.Background(), "how do I build a template?")
	require.NoError(t, err)

	assert.Equal(t, IntentRAG, resp.Intent)
	assert.Nil(t, resp.Results)
	gen := llm.prompts[1]
	assert.Equal(t, "RAG Knowledge Base: AEM components are modular. Workflows automate tasks. Templates define structure.", gen.Vars["context"])
	assert.Equal(t, "rag", gen.Vars["intent"])
	assert.Equal(t, "how do I build a template?", gen.Vars["question"])
}

func TestRun_AEMReturnsSnapshot(t *testing.T) {
	llm := &fakeLLM{route: "aem", answer: "EW is selected."}
	resp, err := newWorkflow(llm, &fakeInspector{}).Run(context.Background(), "which tenant is selected?")
	require.NoError(t, err)

	snap, ok := resp.Results.(domaem.Store)
	require.True(t, ok)
	assert.Equal(t, "EW", snap.SelectedTenant)
	assert.True(t, strings.HasPrefix(llm.prompts[1].Vars["context"], "AEM Store Config: {"))
	assert.Contains(t, llm.prompts[1].Vars["results"], `"selectedTenant": "EW"`)
}

func TestRun_SearchComponentNotConfigured(t *testing.T) {
	llm := &fakeLLM{route: "search_component", answer: "not configured"}
	insp := &fakeInspector{}
	resp, err := newWorkflow(llm, insp).Run(context.Background(), "where is the carousel?")
	require.NoError(t, err)

	assert.Nil(t, resp.Results)
	assert.Zero(t, insp.calls)
	assert.Equal(t, MsgComponentNotConfigured, llm.prompts[1].Vars["context"])
}

func TestRun_SearchComponentNotFoundOnPages(t *testing.T) {
	llm := &fakeLLM{route: "search_component", answer: "nowhere"}
	resp, err := newWorkflow(llm, &fakeInspector{}).Run(context.Background(), "Where is Hero V2 used?")
	require.NoError(t, err)

	res, ok := resp.Results.(ComponentResults)
	require.True(t, ok)
	assert.Equal(t, "heroV2", res.Component.Selector)
	assert.Empty(t, res.Pages)
	assert.Equal(t, `Search completed: The component "Hero V2" was NOT found on any of the 16 tracked pages.`,
		llm.prompts[1].Vars["context"])
}

func TestRun_SearchPage(t *testing.T) {
	llm := &fakeLLM{route: "search_page", answer: "two components"}
	insp := &fakeInspector{page: []inspect.PageComponent{{Name: "Hero V1", Selector: "heroV1"}, {Name: "Teaser V1", Selector: "teasersV1"}}}
	resp, err := newWorkflow(llm, insp).Run(context.Background(), "what is on https://dev-www.voltanxt.nl/advies ?")
	require.NoError(t, err)

	res, ok := resp.Results.(PageResults)
	require.True(t, ok)
	assert.Equal(t, "https://dev-www.voltanxt.nl/advies", res.URL)
	assert.Len(t, res.ComponentsVisible, 2)
	assert.Equal(t, "The page https://dev-www.voltanxt.nl/advies contains these components: Hero V1, Teaser V1",
		llm.prompts[1].Vars["context"])
}

func TestRun_SearchPageUnknownURL(t *testing.T) {
	llm := &fakeLLM{route: "search_page", answer: "unknown"}
	insp := &fakeInspector{}
	_, err := newWorkflow(llm, insp).Run(context.Background(), "what is on https://example.org/ ?")
	require.NoError(t, err)

	assert.Zero(t, insp.calls)
	assert.Equal(t, MsgURLNotRecognized, llm.prompts[1].Vars["context"])
}

func TestRun_ProviderErrorsPropagate(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	boom := errors.New("quota")
	_, err := newWorkflow(&fakeLLM{routeErr: boom}, &fakeInspector{}).Run(context.Background(), "q")
	assert.ErrorIs(t, err, boom)

	llm := &fakeLLM{route: "general", genErr: ai.ErrQuotaExceeded}
	_, err = newWorkflow(llm, &fakeInspector{}).Run(context.Background(), "q")
	assert.ErrorIs(t, err, ai.ErrQuotaExceeded)
}

func TestRun_HandlerErrorPropagates(t *testing.T) {
	boom := errors.New("index offline")
	w := newWorkflow(&fakeLLM{route: "rag"}, &fakeInspector{})
	w.Handlers[IntentRAG] = HandlerFunc(func(context.Context, string) (Output, error) { return Output{}, boom })

	_, err := w.Run(context.Background(), "how do I?")
	assert.ErrorIs(t, err, boom)
}

func TestRun_HeroV1EndToEnd(t *testing.T) {
	page := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><body><div data-component="heroV1" data-props='{"heading":"Hi"}'></div></body></html>`))
	}))
	defer page.Close()

	seed := domaem.DefaultSeed()
	seed.URLs = []domaem.TrackedURL{{ID: 1, Value: page.URL + "/", Tenant: "EW"}}
	store := appaem.NewService(seed)
	logger := zaptest.NewLogger(t)
	insp := &appinspect.Service{Fetcher: web.NewHTTPFetcher(2*time.Second, "test", 0), Logger: logger}
	kb := knowledge.StaticRetriever{Snippets: knowledge.AssistantSnippets()}

	resp, err := New(local.New(), store, insp, kb, logger).Run(context.Background(), "Where is the Hero V1 component used?")
	require.NoError(t, err)

	assert.Equal(t, IntentSearchComponent, resp.Intent)
	res, ok := resp.Results.(ComponentResults)
	require.True(t, ok)
	require.Len(t, res.Pages, 1)
	assert.Equal(t, page.URL+"/", res.Pages[0].URL)
	assert.Equal(t, "Hi", res.Pages[0].Helpers["heading"])
	assert.Contains(t, resp.Answer, page.URL+"/")
}
