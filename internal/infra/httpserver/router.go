package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	appaem "github.com/bryanwahyu/aem-assistant/internal/application/aem"
	"github.com/bryanwahyu/aem-assistant/internal/application/assistant"
	"github.com/bryanwahyu/aem-assistant/internal/application/ingest"
	appinspect "github.com/bryanwahyu/aem-assistant/internal/application/inspect"
	"github.com/bryanwahyu/aem-assistant/internal/application/rag"
	domaem "github.com/bryanwahyu/aem-assistant/internal/domain/aem"
	domai "github.com/bryanwahyu/aem-assistant/internal/domain/ai"
	"github.com/bryanwahyu/aem-assistant/internal/metrics"
	"github.com/bryanwahyu/aem-assistant/internal/middleware"
)

// Services the router dispatches to. Ingest may be nil, in which case /rag/ingest is not mounted.
type Services struct {
	Store     *appaem.Service
	Inspector *appinspect.Service
	Assistant *assistant.Workflow
	RAG       *rag.Service
	Ingest    *ingest.Service
}

// Options control the middleware stack.
type Options struct {
	Logger       *zap.Logger
	CORSOrigins  []string
	APIKeys      map[string]string
	RateLimiter  *middleware.RateLimiter
	HealthChecks map[string]middleware.HealthChecker
	MaxUpload    int64
}

type Router struct {
	svc    Services
	logger *zap.Logger
	maxUp  int64
}

func NewRouter(svc Services, opts Options) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	maxUp := opts.MaxUpload
	if maxUp <= 0 {
		maxUp = 32 << 20
	}
	r := &Router{svc: svc, logger: logger, maxUp: maxUp}
	mux := chi.NewRouter()

	mux.Use(middleware.RequestID)
	mux.Use(middleware.Recovery(logger))
	mux.Use(middleware.Logging(logger))
	mux.Use(middleware.Metrics)
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	mux.Use(middleware.APIKeyAuth(opts.APIKeys))
	if opts.RateLimiter != nil {
		mux.Use(opts.RateLimiter.Limit)
	}

	mux.Get("/health", middleware.LivenessHandler)
	mux.Get("/healthz", middleware.HealthHandler(opts.HealthChecks))
	mux.Method(http.MethodGet, "/metrics", metrics.Handler())

	mux.Route("/aem", func(rt chi.Router) {
		rt.Get("/store", r.wrap(r.handleStore))

		rt.Get("/urls", r.wrap(r.handleListURLs))
		rt.Post("/urls", r.wrap(r.handleAddURL))
		rt.Put("/urls/{id}", r.wrap(r.handleUpdateURL))
		rt.Delete("/urls/{id}", r.wrap(r.handleDeleteURL))

		rt.Get("/components", r.wrap(r.handleListComponents))
		rt.Post("/components", r.wrap(r.handleAddComponent))
		rt.Put("/components/{id}", r.wrap(r.handleUpdateComponent))
		rt.Delete("/components/{id}", r.wrap(r.handleDeleteComponent))

		rt.Get("/analyze-page", r.wrap(r.handleAnalyzePage))
		rt.Get("/search-component", r.wrap(r.handleSearchComponent))
		rt.Post("/update-page-props", r.wrap(r.handleUpdatePageProps))
	})

	mux.Post("/assistant/query", r.wrap(r.handleAssistantQuery))

	mux.Route("/rag", func(rt chi.Router) {
		rt.Post("/query", r.wrap(r.handleRAGQuery))
		if svc.Ingest != nil {
			rt.Post("/ingest", r.wrap(r.handleIngest))
		}
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

// wrap maps domain errors to status codes. Anything unrecognised is logged and answered
// with an opaque 500.
func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		err := h(w, req)
		if err == nil {
			return
		}
		var tooBig *http.MaxBytesError
		switch {
		case errors.Is(err, domaem.ErrValidation):
			middleware.WriteError(w, http.StatusBadRequest, err.Error())
		case errors.As(err, &tooBig):
			middleware.WriteError(w, http.StatusRequestEntityTooLarge, "request body too large")
		case errors.Is(err, domai.ErrQuotaExceeded):
			r.logger.Warn("ai quota exceeded", zap.String("path", req.URL.Path), zap.Error(err))
			middleware.WriteError(w, http.StatusTooManyRequests, "ai quota exceeded")
		default:
			r.logger.Error("request failed",
				zap.String("method", req.Method),
				zap.String("path", req.URL.Path),
				zap.String("request_id", middleware.GetRequestID(req.Context())),
				zap.Error(err),
			)
			middleware.WriteError(w, http.StatusInternalServerError, "internal server error")
		}
	}
}

func writeJSON(w http.ResponseWriter, v any) error {
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(v)
}

type queryBody struct {
	Query string `json:"query"`
}

func decodeQuery(req *http.Request) (string, error) {
	var body queryBody
	if err := middleware.DecodeJSON(req, &body); err != nil {
		return "", err
	}
	return middleware.ValidateQueryText(body.Query)
}

// GET /aem/store
func (r *Router) handleStore(w http.ResponseWriter, _ *http.Request) error {
	return writeJSON(w, r.svc.Store.Snapshot())
}

// GET /aem/urls?tenant=EW
func (r *Router) handleListURLs(w http.ResponseWriter, req *http.Request) error {
	tenant, err := middleware.QueryParam(req, "tenant")
	if err != nil {
		return err
	}
	if err := middleware.ValidateTenantID(tenant); err != nil {
		return err
	}
	return writeJSON(w, r.svc.Store.ListURLs(tenant))
}

// POST /aem/urls
// Body: {"value": "https://...", "tenant": "EW"}
func (r *Router) handleAddURL(w http.ResponseWriter, req *http.Request) error {
	var in domaem.URLInput
	if err := middleware.DecodeJSON(req, &in); err != nil {
		return err
	}
	u, err := r.svc.Store.AddURL(in)
	if err != nil {
		return err
	}
	return writeJSON(w, u)
}

// PUT /aem/urls/{id}
// Unknown ids answer null.
func (r *Router) handleUpdateURL(w http.ResponseWriter, req *http.Request) error {
	id, err := middleware.ParseID(chi.URLParam(req, "id"))
	if err != nil {
		return err
	}
	var patch domaem.URLPatch
	if err := middleware.DecodeJSON(req, &patch); err != nil {
		return err
	}
	u, err := r.svc.Store.UpdateURL(id, patch)
	if err != nil {
		return err
	}
	return writeJSON(w, u)
}

// DELETE /aem/urls/{id}
func (r *Router) handleDeleteURL(w http.ResponseWriter, req *http.Request) error {
	id, err := middleware.ParseID(chi.URLParam(req, "id"))
	if err != nil {
		return err
	}
	r.svc.Store.DeleteURL(id)
	return writeJSON(w, map[string]bool{"success": true})
}

// GET /aem/components?tenant=EW
func (r *Router) handleListComponents(w http.ResponseWriter, req *http.Request) error {
	tenant, err := middleware.QueryParam(req, "tenant")
	if err != nil {
		return err
	}
	if err := middleware.ValidateTenantID(tenant); err != nil {
		return err
	}
	return writeJSON(w, r.svc.Store.ListComponents(tenant))
}

// POST /aem/components
func (r *Router) handleAddComponent(w http.ResponseWriter, req *http.Request) error {
	var in domaem.ComponentInput
	if err := middleware.DecodeJSON(req, &in); err != nil {
		return err
	}
	c, err := r.svc.Store.AddComponent(in)
	if err != nil {
		return err
	}
	return writeJSON(w, c)
}

// PUT /aem/components/{id}
func (r *Router) handleUpdateComponent(w http.ResponseWriter, req *http.Request) error {
	id, err := middleware.ParseID(chi.URLParam(req, "id"))
	if err != nil {
		return err
	}
	var patch domaem.ComponentPatch
	if err := middleware.DecodeJSON(req, &patch); err != nil {
		return err
	}
	c, err := r.svc.Store.UpdateComponent(id, patch)
	if err != nil {
		return err
	}
	return writeJSON(w, c)
}

// DELETE /aem/components/{id}
func (r *Router) handleDeleteComponent(w http.ResponseWriter, req *http.Request) error {
	id, err := middleware.ParseID(chi.URLParam(req, "id"))
	if err != nil {
		return err
	}
	r.svc.Store.DeleteComponent(id)
	return writeJSON(w, map[string]bool{"success": true})
}

// GET /aem/analyze-page?url=https://...
func (r *Router) handleAnalyzePage(w http.ResponseWriter, req *http.Request) error {
	url, err := middleware.RequireQuery(req, "url")
	if err != nil {
		return err
	}
	if err := domaem.ValidatePageURL(url); err != nil {
		return err
	}
	found := r.svc.Inspector.SearchByPage(req.Context(), url, r.svc.Store.ListComponents(""))
	return writeJSON(w, assistant.PageResults{URL: url, ComponentsVisible: found})
}

type searchComponentResponse struct {
	Selector  string                      `json:"selector"`
	Component *domaem.ComponentDefinition `json:"component"`
	Pages     any                         `json:"pages"`
}

// GET /aem/search-component?selector=heroV1
// Probes every tracked URL; helper props come from the matching definition when one exists.
func (r *Router) handleSearchComponent(w http.ResponseWriter, req *http.Request) error {
	selector, err := middleware.RequireQuery(req, "selector")
	if err != nil {
		return err
	}
	resp := searchComponentResponse{Selector: selector}
	var helpers []string
	if c, ok := r.svc.Store.ComponentBySelector(selector); ok {
		resp.Component = &c
		helpers = c.HelperProps
	}
	resp.Pages = r.svc.Inspector.SearchByComponent(req.Context(), selector, r.svc.Store.ListURLs(""), helpers)
	return writeJSON(w, resp)
}

// POST /aem/update-page-props
// Body: {"url": "...", "selector": "...", "props": "<json string>"}
func (r *Router) handleUpdatePageProps(w http.ResponseWriter, req *http.Request) error {
	var in domaem.PageOverride
	if err := middleware.DecodeJSON(req, &in); err != nil {
		return err
	}
	o, err := r.svc.Store.SetPageOverride(in)
	if err != nil {
		return err
	}
	return writeJSON(w, map[string]any{"success": true, "override": o})
}

// POST /assistant/query
// Body: {"query": "..."}
func (r *Router) handleAssistantQuery(w http.ResponseWriter, req *http.Request) error {
	q, err := decodeQuery(req)
	if err != nil {
		return err
	}
	resp, err := r.svc.Assistant.Run(req.Context(), q)
	if err != nil {
		return err
	}
	return writeJSON(w, resp)
}

// POST /rag/query
func (r *Router) handleRAGQuery(w http.ResponseWriter, req *http.Request) error {
	q, err := decodeQuery(req)
	if err != nil {
		return err
	}
	ans, err := r.svc.RAG.Ask(req.Context(), q)
	if err != nil {
		return err
	}
	return writeJSON(w, ans)
}

// POST /rag/ingest (multipart, field "file")
func (r *Router) handleIngest(w http.ResponseWriter, req *http.Request) error {
	req.Body = http.MaxBytesReader(w, req.Body, r.maxUp)
	if err := req.ParseMultipartForm(r.maxUp); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return err
		}
		return fmt.Errorf("%w: multipart form: %v", domaem.ErrValidation, err)
	}
	defer func() {
		if req.MultipartForm != nil {
			_ = req.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := req.FormFile("file")
	if err != nil {
		return fmt.Errorf("%w: multipart field \"file\" is required", domaem.ErrValidation)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return err
	}
	res, err := r.svc.Ingest.Ingest(req.Context(), ingest.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	})
	if err != nil {
		return err
	}
	return writeJSON(w, res)
}
