package httpserver

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	appai "github.com/bryanwahyu/roast-radar/internal/application/ai"
	appscans "github.com/bryanwahyu/roast-radar/internal/application/scans"
	domai "github.com/bryanwahyu/roast-radar/internal/domain/ai"
	"github.com/bryanwahyu/roast-radar/internal/domain/credentials"
	domain "github.com/bryanwahyu/roast-radar/internal/domain/scans"
	"github.com/bryanwahyu/roast-radar/internal/logger"
	"github.com/bryanwahyu/roast-radar/internal/middleware"
)

const maxBodyBytes = 1 << 20

// Options configures the HTTP surface around the services.
type Options struct {
	AllowedOrigins []string
	// APIKeys maps tenant → key; empty disables auth.
	APIKeys map[string]string
	// RateLimiter is optional.
	RateLimiter    *middleware.RateLimiter
	HealthCheckers map[string]middleware.HealthChecker
}

type Router struct {
	scansSvc *appscans.Service
	aiSvc    *appai.Service
}

func NewRouter(scansSvc *appscans.Service, aiSvc *appai.Service, opts Options) http.Handler {
	r := &Router{scansSvc: scansSvc, aiSvc: aiSvc}
	mux := chi.NewRouter()

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	mux.Use(chimw.RequestID)
	mux.Use(chimw.Recoverer)
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders: []string{"Retry-After"},
		MaxAge:         300,
	}))
	mux.Use(middleware.LoggingMiddleware)
	mux.Use(middleware.MetricsMiddleware)
	mux.Use(middleware.APIKeyAuth(opts.APIKeys))
	if opts.RateLimiter != nil {
		mux.Use(opts.RateLimiter.Middleware)
	}

	mux.Get("/health", middleware.HealthHandler(opts.HealthCheckers))
	mux.Get("/live", middleware.LivenessHandler)
	mux.Get("/ready", middleware.ReadinessHandler)
	mux.Get("/metrics", middleware.MetricsHandler)

	mux.Get("/v1/models", r.wrap(r.handleModels))
	mux.Get("/v1/models/by-provider", r.wrap(r.handleModelsByProvider))

	mux.Route("/v1/{tenant}", func(rt chi.Router) {
		rt.Use(middleware.RequireTenantMatch)
		rt.Post("/scans", r.wrap(r.handleAnalyze))
		rt.Get("/scans/latest", r.wrap(r.handleLatest))
		rt.Get("/scans/{id}", r.wrap(r.handleGet))
		rt.Get("/scans/{id}/errors", r.wrap(r.handleScanErrors))
		rt.Put("/credentials", r.wrap(r.handlePutCredentials))
		rt.Get("/credentials", r.wrap(r.handleGetCredentials))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			e := classify(err)
			if e.status >= 500 {
				logger.Log.WithError(err).WithField("path", req.URL.Path).Error("request failed")
			}
			writeJSON(w, e.status, errorBody{Error: e.message, Hint: e.hint})
		}
	}
}

type errorBody struct {
	Error string `json:"error"`
	Hint  string `json:"hint,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

func decodeBody(w http.ResponseWriter, req *http.Request, v any) error {
	req.Body = http.MaxBytesReader(w, req.Body, maxBodyBytes)
	if err := json.NewDecoder(req.Body).Decode(v); err != nil {
		return badRequest("invalid JSON body: " + err.Error())
	}
	return nil
}

// GET /v1/models?free=true
func (r *Router) handleModels(w http.ResponseWriter, req *http.Request) error {
	models := r.aiSvc.Models()
	if free, _ := strconv.ParseBool(req.URL.Query().Get("free")); free {
		models = r.aiSvc.FreeModels()
	}
	return writeJSON(w, http.StatusOK, map[string]any{
		"data":    models,
		"default": r.aiSvc.DefaultModel().ID,
	})
}

// GET /v1/models/by-provider
func (r *Router) handleModelsByProvider(w http.ResponseWriter, req *http.Request) error {
	return writeJSON(w, http.StatusOK, map[string]any{
		"providers": r.aiSvc.Providers(),
		"data":      r.aiSvc.ModelsByProvider(),
	})
}

// credentialsBody is the wire shape of a tenant's API keys.
type credentialsBody struct {
	RedditClientID     string `json:"reddit_client_id"`
	RedditClientSecret string `json:"reddit_client_secret"`
	OpenRouterAPIKey   string `json:"openrouter_api_key"`
	GeminiAPIKey       string `json:"gemini_api_key"`
}

func (b credentialsBody) toDomain() credentials.Credentials {
	return credentials.Credentials{
		RedditClientID:     b.RedditClientID,
		RedditClientSecret: b.RedditClientSecret,
		ModelAPIKeys: map[domai.Provider]string{
			domai.ProviderOpenAI: b.OpenRouterAPIKey,
			domai.ProviderGoogle: b.GeminiAPIKey,
		},
	}
}

func credentialsFromDomain(c credentials.Credentials) credentialsBody {
	return credentialsBody{
		RedditClientID:     c.RedditClientID,
		RedditClientSecret: c.RedditClientSecret,
		OpenRouterAPIKey:   c.ModelAPIKeys[domai.ProviderOpenAI],
		GeminiAPIKey:       c.ModelAPIKeys[domai.ProviderGoogle],
	}
}

// POST /v1/{tenant}/scans
func (r *Router) handleAnalyze(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")

	var body struct {
		Competitor  string           `json:"competitor"`
		Subreddit   string           `json:"subreddit"`
		TimeRange   string           `json:"time_range"`
		Limit       int              `json:"limit"`
		Model       string           `json:"model"`
		Credentials *credentialsBody `json:"credentials"`
	}
	if err := decodeBody(w, req, &body); err != nil {
		return err
	}

	competitor := middleware.SanitizeString(body.Competitor)
	if err := middleware.ValidateCompetitor(competitor); err != nil {
		return badRequest(err.Error())
	}
	subreddit, err := middleware.NormalizeSubreddit(body.Subreddit)
	if err != nil {
		return badRequest(err.Error())
	}
	limit, err := middleware.ValidateSearchLimit(body.Limit)
	if err != nil {
		return badRequest(err.Error())
	}

	cmd := appscans.AnalyzeCommand{
		TenantID:   tenant,
		Competitor: competitor,
		Subreddit:  subreddit,
		TimeRange:  body.TimeRange,
		Limit:      limit,
		ModelID:    middleware.SanitizeString(body.Model),
	}
	if body.Credentials != nil {
		c := body.Credentials.toDomain()
		cmd.Credentials = &c
	}

	middleware.ScanStarted()
	res, err := r.scansSvc.Analyze(req.Context(), cmd)
	if err != nil {
		middleware.ScanFailed(classify(err).kind)
		return err
	}
	middleware.ScanSucceeded(res.PostCount)

	return writeJSON(w, http.StatusOK, res)
}

// GET /v1/{tenant}/scans/latest?limit=20
func (r *Router) handleLatest(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))
	limit = middleware.ValidateLimit(limit)

	list, err := r.scansSvc.Latest(req.Context(), tenant, limit)
	if err != nil {
		return err
	}
	if list == nil {
		list = []*domain.Scan{}
	}
	return writeJSON(w, http.StatusOK, domain.History{Data: list, Limit: limit, Count: len(list)})
}

// GET /v1/{tenant}/scans/{id}
func (r *Router) handleGet(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	id := chi.URLParam(req, "id")
	if err := middleware.ValidateScanID(id); err != nil {
		return badRequest(err.Error())
	}

	scan, err := r.scansSvc.Get(req.Context(), tenant, domain.ScanID(id))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, scan)
}

// GET /v1/{tenant}/scans/{id}/errors?limit=20
func (r *Router) handleScanErrors(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	id := chi.URLParam(req, "id")
	if err := middleware.ValidateScanID(id); err != nil {
		return badRequest(err.Error())
	}
	limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))

	list, err := r.scansSvc.ScanErrors(req.Context(), tenant, domain.ScanID(id), middleware.ValidateLimit(limit))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, map[string]any{"data": list, "count": len(list)})
}

// PUT /v1/{tenant}/credentials
func (r *Router) handlePutCredentials(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	var body credentialsBody
	if err := decodeBody(w, req, &body); err != nil {
		return err
	}
	if err := r.scansSvc.SaveCredentials(req.Context(), tenant, body.toDomain()); err != nil {
		return err
	}
	masked, err := r.scansSvc.MaskedCredentials(req.Context(), tenant)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, credentialsFromDomain(masked))
}

// GET /v1/{tenant}/credentials
func (r *Router) handleGetCredentials(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	masked, err := r.scansSvc.MaskedCredentials(req.Context(), tenant)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, credentialsFromDomain(masked))
}
