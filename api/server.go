// Package api exposes the competitive analysis engine over HTTP: running an
// analysis for a query, listing and fetching stored analyses, health and
// Prometheus metrics.
package api

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rankforge/analyzer"
	"github.com/rankforge/analyzer/cache"
	"github.com/rankforge/analyzer/db"
	"github.com/rankforge/analyzer/extract"
	"github.com/rankforge/analyzer/llmfilter"
	"github.com/rankforge/analyzer/models"
	"github.com/rankforge/analyzer/serp"
	"github.com/rankforge/analyzer/slug"
	"github.com/rankforge/analyzer/storage"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rankforge_http_requests_total",
		Help: "HTTP requests by method, route and status code",
	}, []string{"method", "route", "code"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "rankforge_http_request_duration_seconds",
		Help:    "HTTP request latency by route",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	analysesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rankforge_analyses_total",
		Help: "Analyses served, by source (cache, store, live, demo)",
	}, []string{"source"})
)

// store is the persistence surface the server needs
type store interface {
	SaveAnalysis(result *models.AnalysisResult, slug string) error
	GetBySlug(slug string) (*models.AnalysisResult, error)
	GetByQuery(query string) (*models.AnalysisResult, error)
	List(limit, offset int) ([]models.AnalysisSummary, error)
	DeleteBySlug(slug string) error
	Count() (int, error)
	Close() error
}

// searchProvider fetches search results for a query
type searchProvider interface {
	Enabled() bool
	Search(ctx context.Context, query, location, language string) (*models.SerpResults, error)
}

// pageExtractor enriches organic results with extracted page content
type pageExtractor interface {
	EnrichResults(ctx context.Context, results []models.OrganicResult)
}

// Server represents the API server
type Server struct {
	store     store
	search    searchProvider
	extractor pageExtractor
	engine    *analyzer.Engine
	cache     *cache.Cache
	archive   storage.Archive

	addr        string
	server      *http.Server
	mux         *http.ServeMux
	corsEnabled bool

	defaultLocation string
	defaultLanguage string
}

// Config contains server configuration
type Config struct {
	Addr        string
	CORSEnabled bool

	DBConfig      db.Config
	SerpConfig    serp.Config
	ExtractConfig extract.Config
	CacheConfig   cache.Config
	FilterConfig  llmfilter.Config

	// StorageConfig is the local archive location; S3Config, when non-nil,
	// selects the S3 backend instead
	StorageConfig storage.Config
	S3Config      *storage.S3Config

	// MaxResults caps how many competitor pages feed each analysis
	MaxResults int

	// Location and Language are the defaults applied when a request omits them
	Location string
	Language string
}

// DefaultConfig returns default server configuration
func DefaultConfig() Config {
	return Config{
		Addr:          ":8080",
		CORSEnabled:   true,
		SerpConfig:    serp.Config{},
		ExtractConfig: extract.DefaultConfig(),
		StorageConfig: storage.DefaultConfig(),
		MaxResults:    analyzer.DefaultMaxResults,
		Location:      "France",
		Language:      "fr",
	}
}

// NewServer creates an API server with all collaborators wired from config
func NewServer(ctx context.Context, config Config) (*Server, error) {
	database, err := db.New(config.DBConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	var archive storage.Archive
	if config.S3Config != nil {
		archive, err = storage.NewS3Storage(ctx, *config.S3Config)
	} else {
		archive, err = storage.New(config.StorageConfig)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	engineConfig := analyzer.Config{MaxResults: config.MaxResults}
	if filter := llmfilter.New(config.FilterConfig); filter != nil {
		engineConfig.Filter = filter
	}

	return newServer(
		config,
		database,
		serp.New(config.SerpConfig),
		extract.New(config.ExtractConfig),
		analyzer.New(engineConfig),
		cache.New(ctx, config.CacheConfig),
		archive,
	), nil
}

// newServer assembles a server from already-built collaborators
func newServer(config Config, st store, search searchProvider, extractor pageExtractor, engine *analyzer.Engine, c *cache.Cache, archive storage.Archive) *Server {
	if config.Location == "" {
		config.Location = "France"
	}
	if config.Language == "" {
		config.Language = "fr"
	}

	s := &Server{
		store:           st,
		search:          search,
		extractor:       extractor,
		engine:          engine,
		cache:           c,
		archive:         archive,
		addr:            config.Addr,
		mux:             http.NewServeMux(),
		corsEnabled:     config.CORSEnabled,
		defaultLocation: config.Location,
		defaultLanguage: config.Language,
	}

	s.registerRoutes()

	s.server = &http.Server{
		Addr:         config.Addr,
		Handler:      s.middleware(s.mux),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute, // Allow time for full competitor fetches
		IdleTimeout:  120 * time.Second,
	}

	return s
}

// registerRoutes sets up all API routes
func (s *Server) registerRoutes() {
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/api/analyze", s.handleAnalyze)
	s.mux.HandleFunc("/api/analyses", s.handleList)
	s.mux.HandleFunc("/api/analyses/", s.handleAnalysis) // Handles /api/analyses/{slug}
	s.mux.Handle("/metrics", promhttp.Handler())
}

// Handler returns the complete handler including middleware
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start starts the API server
func (s *Server) Start() error {
	slog.Info("starting API server", "addr", s.addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	slog.Info("shutting down API server")
	if err := s.server.Shutdown(ctx); err != nil {
		return err
	}
	if s.cache != nil {
		s.cache.Close()
	}
	return s.store.Close()
}

// statusRecorder captures the response status for logging and metrics
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// middleware applies CORS, logging and metrics to all routes
func (s *Server) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.corsEnabled {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}
		}

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		elapsed := time.Since(start)

		route := metricRoute(r.URL.Path)
		requestsTotal.WithLabelValues(r.Method, route, fmt.Sprintf("%d", rec.status)).Inc()
		requestDuration.WithLabelValues(r.Method, route).Observe(elapsed.Seconds())

		// Skip health checks to reduce log noise
		if r.URL.Path != "/health" && r.URL.Path != "/metrics" {
			slog.Info("request", "method", r.Method, "path", r.URL.Path, "status", rec.status, "duration", elapsed)
		}
	})
}

// metricRoute collapses slug paths so metric label cardinality stays bounded
func metricRoute(path string) string {
	if strings.HasPrefix(path, "/api/analyses/") {
		return "/api/analyses/:slug"
	}
	return path
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	count, err := s.store.Count()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to get count")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":        "healthy",
		"analyses":      count,
		"serp_provider": s.search.Enabled(),
		"redis":         s.cache != nil && s.cache.Redis(),
		"time":          time.Now(),
	})
}

// AnalyzeRequest represents an analysis request
type AnalyzeRequest struct {
	Query    string `json:"query"`
	Location string `json:"location,omitempty"`
	Language string `json:"language,omitempty"`
	Force    bool   `json:"force"` // Force re-analysis even if a stored one exists
}

// handleAnalyze runs the full pipeline for a query: search results, page
// extraction, analysis, persistence and content archiving. Unless forced, a
// cached or stored analysis for the same query is returned directly.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Query = strings.TrimSpace(req.Query)
	if req.Query == "" {
		respondError(w, http.StatusBadRequest, "query is required")
		return
	}
	if req.Location == "" {
		req.Location = s.defaultLocation
	}
	if req.Language == "" {
		req.Language = s.defaultLanguage
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Minute)
	defer cancel()

	cacheKey := cache.Key("analysis", req.Query, req.Location, req.Language)
	if !req.Force {
		var cached models.AnalysisResult
		if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
			analysesTotal.WithLabelValues("cache").Inc()
			respondJSON(w, http.StatusOK, &cached)
			return
		}

		stored, err := s.store.GetByQuery(req.Query)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "database error")
			return
		}
		if stored != nil {
			analysesTotal.WithLabelValues("store").Inc()
			respondJSON(w, http.StatusOK, stored)
			return
		}
	}

	serpResults, err := s.search.Search(ctx, req.Query, req.Location, req.Language)
	if err != nil {
		respondError(w, http.StatusBadGateway, fmt.Sprintf("search provider failed: %v", err))
		return
	}
	if serpResults != nil {
		s.extractor.EnrichResults(ctx, serpResults.OrganicResults)
	}

	result, err := s.engine.Analyze(ctx, req.Query, serpResults)
	if err != nil {
		respondError(w, http.StatusInternalServerError, fmt.Sprintf("analysis failed: %v", err))
		return
	}

	if result.Demo {
		analysesTotal.WithLabelValues("demo").Inc()
	} else {
		analysesTotal.WithLabelValues("live").Inc()
	}

	analysisSlug := s.uniqueSlug(req.Query, result.ID)
	if err := s.store.SaveAnalysis(result, analysisSlug); err != nil {
		slog.Error("failed to save analysis", "query", req.Query, "error", err)
		// Still return the result even if save fails
	}

	if corpus := analyzer.Corpus(serpResults); corpus != "" {
		if _, err := s.archive.SaveContent(corpus, analysisSlug); err != nil {
			slog.Error("failed to archive competitor content", "slug", analysisSlug, "error", err)
		}
	}

	if err := s.cache.Set(ctx, cacheKey, result); err != nil {
		slog.Warn("failed to cache analysis", "query", req.Query, "error", err)
	}

	respondJSON(w, http.StatusOK, result)
}

// uniqueSlug derives a slug for the query, suffixing a counter when another
// query already owns it. Re-analyses of the same query keep their slug because
// the stored analysis carries the same query string.
func (s *Server) uniqueSlug(query, fallback string) string {
	base := slug.GenerateWithFallback(query, fallback)
	candidate := base
	for counter := 1; counter < 100; counter++ {
		existing, err := s.store.GetBySlug(candidate)
		if err != nil || existing == nil || existing.Query == query {
			return candidate
		}
		candidate = slug.MakeUnique(base, counter)
	}
	return candidate
}

// handleList lists stored analyses with pagination
func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	limit := 20
	offset := 0

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		fmt.Sscanf(limitStr, "%d", &limit)
	}
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		fmt.Sscanf(offsetStr, "%d", &offset)
	}

	// Enforce reasonable limits
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	summaries, err := s.store.List(limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "database error")
		return
	}
	if summaries == nil {
		summaries = []models.AnalysisSummary{}
	}

	count, _ := s.store.Count()

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"data":   summaries,
		"total":  count,
		"limit":  limit,
		"offset": offset,
	})
}

// handleAnalysis handles GET and DELETE on /api/analyses/{slug}
func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	analysisSlug := strings.TrimPrefix(r.URL.Path, "/api/analyses/")
	if analysisSlug == "" || strings.Contains(analysisSlug, "/") {
		respondError(w, http.StatusBadRequest, "slug is required")
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.handleGetBySlug(w, r, analysisSlug)
	case http.MethodDelete:
		s.handleDeleteBySlug(w, r, analysisSlug)
	default:
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleGetBySlug retrieves a stored analysis by slug
func (s *Server) handleGetBySlug(w http.ResponseWriter, r *http.Request, analysisSlug string) {
	result, err := s.store.GetBySlug(analysisSlug)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "database error")
		return
	}
	if result == nil {
		respondError(w, http.StatusNotFound, "analysis not found")
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// handleDeleteBySlug deletes a stored analysis by slug
func (s *Server) handleDeleteBySlug(w http.ResponseWriter, r *http.Request, analysisSlug string) {
	if err := s.store.DeleteBySlug(analysisSlug); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusNotFound, "analysis not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to delete analysis")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "analysis deleted successfully",
	})
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError sends an error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
