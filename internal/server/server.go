// Package server provides the HTTP REST API for the job agent.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/jonathan/job-agent/internal/assistant"
	"github.com/jonathan/job-agent/internal/config"
	"github.com/jonathan/job-agent/internal/interview"
	"github.com/jonathan/job-agent/internal/resume"
	"github.com/jonathan/job-agent/internal/search"
	"github.com/jonathan/job-agent/internal/server/middleware"
	"github.com/jonathan/job-agent/internal/server/ratelimit"
	"github.com/jonathan/job-agent/internal/tracker"
)

// maxJSONBody bounds JSON request bodies
const maxJSONBody = 5 << 20

// JobFetcher reduces a job page URL to readable text
type JobFetcher interface {
	JobText(ctx context.Context, url string) (string, error)
}

// PDFRenderer prints generated HTML to PDF
type PDFRenderer interface {
	PDF(ctx context.Context, html string) ([]byte, error)
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	handler     http.Handler
	tracker     *tracker.Service
	search      *search.Service
	assistant   *assistant.Assistant
	interviews  *interview.Manager
	resumes     *resume.Ingestor
	fetcher     JobFetcher
	renderer    PDFRenderer
	rateLimiter *ratelimit.Limiter
	authHandler *AuthHandler
	corsOrigins []string
	now         func() time.Time
}

// AuthConfig enables owner authentication on /api routes
type AuthConfig struct {
	JWT       *config.JWTConfig
	Passwords *config.PasswordConfig
	OwnerHash string
}

// Config holds server configuration
type Config struct {
	Port        int
	CORSOrigins []string
	RateLimit   *ratelimit.Config // nil disables rate limiting
	Auth        *AuthConfig       // nil leaves the API open
}

// Deps are the components the handlers call into. Fetcher and Renderer
// may be nil, which disables URL gap analysis and PDF output.
type Deps struct {
	Tracker    *tracker.Service
	Search     *search.Service
	Assistant  *assistant.Assistant
	Interviews *interview.Manager
	Resumes    *resume.Ingestor
	Fetcher    JobFetcher
	Renderer   PDFRenderer
	Now        func() time.Time
}

// New creates a new server instance
func New(cfg Config, deps Deps) (*Server, error) {
	if deps.Tracker == nil || deps.Search == nil || deps.Assistant == nil {
		return nil, fmt.Errorf("server requires tracker, search and assistant")
	}

	s := &Server{
		tracker:     deps.Tracker,
		search:      deps.Search,
		assistant:   deps.Assistant,
		interviews:  deps.Interviews,
		resumes:     deps.Resumes,
		fetcher:     deps.Fetcher,
		renderer:    deps.Renderer,
		corsOrigins: cfg.CORSOrigins,
		now:         deps.Now,
	}
	if s.interviews == nil {
		s.interviews = interview.NewManager(deps.Assistant)
	}
	if s.resumes == nil {
		s.resumes = resume.NewIngestor(deps.Assistant)
	}
	if s.now == nil {
		s.now = time.Now
	}

	rl := cfg.RateLimit
	if rl == nil {
		rl = ratelimit.LoadConfig(false)
	}
	s.rateLimiter = ratelimit.NewLimiter(rl)

	api := http.NewServeMux()

	// Saved jobs
	api.HandleFunc("POST /api/jobs/import", s.handleImportJobs)
	api.HandleFunc("POST /api/saved-jobs", s.handleSaveJob)
	api.HandleFunc("GET /api/saved-jobs", s.handleListSavedJobs)
	api.HandleFunc("GET /api/saved-jobs/check", s.handleCheckSaved)
	api.HandleFunc("DELETE /api/saved-jobs/{id}", s.handleDeleteJob)
	api.HandleFunc("PUT /api/saved-jobs/{id}/status", s.handleUpdateStatus)
	api.HandleFunc("PUT /api/saved-jobs/{id}/notes", s.handleUpdateNotes)
	api.HandleFunc("PUT /api/saved-jobs/{id}/deadline", s.handleUpdateDeadline)
	api.HandleFunc("GET /api/board", s.handleBoard)

	// Search and profile
	api.HandleFunc("GET /api/search", s.handleSearch)
	api.HandleFunc("GET /api/profile", s.handleGetProfile)
	api.HandleFunc("PUT /api/profile", s.handleUpdateProfile)
	api.HandleFunc("POST /api/profile/resume", s.handleUploadResume)

	// AI generation
	api.HandleFunc("POST /api/ai/gap-analysis", s.handleGapAnalysis)
	api.HandleFunc("POST /api/ai/pack", s.handlePack)
	api.HandleFunc("POST /api/ai/cover-letter", s.handleCoverLetter)
	api.HandleFunc("POST /api/ai/cold-email", s.handleColdEmail)
	api.HandleFunc("POST /api/ai/gap-fill", s.handleGapFill)
	api.HandleFunc("POST /api/ai/tailored-cv", s.handleTailoredCV)
	api.HandleFunc("POST /api/ai/tailored-cv/pdf", s.handleTailoredCVPDF)

	// Mock interviews
	api.HandleFunc("POST /api/interview/start", s.handleInterviewStart)
	api.HandleFunc("POST /api/interview/answer", s.handleInterviewAnswer)
	api.HandleFunc("POST /api/interview/finish", s.handleInterviewFinish)
	api.HandleFunc("POST /api/interview/report", s.handleInterviewReport)
	api.HandleFunc("DELETE /api/interview/{jobID}", s.handleInterviewAbandon)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	if cfg.Auth != nil {
		jwtService := NewJWTService(cfg.Auth.JWT)
		s.authHandler = NewAuthHandler(cfg.Auth.Passwords, cfg.Auth.OwnerHash, jwtService)
		mux.HandleFunc("POST /auth/login", s.authHandler.Login)
		mux.Handle("/api/", middleware.AuthMiddleware(jwtService.AsTokenValidator())(api))
	} else {
		log.Printf("[server] owner authentication disabled; API is open to anyone who can reach port %d", cfg.Port)
		mux.Handle("/api/", api)
	}

	s.handler = s.withRateLimit(s.withLogging(s.withCORS(mux)))
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // AI packs and PDF rendering are slow
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler returns the fully wrapped HTTP handler
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start begins listening for requests and blocks until SIGINT/SIGTERM.
func (s *Server) Start() error {
	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[server] listening on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		s.rateLimiter.Stop()
		return fmt.Errorf("server error: %w", err)
	case <-stop:
	}
	log.Println("[server] shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	// Stop rate limiter cleanup goroutine
	s.rateLimiter.Stop()
	log.Println("[server] stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := "*"
		if len(s.corsOrigins) > 0 {
			origin = ""
			if reqOrigin := r.Header.Get("Origin"); slices.Contains(s.corsOrigins, reqOrigin) {
				origin = reqOrigin
				w.Header().Add("Vary", "Origin")
			}
		}
		if origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(s.extractClientID(r), r.URL.Path, r.Method)

		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the response status for logging
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Printf("[%s] %s %d in %v", r.Method, r.URL.Path, rec.status, time.Since(start).Round(time.Millisecond))
	})
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status           string `json:"status"`
	SearchProvider   string `json:"search_provider"`
	SavedURLs        int    `json:"saved_urls"`
	ActiveInterviews int    `json:"active_interviews"`
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, HealthResponse{
		Status:           "ok",
		SearchProvider:   s.search.Provider().Name(),
		SavedURLs:        s.tracker.Index().Len(),
		ActiveInterviews: s.interviews.Len(),
	})
}

// writeJSON writes a JSON response
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("[server] error encoding JSON response: %v", err)
	}
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, data)
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// decodeJSON reads a bounded JSON body into dst and runs its Validate
// method when it has one. It writes the 400 response itself.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	if v, ok := dst.(interface{ Validate() error }); ok {
		if err := v.Validate(); err != nil {
			s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
			return false
		}
	}
	return true
}

// pathID parses a positive integer path value
func (s *Server) pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(r.PathValue(name)), 10, 64)
	if err != nil || id <= 0 {
		s.errorResponse(w, http.StatusBadRequest, "Invalid job ID")
		return 0, false
	}
	return id, true
}

// extractClientID extracts the client identifier from the request.
// Uses the IP address from RemoteAddr; X-Forwarded-For is not trusted.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]any{
		"error":     "rate limit exceeded, please try again later",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		seconds := int(info.RetryAfter.Seconds()) + 1
		response["retry_after"] = seconds
		w.Header().Set("Retry-After", strconv.Itoa(seconds))
	}

	log.Printf("[rate-limit] limit exceeded: limit=%d reset=%s", info.Limit, info.ResetTime.Format(time.RFC3339))
	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
