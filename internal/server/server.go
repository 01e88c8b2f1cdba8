package server

import (
	"log/slog"
	"net/http"

	"olist-dashboard/internal/handlers"
	"olist-dashboard/internal/reports"
)

type Server struct {
	reports     *reports.Service
	mux         *http.ServeMux
	logger      *slog.Logger
	apiHandlers *handlers.APIHandlers
	sseHandlers *handlers.SSEHandlers
}

type TemplateHandlers struct {
	Dashboard http.HandlerFunc
}

func NewServer(svc *reports.Service, logger *slog.Logger, templateHandlers *TemplateHandlers) *Server {
	s := &Server{
		reports:     svc,
		mux:         http.NewServeMux(),
		logger:      logger,
		apiHandlers: handlers.NewAPIHandlers(svc, logger),
		sseHandlers: handlers.NewSSEHandlers(svc, logger),
	}
	s.setupRoutes(templateHandlers)
	return s
}

func (s *Server) setupRoutes(templateHandlers *TemplateHandlers) {
	// Dashboard routes
	s.mux.HandleFunc("GET /", templateHandlers.Dashboard)
	s.mux.HandleFunc("GET /health", s.apiHandlers.HandleHealth)
	s.mux.HandleFunc("GET /admin/stats", s.apiHandlers.HandleStats)

	// REST API endpoints
	s.mux.HandleFunc("GET /api/reports/{name}", s.apiHandlers.HandleReport)
	s.mux.HandleFunc("GET /api/reports/{name}/export", s.apiHandlers.HandleExport)

	// Datastar SSE endpoints
	s.mux.HandleFunc("GET /sse/reports/{name}", s.sseHandlers.HandleReport)
	s.mux.HandleFunc("GET /sse/refresh-all", s.sseHandlers.HandleRefreshAll)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}
