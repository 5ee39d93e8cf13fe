// internal/server/server.go
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ThinkInAIXYZ/go-mcp/protocol"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"mcp-dosage-safety/internal/engine"
	"mcp-dosage-safety/internal/events"
	"mcp-dosage-safety/internal/models"
)

type Config struct {
	Host             string
	Port             int
	RequestTimeout   time.Duration
	BatchConcurrency int
	Version          string
}

// History stores finished calculations.
type History interface {
	SaveCalculation(ctx context.Context, result *models.CalculationResult) error
	GetCalculation(ctx context.Context, id string) (*models.CalculationResult, error)
	ListCalculations(ctx context.Context, limit, offset int) ([]*models.CalculationResult, error)
}

type idLister interface {
	ListSupplementIDs(ctx context.Context) ([]string, error)
}

type Deps struct {
	Engine    *engine.Engine
	Catalog   engine.Lookup
	History   History
	Publisher events.Publisher
	Logger    *zap.Logger
}

type DosageServer struct {
	httpServer *http.Server
	router     chi.Router
	tools      map[string]toolHandler

	engine    *engine.Engine
	catalog   engine.Lookup
	history   History
	publisher events.Publisher
	logger    *zap.Logger
	cfg       Config
}

func NewDosageServer(cfg Config, deps Deps) (*DosageServer, error) {
	if deps.Engine == nil || deps.History == nil {
		return nil, errors.New("engine and history are required")
	}
	if deps.Publisher == nil {
		deps.Publisher = events.NopPublisher{}
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if cfg.BatchConcurrency < 1 {
		cfg.BatchConcurrency = 1
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}
	if cfg.Version == "" {
		cfg.Version = "1.0.0"
	}

	s := &DosageServer{
		engine:    deps.Engine,
		catalog:   deps.Catalog,
		history:   deps.History,
		publisher: deps.Publisher,
		logger:    deps.Logger,
		cfg:       cfg,
	}

	s.registerTools()
	s.router = s.routes()
	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s, nil
}

func (s *DosageServer) Handler() http.Handler {
	return s.router
}

func (s *DosageServer) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.cfg.RequestTimeout))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "service": "dosage-safety", "version": s.cfg.Version})
	})

	r.Post("/", s.handleMCP)
	r.Post("/mcp", s.handleMCP)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/calculations", s.handleCreateCalculation)
		r.Post("/calculations/batch", s.handleCreateBatch)
		r.Post("/calculations/validate", s.handleValidate)
		r.Get("/calculations", s.handleListCalculations)
		r.Get("/calculations/{id}", s.handleGetCalculation)
		r.Get("/supplements", s.handleListSupplements)
		r.Get("/supplements/{id}", s.handleGetSupplement)
		r.Post("/supplements/{id}/safety", s.handleSupplementSafety)
	})
	return r
}

// handleMCP serves a single tools/call request.
func (s *DosageServer) handleMCP(w http.ResponseWriter, r *http.Request) {
	var request protocol.CallToolRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		s.writeError(w, badRequest("invalid JSON: %v", err))
		return
	}

	handler, ok := s.tools[request.Name]
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: ErrorBody{
			Type:    "unknown_tool",
			Message: fmt.Sprintf("unknown tool: %s", request.Name),
		}})
		return
	}

	result, err := handler(r.Context(), &request)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *DosageServer) Start(ctx context.Context) error {
	s.logger.Info("starting dosage safety server", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *DosageServer) Stop(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

func (s *DosageServer) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("http request",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)))
	})
}

func (s *DosageServer) writeError(w http.ResponseWriter, err error) {
	status, body := s.errorBody(err)
	writeJSON(w, status, errorResponse{Error: body})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// decodeJSON reads a strict JSON body.
func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return badRequest("request body is required")
	}
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return badRequest("invalid JSON: %v", err)
	}
	return nil
}
