// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/okian/arena/internal/adapters/http/swagger"
	service "github.com/okian/arena/internal/app"
	"github.com/okian/arena/internal/domain/model"
	"github.com/okian/arena/internal/domain/types"
)

const (
	// maxBodyBytes bounds a slot draft body.
	maxBodyBytes = 64 << 10
	// requestTimeout bounds every non-streaming request.
	requestTimeout = 15 * time.Second
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Read operations render the board.
	Board(ctx context.Context) types.BoardView
	Ranks(ctx context.Context) []types.RankView
	Slot(ctx context.Context, key model.SlotKey) (types.SlotView, error)

	// Write operations persist before returning.
	Save(ctx context.Context, key model.SlotKey, draft model.Draft) (types.SlotView, error)
	Delete(ctx context.Context, key model.SlotKey) error
	Reset(ctx context.Context) error
}

// Server wires HTTP routes for the board API.
type Server struct {
	healthHandler *HealthHandler
	statsHandler  *StatsHandler
	boardHandler  *BoardHandler
	slotHandler   *SlotHandler

	feed        http.Handler
	corsOrigins []string
}

// Option configures a Server.
type Option func(*Server)

// WithFeed mounts h at GET /ws.
func WithFeed(h http.Handler) Option {
	return func(s *Server) {
		s.feed = h
	}
}

// WithCORSOrigins sets the allowed browser origins.
func WithCORSOrigins(origins []string) Option {
	return func(s *Server) {
		if len(origins) > 0 {
			s.corsOrigins = origins
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	s := &Server{
		healthHandler: NewHealthHandler(),
		statsHandler:  NewStatsHandler(statsProvider),
		boardHandler:  NewBoardHandler(deps),
		slotHandler:   NewSlotHandler(deps),
		corsOrigins:   []string{"*"},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router builds the chi router with every route registered.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(RequestID, middleware.RealIP, middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.corsOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", RequestIDHeader},
		ExposedHeaders: []string{RequestIDHeader},
		MaxAge:         300,
	}))
	r.Use(MetricsMiddleware)

	r.Get("/healthz", s.healthHandler.HandleHealth)
	swagger.Register(r)
	if s.feed != nil {
		r.Handle("/ws", s.feed)
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(requestTimeout))

		r.Get("/stats", s.statsHandler.HandleStats)
		r.Get("/board", s.boardHandler.HandleGetBoard)
		r.Get("/ranks", s.boardHandler.HandleGetRanks)
		r.Post("/reset", s.boardHandler.HandleReset)

		r.Route("/slots/{group}/{index}", func(r chi.Router) {
			r.Get("/", s.slotHandler.HandleGetSlot)
			r.Put("/", s.slotHandler.HandlePutSlot)
			r.Delete("/", s.slotHandler.HandleDeleteSlot)
		})
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not_found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
	})
	return r
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeServiceError maps service sentinels to status codes.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrUnknownSlot):
		writeError(w, http.StatusNotFound, "unknown_slot", err)
	case errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusGatewayTimeout, "timeout", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal", err)
	}
}
