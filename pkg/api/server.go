package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/uhyunpark/silverbar/pkg/events"
	"github.com/uhyunpark/silverbar/pkg/orders"
	"github.com/uhyunpark/silverbar/pkg/util"
)

const summariesChannel = "summaries"

// Server handles REST API and WebSocket connections
type Server struct {
	registry *orders.Registry
	router   *mux.Router
	hub      *Hub
	logger   *zap.SugaredLogger
	clock    util.Clock
	origins  []string

	stopHub context.CancelFunc
}

// NewServer creates a new API server. Its websocket hub runs until Close
// is called or the context given to Start is cancelled, so Handler can be
// served on its own.
func NewServer(registry *orders.Registry, logger *zap.Logger, allowedOrigins []string) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		registry: registry,
		router:   mux.NewRouter(),
		hub:      NewHub(logger),
		logger:   logger.Sugar(),
		clock:    util.RealClock{},
		origins:  allowedOrigins,
	}

	hubCtx, stop := context.WithCancel(context.Background())
	s.stopHub = stop
	go s.hub.Run(hubCtx)

	s.setupRoutes()
	return s
}

// Close stops the websocket hub and disconnects its clients.
func (s *Server) Close() {
	s.stopHub()
}

func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/orders", s.handleCreateOrder).Methods("POST")
	api.HandleFunc("/orders", s.handleListOrders).Methods("GET")
	api.HandleFunc("/orders/{id}", s.handleGetOrder).Methods("GET")
	api.HandleFunc("/orders/{id}", s.handleCancelOrder).Methods("DELETE")
	api.HandleFunc("/summaries", s.handleGetSummaries).Methods("GET")
	api.HandleFunc("/book", s.handleGetBook).Methods("GET")

	s.router.HandleFunc("/ws", s.handleWebSocket)
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")
}

// Handler returns the router wrapped with CORS handling
func (s *Server) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   s.origins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})
	return c.Handler(s.router)
}

// Start serves on addr until ctx is cancelled. Summaries are pushed to
// websocket subscribers after every event and at least every interval.
func (s *Server) Start(ctx context.Context, addr string, interval time.Duration) error {
	go s.broadcastLoop(ctx, interval)

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Warnw("api_shutdown_failed", "err", err)
		}
	}()

	s.logger.Infow("api_server_listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// ==============================
// REST Handlers
// ==============================

func (s *Server) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := req.checkRange(); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	id, err := s.registry.Create(req.UserID, req.Quantity, req.Price, req.OrderType)
	if err != nil {
		var invalid *orders.InvalidOrderError
		if errors.As(err, &invalid) {
			respondError(w, http.StatusBadRequest, "invalid order", string(invalid.Reason))
			return
		}
		respondError(w, http.StatusInternalServerError, "create failed", err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, CreateOrderResponse{OrderID: id})
}

func (s *Server) handleCancelOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := orderIDFromPath(w, r)
	if !ok {
		return
	}

	// cancelling an unknown id is not an error
	s.registry.Cancel(id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := orderIDFromPath(w, r)
	if !ok {
		return
	}

	o, found := s.registry.Get(id)
	if !found {
		respondError(w, http.StatusNotFound, "order not found", "")
		return
	}
	respondJSON(w, http.StatusOK, o)
}

func (s *Server) handleListOrders(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.registry.ListAllOrders())
}

func (s *Server) handleGetSummaries(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.registry.LiveOrderSummaries())
}

func (s *Server) handleGetBook(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, BookSnapshot{
		Bids:      toLevels(s.registry.SideSummaries(orders.Buy)),
		Asks:      toLevels(s.registry.SideSummaries(orders.Sell)),
		Timestamp: s.clock.Now().UnixMilli(),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":      "ok",
		"live_orders": s.registry.Len(),
	})
}

// ==============================
// Broadcast Methods
// ==============================

// Publish implements events.Sink by pushing fresh summaries to subscribers.
func (s *Server) Publish(_ context.Context, ev events.Event) error {
	s.BroadcastSummaries(ev.Seq)
	return nil
}

var _ events.Sink = (*Server)(nil)

// BroadcastSummaries pushes the current summaries on the summaries channel.
func (s *Server) BroadcastSummaries(seq uint64) {
	if !s.hub.HasSubscribers(summariesChannel) {
		return
	}
	s.hub.BroadcastToChannel(summariesChannel, SummariesUpdate{
		Type:      summariesChannel,
		Seq:       seq,
		Summaries: s.registry.LiveOrderSummaries(),
		Timestamp: s.clock.Now().UnixMilli(),
	})
}

func (s *Server) broadcastLoop(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.clock.After(interval):
			s.BroadcastSummaries(0)
		}
	}
}

// ==============================
// Helper Functions
// ==============================

func orderIDFromPath(w http.ResponseWriter, r *http.Request) (orders.OrderID, bool) {
	raw := mux.Vars(r)["id"]
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid order id", raw)
		return 0, false
	}
	return orders.OrderID(n), true
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, error string, message string) {
	respondJSON(w, status, ErrorResponse{
		Error:   error,
		Message: message,
	})
}
