package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"SoftWork/internal/app"
	"SoftWork/internal/metrics"
	"SoftWork/internal/subscription"
)

// Server serves the page, the JSON API and the live feed.
type Server struct {
	addr     string
	app      *app.App
	renderer *Renderer
	hub      *liveHub
	log      zerolog.Logger
	server   *http.Server
	unsub    func()
}

// NewServer creates a new HTTP server bound to a.
func NewServer(addr string, a *app.App, log zerolog.Logger) (*Server, error) {
	renderer, err := NewRenderer()
	if err != nil {
		return nil, err
	}
	log = log.With().Str("component", "web").Logger()
	s := &Server{
		addr:     addr,
		app:      a,
		renderer: renderer,
		hub:      newLiveHub(renderer, log),
		log:      log,
	}
	s.unsub = a.Subscribe(s.hub.Broadcast)
	return s, nil
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /subscribe", s.handleSubscribeForm)
	mux.HandleFunc("POST /select", s.handleSelectForm)
	mux.HandleFunc("GET /api/state", s.handleState)
	mux.HandleFunc("POST /api/subscribe", s.handleSubscribeAPI)
	mux.HandleFunc("POST /api/select", s.handleSelectAPI)
	mux.HandleFunc("GET /ws", s.hub.serveWS(s.app.Snapshot))
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", metrics.Handler())
	return s.logRequests(mux)
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.log.Info().Str("addr", s.addr).Msg("starting http server")
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server and disconnects live clients.
func (s *Server) Shutdown(ctx context.Context) error {
	s.unsub()
	s.hub.closeAll()
	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Debug().Str("method", r.Method).Str("path", r.URL.Path).Dur("took", time.Since(start)).Msg("request")
	})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.renderer.Page(w, s.app.Snapshot()); err != nil {
		s.log.Error().Err(err).Msg("render page")
	}
}

func (s *Server) handleSubscribeForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	// validation outcome is shown through the status message
	_ = s.app.Ledger.Submit(r.PostForm.Get("email"))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleSelectForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	if err := s.selectIndex(r.PostForm.Get("index")); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

var errBadIndex = errors.New("index must name a displayed tip")

// selectIndex only accepts indices that are rendered as navigation dots.
func (s *Server) selectIndex(raw string) error {
	i, err := strconv.Atoi(raw)
	if err != nil {
		return errBadIndex
	}
	if n := len(s.app.Tips.State().Tips); n < 2 || i < 0 || i >= n {
		return errBadIndex
	}
	s.app.Tips.Select(i)
	return nil
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.app.Snapshot())
}

type subscribeRequest struct {
	Email string `json:"email"`
}

type subscribeResponse struct {
	Subscribed bool   `json:"subscribed"`
	Error      string `json:"error,omitempty"`
	Status     string `json:"status"`
	Total      int    `json:"total"`
}

func (s *Server) handleSubscribeAPI(w http.ResponseWriter, r *http.Request) {
	var req subscribeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4096)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, subscribeResponse{Error: "invalid json"})
		return
	}
	err := s.app.Ledger.Submit(req.Email)
	resp := subscribeResponse{
		Subscribed: err == nil,
		Status:     s.app.Ledger.Status(),
		Total:      s.app.Ledger.Len(),
	}
	code := http.StatusCreated
	switch {
	case errors.Is(err, subscription.ErrInvalidFormat):
		code = http.StatusUnprocessableEntity
		resp.Error = "invalid_format"
	case errors.Is(err, subscription.ErrDuplicate):
		code = http.StatusConflict
		resp.Error = "duplicate"
	case err != nil:
		code = http.StatusServiceUnavailable
		resp.Error = err.Error()
	}
	writeJSON(w, code, resp)
}

func (s *Server) handleSelectAPI(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Index *int `json:"index"`
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1024)).Decode(&req); err != nil || req.Index == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "index is required"})
		return
	}
	if err := s.selectIndex(strconv.Itoa(*req.Index)); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, s.app.Snapshot())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	snap := s.app.Snapshot()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":       "healthy",
		"loading":      snap.Loading,
		"tips":         len(snap.Tips),
		"subscribers":  len(snap.Emails),
		"live_clients": s.hub.clientCount(),
	})
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
