// Package web serves the browser UI: embedded static assets, JSON
// endpoints for search and deck mutations, and a WebSocket channel that
// pushes a fresh deck snapshot after every change.
package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"log"
	"net/http"
	"sync"

	"github.com/coder/websocket"

	"github.com/peterkuimelis/counterspell/internal/deck"
	"github.com/peterkuimelis/counterspell/internal/search"
)

//go:embed static
var staticFiles embed.FS

// Server is the Counter Spell web UI server.
type Server struct {
	orchestrator *search.Orchestrator
	store        *deck.Store
	mux          *http.ServeMux

	mu       sync.Mutex
	watchers map[chan struct{}]struct{}
}

// NewServer wires the orchestrator and deck store into an HTTP handler.
func NewServer(orchestrator *search.Orchestrator, store *deck.Store) *Server {
	s := &Server{
		orchestrator: orchestrator,
		store:        store,
		mux:          http.NewServeMux(),
		watchers:     make(map[chan struct{}]struct{}),
	}
	store.Subscribe(s.broadcast)
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	staticFS, _ := fs.Sub(staticFiles, "static")

	// Serve index.html at root
	s.mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		f, err := staticFS.Open("index.html")
		if err != nil {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		defer f.Close()
		io.Copy(w, f)
	})

	// Static CSS/JS
	s.mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	// API endpoints
	s.mux.HandleFunc("GET /api/search", s.handleSearch)
	s.mux.HandleFunc("GET /api/deck", s.handleDeck)
	s.mux.HandleFunc("POST /api/deck/commander", s.handleAddCommander)
	s.mux.HandleFunc("POST /api/deck/cards", s.handleAddCard)
	s.mux.HandleFunc("DELETE /api/deck/cards/{zone}/{id}", s.handleRemoveCard)
	s.mux.HandleFunc("POST /api/deck/name", s.handleRename)
	s.mux.HandleFunc("POST /api/deck/clear", s.handleClear)

	// Deck update push channel
	s.mux.HandleFunc("GET /ws", s.handleWebSocket)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	page, err := s.orchestrator.Search(r.Context(), query)
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, search.ErrEmptyQuery) {
			status = http.StatusBadRequest
		}
		writeError(w, status, search.UserMessage(err))
		return
	}
	writeJSON(w, page)
}

func (s *Server) handleDeck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.store.Snapshot())
}

func (s *Server) handleAddCommander(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CardID string `json:"card_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	card, ok := s.orchestrator.CardByID(req.CardID)
	if !ok {
		writeError(w, http.StatusNotFound, "card not found in any search result")
		return
	}

	if err := s.store.AddToCommander(card); err != nil {
		if errors.Is(err, deck.ErrCommanderFull) {
			writeError(w, http.StatusConflict,
				"You already have two commanders. Please remove an existing commander before adding a new one.")
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, s.store.Snapshot())
}

func (s *Server) handleAddCard(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Zone     string `json:"zone"`
		CardID   string `json:"card_id"`
		Quantity int    `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	zone, err := deck.ParseZone(req.Zone)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	card, ok := s.orchestrator.CardByID(req.CardID)
	if !ok {
		writeError(w, http.StatusNotFound, "card not found in any search result")
		return
	}

	if err := s.store.AddToZone(zone, card, req.Quantity); err != nil {
		switch {
		case errors.Is(err, deck.ErrInvalidQuantity):
			writeError(w, http.StatusBadRequest, "Quantity must be a whole number of at least 1")
		case errors.Is(err, deck.ErrWrongZone):
			writeError(w, http.StatusBadRequest, "use /api/deck/commander to add a commander")
		default:
			writeError(w, http.StatusBadRequest, err.Error())
		}
		return
	}
	writeJSON(w, s.store.Snapshot())
}

func (s *Server) handleRemoveCard(w http.ResponseWriter, r *http.Request) {
	zone, err := deck.ParseZone(r.PathValue("zone"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	// Removing an absent id is a silent no-op.
	s.store.RemoveFromZone(zone, r.PathValue("id"))
	writeJSON(w, s.store.Snapshot())
}

func (s *Server) handleRename(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.store.SetName(req.Name)
	writeJSON(w, s.store.Snapshot())
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	s.store.Clear()
	writeJSON(w, s.store.Snapshot())
}

// handleWebSocket pushes the deck snapshot to the browser after every
// mutation, replacing polling as the re-render signal.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	wsConn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // Allow connections from any origin
	})
	if err != nil {
		log.Printf("WebSocket accept error: %v", err)
		return
	}
	defer wsConn.CloseNow()

	ctx := r.Context()
	updates := s.watch()
	defer s.unwatch(updates)

	// Initial snapshot so the page renders the current deck immediately.
	if err := s.writeSnapshot(ctx, wsConn); err != nil {
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-updates:
			if err := s.writeSnapshot(ctx, wsConn); err != nil {
				return
			}
		}
	}
}

func (s *Server) writeSnapshot(ctx context.Context, conn *websocket.Conn) error {
	data, err := json.Marshal(s.store.Snapshot())
	if err != nil {
		return err
	}
	return conn.Write(ctx, websocket.MessageText, data)
}

// watch registers a deck-update channel for one WebSocket connection.
func (s *Server) watch() chan struct{} {
	ch := make(chan struct{}, 1)
	s.mu.Lock()
	s.watchers[ch] = struct{}{}
	s.mu.Unlock()
	return ch
}

func (s *Server) unwatch(ch chan struct{}) {
	s.mu.Lock()
	delete(s.watchers, ch)
	s.mu.Unlock()
}

// broadcast wakes every watcher; a full channel already has a pending
// wake-up, so updates coalesce rather than queue.
func (s *Server) broadcast() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for ch := range s.watchers {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Handler exposes the mux, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s.mux)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
