// Package web exposes the review API consumed by the mobile client: decks,
// due cards, review outcomes, sync, and study statistics. Timers run on the
// client; this server owns scheduling state only.
package web

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/studykit/studykit/internal/config"
	"github.com/studykit/studykit/internal/domain"
	"github.com/studykit/studykit/internal/srs"
	"github.com/studykit/studykit/internal/storage"
	"github.com/studykit/studykit/internal/syncer"
)

// Server holds the dependencies for the HTTP API.
type Server struct {
	db     *storage.DB
	cfg    config.Config
	router *http.ServeMux
	now    func() time.Time
}

// NewServer creates and configures a server.
func NewServer(db *storage.DB, cfg config.Config) *Server {
	s := &Server{
		db:     db,
		cfg:    cfg,
		router: http.NewServeMux(),
		now:    time.Now,
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.HandleFunc("GET /decks", s.handleListDecks())
	s.router.HandleFunc("GET /decks/{id}/cards", s.handleListCards())
	s.router.HandleFunc("GET /decks/{id}/progress", s.handleDeckProgress())
	s.router.HandleFunc("POST /cards/{id}/review", s.handleReview())
	s.router.HandleFunc("POST /sync", s.handleSync())
	s.router.HandleFunc("GET /stats", s.handleStats())
}

type deckSummary struct {
	domain.Deck
	Progress domain.Progress `json:"progress"`
	Due      int             `json:"due"`
}

// handleListDecks returns every deck with its progress and due count.
func (s *Server) handleListDecks() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		decks, err := s.db.ListDecks(r.Context())
		if err != nil {
			s.internalError(w, "list decks", err)
			return
		}
		out := make([]deckSummary, 0, len(decks))
		for _, deck := range decks {
			cards, err := s.db.ListCards(r.Context(), deck.ID)
			if err != nil {
				s.internalError(w, "list cards", err)
				return
			}
			out = append(out, deckSummary{
				Deck:     deck,
				Progress: srs.Progress(cards),
				Due:      len(srs.SelectDue(cards, s.now(), false)),
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// handleListCards returns a deck's cards; with ?due=1 only those due today.
func (s *Server) handleListCards() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deck, ok := s.deckFromPath(w, r)
		if !ok {
			return
		}
		cards, err := s.db.ListCards(r.Context(), deck.ID)
		if err != nil {
			s.internalError(w, "list cards", err)
			return
		}
		if r.URL.Query().Get("due") == "1" {
			cards = srs.SelectDue(cards, s.now(), false)
		}
		if cards == nil {
			cards = []domain.Card{}
		}
		writeJSON(w, http.StatusOK, cards)
	}
}

// handleDeckProgress returns the known/studied/total/percent aggregate.
func (s *Server) handleDeckProgress() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deck, ok := s.deckFromPath(w, r)
		if !ok {
			return
		}
		cards, err := s.db.ListCards(r.Context(), deck.ID)
		if err != nil {
			s.internalError(w, "list cards", err)
			return
		}
		writeJSON(w, http.StatusOK, srs.Progress(cards))
	}
}

// handleReview applies a review outcome to a card and returns its new
// scheduling record.
func (s *Server) handleReview() http.HandlerFunc {
	type reviewRequest struct {
		Correct bool `json:"correct"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		card, err := s.db.FindCard(r.Context(), id)
		if err != nil {
			s.internalError(w, "find card", err)
			return
		}
		if card == nil {
			http.Error(w, "card not found", http.StatusNotFound)
			return
		}

		var req reviewRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		updated := srs.ApplyReview(*card, req.Correct, s.now())
		if err := s.db.UpdateCardSchedule(r.Context(), updated); err != nil {
			s.internalError(w, "update card", err)
			return
		}
		writeJSON(w, http.StatusOK, updated)
	}
}

// handleSync reconciles every source in the foreground.
func (s *Server) handleSync() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := syncer.Run(r.Context(), s.db, s.cfg.Repos); err != nil {
			s.internalError(w, "sync", err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// handleStats returns per-day study aggregates, default the last 30 days.
func (s *Server) handleStats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		days := 30
		if v := r.URL.Query().Get("days"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 {
				http.Error(w, "invalid days", http.StatusBadRequest)
				return
			}
			days = n
		}
		stats, err := s.db.DailyStats(r.Context(), days)
		if err != nil {
			s.internalError(w, "daily stats", err)
			return
		}
		if stats == nil {
			stats = []domain.DayStats{}
		}
		writeJSON(w, http.StatusOK, stats)
	}
}

func (s *Server) deckFromPath(w http.ResponseWriter, r *http.Request) (domain.Deck, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid deck ID", http.StatusBadRequest)
		return domain.Deck{}, false
	}
	deck, err := s.db.FindDeck(r.Context(), id)
	if err != nil {
		s.internalError(w, "find deck", err)
		return domain.Deck{}, false
	}
	if deck == nil {
		http.Error(w, "deck not found", http.StatusNotFound)
		return domain.Deck{}, false
	}
	return *deck, true
}

func (s *Server) internalError(w http.ResponseWriter, op string, err error) {
	slog.Error("request failed", "op", op, "error", err)
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
