// internal/httpserver/server.go
//
// HTTP server wiring for the guessing game.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health", "/metrics".
//   - Game endpoints: POST /game/new, POST /game/guess, GET /game/{id}.
//   - Player history: GET /games/mine, GET /stats/me.
//   - Daily Challenge endpoints: mounted under /daily.
//
// Notes:
//   - Every game/daily/history route runs behind withPlayer, which guarantees an
//     anonymous player identity (JWT cookie or bearer token).
//   - Active games live in the Store; history rows in SQLite are best effort.
//   - The target is never sent to the client before the game is over.

package httpserver

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/guessing-game/internal/config"
	"github.com/robalobadob/guessing-game/internal/game"
	"github.com/robalobadob/guessing-game/internal/history"
	"github.com/robalobadob/guessing-game/internal/metrics"
	"github.com/robalobadob/guessing-game/internal/store"
)

// Server bundles router, game store, history and configuration.
type Server struct {
	r       *chi.Mux
	cfg     *config.Config
	store   store.Store
	db      *sql.DB
	history *history.Store
	metrics *metrics.Metrics
	now     func() time.Time

	mu sync.Mutex // serializes guesses so a game is never mutated concurrently
}

// New constructs a Server, installs middleware, and registers routes.
func New(st store.Store, db *sql.DB, cfg *config.Config) *Server {
	s := &Server{
		r:       chi.NewRouter(),
		cfg:     cfg,
		store:   st,
		db:      db,
		history: history.NewStore(db),
		metrics: metrics.New(),
		now:     time.Now,
	}

	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(chimw.Recoverer)
	s.r.Use(chimw.Timeout(10 * time.Second))
	s.r.Use(requestLogger)
	s.r.Use(jsonContentType)
	s.r.Use(s.cors)

	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"service":   "guessing-go",
			"endpoints": []string{"/health", "/metrics", "POST /game/new", "POST /game/guess", "/daily/*"},
		})
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
	s.r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	s.r.Group(func(r chi.Router) {
		r.Use(s.withPlayer)
		r.Post("/game/new", s.handleNewGame)
		r.Post("/game/guess", s.handleGuess)
		r.Get("/game/{id}", s.handleGetGame)
		r.Get("/games/mine", s.handleMyGames)
		r.Get("/stats/me", s.handleMyStats)
		s.mountDaily(r)
	})

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})
	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return srv.ListenAndServe()
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for the configured client origin.
func (s *Server) cors(next http.Handler) http.Handler {
	origin := s.cfg.ClientOrigin
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requestLogger logs one line per request at debug level.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		log.Debug().
			Str("requestId", chimw.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("took", time.Since(start)).
			Msg("request")
	})
}

// ------------------------------ GAME ---------------------------------------

// newGameReq/Res payloads for POST /game/new.
type newGameReq struct {
	Target      uint32 `json:"target"`      // optional fixed target (ALLOW_FIXED_TARGET only)
	MaxAttempts *int   `json:"maxAttempts"` // nil → default cap, 0 → uncapped
}
type newGameRes struct {
	GameID      string `json:"gameId"`
	Min         uint32 `json:"min"`
	Max         uint32 `json:"max"`
	MaxAttempts int    `json:"maxAttempts"`
}

// handleNewGame creates a new game for the calling player and records it in history.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	_ = json.NewDecoder(r.Body).Decode(&req)

	if req.Target != 0 && !s.cfg.AllowFixedTarget {
		writeError(w, http.StatusBadRequest, "fixed_target_disabled")
		return
	}
	maxAttempts := game.DefaultMaxAttempts
	if req.MaxAttempts != nil {
		maxAttempts = *req.MaxAttempts
	}

	g, err := game.New(req.Target, maxAttempts)
	switch {
	case errors.Is(err, game.ErrTargetOutOfRange), errors.Is(err, game.ErrInvalidCap):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		log.Error().Err(err).Msg("new game")
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	g.Owner = playerID(r)
	g.Mode = history.ModeClassic
	if err := s.startGame(r, g); err != nil {
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}

	writeJSON(w, http.StatusOK, newGameRes{
		GameID:      g.ID,
		Min:         game.MinTarget,
		Max:         game.MaxTarget,
		MaxAttempts: g.MaxAttempts,
	})
}

// startGame stores g, records it in history (best effort) and counts it.
// StartedAt is taken from the server clock so elapsed times share one source.
func (s *Server) startGame(r *http.Request, g *game.Game) error {
	g.StartedAt = s.now().UTC()
	if err := s.store.Save(r.Context(), g); err != nil {
		log.Error().Err(err).Str("gameId", g.ID).Msg("save game")
		return err
	}
	if err := s.history.Start(r.Context(), g); err != nil {
		log.Warn().Err(err).Str("gameId", g.ID).Msg("insert game row")
	}
	s.metrics.GameStarted(g.Mode)
	log.Info().Str("gameId", g.ID).Str("player", g.Owner).Str("mode", g.Mode).Msg("game started")
	return nil
}

// guessReq/Res payloads for POST /game/guess.
type guessReq struct {
	GameID string `json:"gameId"`
	Guess  string `json:"guess"` // raw text, parsed like console input
}
type guessRes struct {
	Guess     uint32       `json:"guess"`
	Verdict   game.Verdict `json:"verdict"`
	State     string       `json:"state"`
	Attempts  int          `json:"attempts"`
	Remaining int          `json:"remaining"` // -1 when uncapped
	Target    *uint32      `json:"target,omitempty"`
}

// handleGuess applies a guess to one of the caller's games.
// Daily games are played through /daily/guess only, which records the result.
func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	g, ok := s.ownedGame(w, r, req.GameID)
	if !ok {
		return
	}
	if g.Mode == history.ModeDaily {
		writeError(w, http.StatusConflict, "use_daily_route")
		return
	}
	res, ok := s.submit(w, r, g, req.Guess)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// submit applies raw to g and writes an error response on failure.
// Parse failures answer 422 without consuming an attempt.
func (s *Server) submit(w http.ResponseWriter, r *http.Request, g *game.Game, raw string) (guessRes, bool) {
	s.mu.Lock()
	n, v, state, err := g.Submit(raw)
	snap := *g
	s.mu.Unlock()

	switch {
	case errors.Is(err, game.ErrNotANumber):
		s.metrics.InvalidGuess()
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"error": "not_a_number", "attempts": snap.Attempts})
		return guessRes{}, false
	case errors.Is(err, game.ErrGameFinished):
		writeJSON(w, http.StatusConflict, map[string]string{"error": "game_finished", "state": state})
		return guessRes{}, false
	case err != nil:
		writeError(w, http.StatusBadRequest, err.Error())
		return guessRes{}, false
	}

	if err := s.store.Save(r.Context(), g); err != nil {
		writeError(w, http.StatusInternalServerError, "save_failed")
		return guessRes{}, false
	}
	if err := s.history.Progress(r.Context(), &snap); err != nil {
		log.Warn().Err(err).Str("gameId", snap.ID).Msg("update game row")
	}
	s.metrics.Guess(snap.Mode, v, state)

	res := guessRes{
		Guess:     n,
		Verdict:   v,
		State:     state,
		Attempts:  snap.Attempts,
		Remaining: snap.Remaining(),
	}
	if snap.Finished {
		t := snap.Target
		res.Target = &t
		log.Info().Str("gameId", snap.ID).Str("state", state).Int("attempts", snap.Attempts).Msg("game finished")
	}
	return res, true
}

// gameView is the GET /game/{id} payload.
type gameView struct {
	GameID      string   `json:"gameId"`
	Mode        string   `json:"mode"`
	State       string   `json:"state"`
	Attempts    int      `json:"attempts"`
	MaxAttempts int      `json:"maxAttempts"`
	Remaining   int      `json:"remaining"`
	Guesses     []uint32 `json:"guesses"`
	Target      *uint32  `json:"target,omitempty"`
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	g, ok := s.ownedGame(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	s.mu.Lock()
	v := gameView{
		GameID:      g.ID,
		Mode:        g.Mode,
		State:       g.State(),
		Attempts:    g.Attempts,
		MaxAttempts: g.MaxAttempts,
		Remaining:   g.Remaining(),
		Guesses:     append([]uint32{}, g.Guesses...),
	}
	if g.Finished {
		t := g.Target
		v.Target = &t
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, v)
}

// ownedGame loads id and checks that the caller started it.
func (s *Server) ownedGame(w http.ResponseWriter, r *http.Request, id string) (*game.Game, bool) {
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing_game_id")
		return nil, false
	}
	g, err := s.store.Get(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found")
		return nil, false
	}
	if g.Owner != playerID(r) {
		writeError(w, http.StatusForbidden, "not_your_game")
		return nil, false
	}
	return g, true
}

// ----------------------------- HISTORY -------------------------------------

func (s *Server) handleMyGames(w http.ResponseWriter, r *http.Request) {
	rows, err := s.history.Recent(r.Context(), playerID(r), 50)
	if err != nil {
		log.Error().Err(err).Msg("list games")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleMyStats(w http.ResponseWriter, r *http.Request) {
	st, err := s.history.Stats(r.Context(), playerID(r))
	if err != nil {
		log.Error().Err(err).Msg("player stats")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// ------------------------------- small util --------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("encode response")
	}
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}
