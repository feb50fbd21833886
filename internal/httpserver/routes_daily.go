// internal/httpserver/routes_daily.go
//
// HTTP routes for the "Daily Challenge" mode.
// Exposes three endpoints under /daily:
//   - POST /daily/new         → start today's game (creates or reuses session)
//   - POST /daily/guess       → submit a guess for today's game
//   - GET  /daily/leaderboard → top 20 results for today (or ?date=YYYY-MM-DD)
//
// Every player gets the same target per UTC day (HMAC of date + salt) and may
// finish it once; the result is persisted when the game ends, win or loss.

package httpserver

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/guessing-game/internal/daily"
	"github.com/robalobadob/guessing-game/internal/game"
	"github.com/robalobadob/guessing-game/internal/history"
)

// dailyServer wraps dependencies for /daily endpoints.
type dailyServer struct {
	srv      *Server
	store    *daily.Store
	sessions map[string]string // playerID|date → game ID
	dates    map[string]string // game ID → date it was started for
	mu       sync.Mutex        // guards sessions and dates
}

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	dd := &dailyServer{
		srv:      s,
		store:    daily.NewStore(s.db),
		sessions: make(map[string]string),
		dates:    make(map[string]string),
	}
	r.Route("/daily", func(r chi.Router) {
		r.Post("/new", dd.handleNew)
		r.Post("/guess", dd.handleGuess)
		r.Get("/leaderboard", dd.handleLeaderboard)
	})
}

// today returns the current date key and target.
func (d *dailyServer) today() (string, uint32) {
	now := d.srv.now()
	return daily.DateKey(now), daily.Target(now, d.srv.cfg.DailySalt)
}

// -----------------------------------------------------------------------------
// /daily/new

type dailyNewRes struct {
	GameID      string `json:"gameId"`
	Date        string `json:"date"`
	Played      bool   `json:"played"`
	MaxAttempts int    `json:"maxAttempts,omitempty"`
}

// handleNew creates or reuses today's session for the caller.
// A player with a stored result for today gets Played=true and no game.
func (d *dailyServer) handleNew(w http.ResponseWriter, r *http.Request) {
	pid := playerID(r)
	date, target := d.today()

	played, err := d.store.AlreadyPlayed(r.Context(), pid, date)
	if err != nil {
		log.Warn().Err(err).Str("player", pid).Msg("daily already played")
	}
	if played {
		writeJSON(w, http.StatusOK, dailyNewRes{Date: date, Played: true})
		return
	}

	key := pid + "|" + date
	d.mu.Lock()
	defer d.mu.Unlock()
	if id, ok := d.sessions[key]; ok {
		if g, err := d.srv.store.Get(r.Context(), id); err == nil {
			writeJSON(w, http.StatusOK, dailyNewRes{GameID: g.ID, Date: date, MaxAttempts: g.MaxAttempts})
			return
		}
	}

	g, err := game.New(target, game.DefaultMaxAttempts)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	g.Owner = pid
	g.Mode = history.ModeDaily
	if err := d.srv.startGame(r, g); err != nil {
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	d.sessions[key] = g.ID
	d.dates[g.ID] = date
	writeJSON(w, http.StatusOK, dailyNewRes{GameID: g.ID, Date: date, MaxAttempts: g.MaxAttempts})
}

// -----------------------------------------------------------------------------
// /daily/guess

// handleGuess applies a guess to one of the caller's daily games.
// The game stays bound to the date it was started for, so a session begun
// before UTC midnight can still be finished and is recorded under that date.
// Once the game ends the result is stored; further guesses answer 409.
func (d *dailyServer) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	pid := playerID(r)

	d.mu.Lock()
	date, ok := d.dates[req.GameID]
	d.mu.Unlock()
	if !ok {
		writeError(w, http.StatusConflict, "no_session")
		return
	}
	g, ok := d.srv.ownedGame(w, r, req.GameID)
	if !ok {
		return
	}
	res, ok := d.srv.submit(w, r, g, req.Guess)
	if !ok {
		return
	}

	if res.State != game.StatePlaying {
		elapsed := d.srv.now().Sub(g.StartedAt)
		err := d.store.InsertResult(r.Context(), daily.Result{
			PlayerID:  pid,
			Date:      date,
			Target:    g.Target,
			Attempts:  res.Attempts,
			Won:       res.State == game.StateWon,
			ElapsedMs: int(elapsed.Milliseconds()),
		})
		if err != nil {
			log.Warn().Err(err).Str("player", pid).Msg("insert daily result")
		}
	}
	writeJSON(w, http.StatusOK, res)
}

// -----------------------------------------------------------------------------
// /daily/leaderboard

type lbRes struct {
	Date string        `json:"date"`
	Top  []daily.LBRow `json:"top"`
}

// handleLeaderboard returns the leaderboard for ?date= (default today).
func (d *dailyServer) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date, _ = d.today()
	}
	rows, err := d.store.Leaderboard(r.Context(), date, 20)
	if err != nil {
		log.Error().Err(err).Str("date", date).Msg("daily leaderboard")
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	writeJSON(w, http.StatusOK, lbRes{Date: date, Top: rows})
}
