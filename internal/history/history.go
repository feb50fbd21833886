// internal/history/history.go
//
// SQLite-backed record of games played through the server.
// A row is inserted when a game starts and completed when it finishes;
// the target is only written once the game is over.

package history

import (
	"context"
	"database/sql"
	"time"

	"github.com/robalobadob/guessing-game/internal/game"
)

// Game modes recorded in the mode column.
const (
	ModeClassic = "classic"
	ModeDaily   = "daily"
)

// timeLayout sorts lexically, unlike RFC3339Nano.
const timeLayout = "2006-01-02T15:04:05.000000Z07:00"

// Row is one game as returned by Recent.
type Row struct {
	ID          string `json:"id"`
	Mode        string `json:"mode"`
	Status      string `json:"status"`
	Attempts    int    `json:"attempts"`
	MaxAttempts int    `json:"maxAttempts"`
	Target      uint32 `json:"target,omitempty"`
	StartedAt   string `json:"startedAt"`
	FinishedAt  string `json:"finishedAt,omitempty"`
}

// Stats summarises a player's finished games.
type Stats struct {
	Played       int `json:"played"`
	Wins         int `json:"wins"`
	BestAttempts int `json:"bestAttempts,omitempty"`
	Streak       int `json:"streak"`
}

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// Start records a new game for g.Owner. An empty g.Mode is stored as classic.
func (s *Store) Start(ctx context.Context, g *game.Game) error {
	mode := g.Mode
	if mode == "" {
		mode = ModeClassic
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO games (id, player_id, mode, max_attempts, attempts, status, started_at)
		 VALUES (?,?,?,?,0,?,?)`,
		g.ID, g.Owner, mode, g.MaxAttempts, game.StatePlaying, g.StartedAt.Format(timeLayout),
	)
	return err
}

// Progress stores the attempt count of a game still in play,
// or the final state, target and finish time once it is over.
// Snapshots older than the stored row (fewer attempts, or any snapshot of a
// finished game still in play) are ignored, so out-of-order writes never go back.
func (s *Store) Progress(ctx context.Context, g *game.Game) error {
	if !g.Finished {
		_, err := s.db.ExecContext(ctx,
			`UPDATE games SET attempts=? WHERE id=? AND attempts<? AND status='playing'`,
			g.Attempts, g.ID, g.Attempts)
		return err
	}
	_, err := s.db.ExecContext(ctx,
		`UPDATE games SET attempts=?, status=?, target=?, finished_at=?
		 WHERE id=? AND attempts<=? AND status='playing'`,
		g.Attempts, g.State(), g.Target, time.Now().UTC().Format(timeLayout), g.ID, g.Attempts,
	)
	return err
}

// Recent lists the player's latest games, newest first.
func (s *Store) Recent(ctx context.Context, playerID string, limit int) ([]Row, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, mode, status, attempts, max_attempts, COALESCE(target, 0), started_at, COALESCE(finished_at, '')
		 FROM games WHERE player_id=? ORDER BY started_at DESC, rowid DESC LIMIT ?`, playerID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Row{}
	for rows.Next() {
		var r Row
		if err := rows.Scan(&r.ID, &r.Mode, &r.Status, &r.Attempts, &r.MaxAttempts, &r.Target, &r.StartedAt, &r.FinishedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Stats computes totals over the player's finished games.
// Streak counts consecutive wins ending at the most recent finished game.
func (s *Store) Stats(ctx context.Context, playerID string) (Stats, error) {
	var st Stats
	var best sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1),
		        COALESCE(SUM(CASE WHEN status='won' THEN 1 ELSE 0 END), 0),
		        MIN(CASE WHEN status='won' THEN attempts END)
		 FROM games WHERE player_id=? AND status != 'playing'`, playerID,
	).Scan(&st.Played, &st.Wins, &best)
	if err != nil {
		return Stats{}, err
	}
	if best.Valid {
		st.BestAttempts = int(best.Int64)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT status FROM games WHERE player_id=? AND status != 'playing'
		 ORDER BY finished_at DESC, rowid DESC`, playerID)
	if err != nil {
		return Stats{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		if err := rows.Scan(&status); err != nil {
			return Stats{}, err
		}
		if status != game.StateWon {
			break
		}
		st.Streak++
	}
	return st, rows.Err()
}
