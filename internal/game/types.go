// internal/game/types.go
//
// Core type definitions for the guessing engine.
// Defines:
//   - Verdict: result of comparing one guess with the target.
//   - Game:    state for a single in-progress or finished session.
//   - Outcome: terminal result of a finished session.

package game

import "time"

// Verdict is the evaluation of a single parsed guess.
// Possible values:
//   - "too_small": guess is below the target.
//   - "too_big":   guess is above the target.
//   - "correct":   guess equals the target (session won).
type Verdict string

const (
	VerdictTooSmall Verdict = "too_small"
	VerdictTooBig   Verdict = "too_big"
	VerdictCorrect  Verdict = "correct"
)

// Coarse session states, as reported by Game.State.
const (
	StatePlaying = "playing"
	StateWon     = "won"
	StateLost    = "lost"
)

// Game holds the state of a single guessing session.
type Game struct {
	ID          string    // Unique game identifier (UUID).
	Target      uint32    // The secret number; never changes after New.
	MaxAttempts int       // Attempt cap; 0 means uncapped.
	Attempts    int       // Successfully parsed guesses so far.
	Guesses     []uint32  // Parsed guesses in submission order.
	Finished    bool      // True once the game is over (won or lost).
	Won         bool      // True if the game was finished with a win.
	StartedAt   time.Time // Creation time (UTC).

	// Set by the play server; empty for console sessions.
	Owner string // Player ID that started the game.
	Mode  string // "classic" or "daily".
}

// Outcome is the terminal result of a session.
// Won reports Won(Attempts); otherwise the session is Lost(Target).
type Outcome struct {
	Won      bool   `json:"won"`
	Attempts int    `json:"attempts"`
	Target   uint32 `json:"target"`
}
