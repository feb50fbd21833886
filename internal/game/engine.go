// internal/game/engine.go
//
// Core game engine for a single guessing session.
// Responsibilities:
//   - Create new games with a target in [MinTarget, MaxTarget].
//   - Parse raw guesses (trimmed, unsigned decimal).
//   - Apply guesses, counting attempts and emitting a verdict.
//   - Track state transitions: playing → won/lost.
//
// Notes:
//   - Parse failures never consume an attempt.
//   - A game with MaxAttempts == 0 is uncapped and can only end in a win.
package game

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/robalobadob/guessing-game/internal/secret"
)

const (
	MinTarget          uint32 = 1
	MaxTarget          uint32 = 100
	DefaultMaxAttempts        = 10
)

var (
	ErrNotANumber       = errors.New("not a number")
	ErrGameFinished     = errors.New("game finished")
	ErrTargetOutOfRange = errors.New("target out of range")
	ErrInvalidCap       = errors.New("max attempts must not be negative")
)

// New constructs a new game instance.
// If withTarget is zero, a target is drawn uniformly from [MinTarget, MaxTarget].
func New(withTarget uint32, maxAttempts int) (*Game, error) {
	if maxAttempts < 0 {
		return nil, ErrInvalidCap
	}
	target := withTarget
	if target == 0 {
		n, err := secret.Draw(MinTarget, MaxTarget)
		if err != nil {
			return nil, err
		}
		target = n
	}
	if target < MinTarget || target > MaxTarget {
		return nil, fmt.Errorf("%w: %d not in [%d, %d]", ErrTargetOutOfRange, target, MinTarget, MaxTarget)
	}
	return &Game{
		ID:          uuid.NewString(),
		Target:      target,
		MaxAttempts: maxAttempts,
		Guesses:     []uint32{},
		StartedAt:   time.Now().UTC(),
	}, nil
}

// ParseGuess trims whitespace and parses input as an unsigned 32-bit integer.
// A single leading '+' is accepted. Errors wrap ErrNotANumber.
func ParseGuess(input string) (uint32, error) {
	s := strings.TrimSpace(input)
	s = strings.TrimPrefix(s, "+")
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrNotANumber, strings.TrimSpace(input))
	}
	return uint32(n), nil
}

// ApplyGuess counts one attempt and compares n with the target.
// Returns: the verdict, the new state string ("playing"/"won"/"lost"), or an error.
//
// State transitions:
//   - n == Target → Finished = true, Won = true.
//   - Else if the game is capped and Attempts reaches MaxAttempts → Finished = true (loss).
func (g *Game) ApplyGuess(n uint32) (Verdict, string, error) {
	if g.Finished {
		return "", g.State(), ErrGameFinished
	}
	g.Attempts++
	g.Guesses = append(g.Guesses, n)

	var v Verdict
	switch {
	case n < g.Target:
		v = VerdictTooSmall
	case n > g.Target:
		v = VerdictTooBig
	default:
		v = VerdictCorrect
	}

	if v == VerdictCorrect {
		g.Finished, g.Won = true, true
	} else if g.MaxAttempts > 0 && g.Attempts >= g.MaxAttempts {
		g.Finished = true
	}
	return v, g.State(), nil
}

// Submit parses raw input and applies it.
// A parse failure returns ErrNotANumber and leaves the game untouched.
func (g *Game) Submit(input string) (uint32, Verdict, string, error) {
	if g.Finished {
		return 0, "", g.State(), ErrGameFinished
	}
	n, err := ParseGuess(input)
	if err != nil {
		return 0, "", g.State(), err
	}
	v, state, err := g.ApplyGuess(n)
	return n, v, state, err
}

// State reports a coarse string representation of the current game state.
func (g *Game) State() string {
	if g.Finished {
		if g.Won {
			return StateWon
		}
		return StateLost
	}
	return StatePlaying
}

// Remaining returns the attempts left, or -1 for an uncapped game.
func (g *Game) Remaining() int {
	if g.MaxAttempts == 0 {
		return -1
	}
	if r := g.MaxAttempts - g.Attempts; r > 0 {
		return r
	}
	return 0
}

// Outcome returns the terminal result; ok is false while the game is still playing.
func (g *Game) Outcome() (Outcome, bool) {
	if !g.Finished {
		return Outcome{}, false
	}
	return Outcome{Won: g.Won, Attempts: g.Attempts, Target: g.Target}, true
}
