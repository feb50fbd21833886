// internal/console/loop.go
//
// Interactive guessing loop for one console session.
// Responsibilities:
//   - Prompt for a guess and read one line at a time.
//   - Re-prompt on input that is not a number (no attempt consumed).
//   - Print the verdict for every parsed guess.
//   - Print the final outcome (attempt count on a win, target on a loss).
//
// Read failures, including end of input, end the session immediately with a *ReadError.
// All dialogue goes to the supplied writer; diagnostics go to the logger.

package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/guessing-game/internal/game"
)

// Dialogue lines, shared with tests.
const (
	MsgIntro      = "Guess the number!"
	MsgPrompt     = "Please input your guess: "
	MsgNotANumber = "Please type a number!"
	MsgTooSmall   = "Too small!"
	MsgTooBig     = "Too big!"
	MsgWin        = "You win!"
	MsgLose       = "You lose!"
)

// ReadError reports that the input stream could not be read.
type ReadError struct {
	Err error
}

func (e *ReadError) Error() string { return "read guess: " + e.Err.Error() }
func (e *ReadError) Unwrap() error { return e.Err }

// Play runs g to completion, reading guesses from in and writing the dialogue to out.
// It returns the session outcome, or a *ReadError if in fails before the game ends.
func Play(in io.Reader, out io.Writer, g *game.Game) (game.Outcome, error) {
	r := bufio.NewReader(in)
	l := log.With().Str("gameId", g.ID).Logger()
	l.Debug().Int("maxAttempts", g.MaxAttempts).Msg("session started")

	fmt.Fprintln(out, MsgIntro)
	for !g.Finished {
		fmt.Fprint(out, MsgPrompt)

		line, err := r.ReadString('\n')
		// A last line without a newline is still a guess.
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			l.Warn().Err(err).Int("attempts", g.Attempts).Msg("read failed, ending session")
			fmt.Fprintln(out)
			return game.Outcome{}, &ReadError{Err: err}
		}

		n, v, _, err := g.Submit(line)
		if errors.Is(err, game.ErrNotANumber) {
			l.Debug().Str("input", line).Msg("rejected guess")
			fmt.Fprintln(out, MsgNotANumber)
			continue
		}
		if err != nil {
			return game.Outcome{}, err
		}

		fmt.Fprintf(out, "You guessed: %d\n", n)
		l.Debug().Uint32("guess", n).Str("verdict", string(v)).Int("attempts", g.Attempts).Msg("guess applied")
		switch v {
		case game.VerdictTooSmall:
			fmt.Fprintln(out, MsgTooSmall)
		case game.VerdictTooBig:
			fmt.Fprintln(out, MsgTooBig)
		}
	}

	o, _ := g.Outcome()
	if o.Won {
		fmt.Fprintf(out, "You took %d guesses to find the secret number %d!\n", o.Attempts, o.Target)
		fmt.Fprintln(out, MsgWin)
	} else {
		fmt.Fprintf(out, "The secret number was: %d\n", o.Target)
		fmt.Fprintln(out, MsgLose)
	}
	l.Info().Bool("won", o.Won).Int("attempts", o.Attempts).Msg("session finished")
	return o, nil
}
