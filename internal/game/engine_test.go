package game

import (
	"errors"
	"testing"
)

func mustNew(t *testing.T, target uint32, maxAttempts int) *Game {
	t.Helper()
	g, err := New(target, maxAttempts)
	if err != nil {
		t.Fatalf("New(%d, %d): %v", target, maxAttempts, err)
	}
	return g
}

func TestNewRandomTargetInRange(t *testing.T) {
	for i := 0; i < 500; i++ {
		g := mustNew(t, 0, DefaultMaxAttempts)
		if g.Target < MinTarget || g.Target > MaxTarget {
			t.Fatalf("target %d outside [%d, %d]", g.Target, MinTarget, MaxTarget)
		}
		if g.ID == "" {
			t.Fatal("expected a game ID")
		}
	}
}

func TestNewRejectsBadArguments(t *testing.T) {
	if _, err := New(101, DefaultMaxAttempts); !errors.Is(err, ErrTargetOutOfRange) {
		t.Errorf("target 101: got %v, want ErrTargetOutOfRange", err)
	}
	if _, err := New(50, -1); !errors.Is(err, ErrInvalidCap) {
		t.Errorf("cap -1: got %v, want ErrInvalidCap", err)
	}
}

func TestParseGuess(t *testing.T) {
	tests := []struct {
		in      string
		want    uint32
		wantErr bool
	}{
		{"42", 42, false},
		{"  7 \n", 7, false},
		{"42\r\n", 42, false},
		{"+5", 5, false},
		{"0", 0, false},
		{"4294967295", 4294967295, false},
		{"4294967296", 0, true},
		{"-3", 0, true},
		{"abc", 0, true},
		{"", 0, true},
		{"\n", 0, true},
		{"1 2", 0, true},
		{"++5", 0, true},
		{"3.5", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseGuess(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrNotANumber) {
				t.Errorf("ParseGuess(%q): got err %v, want ErrNotANumber", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseGuess(%q) = %d, %v; want %d", tt.in, got, err, tt.want)
		}
	}
}

func TestApplyGuessVerdicts(t *testing.T) {
	for g := uint32(1); g <= 100; g++ {
		game := mustNew(t, 50, 0)
		v, state, err := game.ApplyGuess(g)
		if err != nil {
			t.Fatal(err)
		}
		switch {
		case g < 50:
			if v != VerdictTooSmall || state != StatePlaying || game.Finished {
				t.Errorf("guess %d: got %s/%s, want too_small/playing", g, v, state)
			}
		case g > 50:
			if v != VerdictTooBig || state != StatePlaying || game.Finished {
				t.Errorf("guess %d: got %s/%s, want too_big/playing", g, v, state)
			}
		default:
			if v != VerdictCorrect || state != StateWon || !game.Won {
				t.Errorf("guess %d: got %s/%s, want correct/won", g, v, state)
			}
		}
		if game.Attempts != 1 {
			t.Errorf("guess %d: attempts = %d, want 1", g, game.Attempts)
		}
	}
}

func TestWinCountsAttempts(t *testing.T) {
	g := mustNew(t, 50, DefaultMaxAttempts)
	for _, in := range []string{"10", "90", "abc", "50"} {
		_, _, _, err := g.Submit(in)
		if err != nil && !errors.Is(err, ErrNotANumber) {
			t.Fatalf("Submit(%q): %v", in, err)
		}
	}
	o, ok := g.Outcome()
	if !ok || !o.Won || o.Attempts != 3 || o.Target != 50 {
		t.Fatalf("outcome = %+v (ok=%v), want won in 3", o, ok)
	}
	if len(g.Guesses) != 3 {
		t.Errorf("recorded %d guesses, want 3", len(g.Guesses))
	}
}

func TestNotANumberDoesNotConsumeAttempt(t *testing.T) {
	g := mustNew(t, 50, 1)
	if _, _, state, err := g.Submit("nope"); !errors.Is(err, ErrNotANumber) || state != StatePlaying {
		t.Fatalf("got %v/%s, want ErrNotANumber/playing", err, state)
	}
	if g.Attempts != 0 || g.Remaining() != 1 {
		t.Fatalf("attempts=%d remaining=%d, want 0/1", g.Attempts, g.Remaining())
	}
}

func TestCapEndsInLoss(t *testing.T) {
	g := mustNew(t, 50, DefaultMaxAttempts)
	for i := 1; i <= DefaultMaxAttempts; i++ {
		_, state, err := g.ApplyGuess(1)
		if err != nil {
			t.Fatal(err)
		}
		if i < DefaultMaxAttempts && state != StatePlaying {
			t.Fatalf("attempt %d: state %s, want playing", i, state)
		}
	}
	if g.State() != StateLost || g.Remaining() != 0 {
		t.Fatalf("state=%s remaining=%d, want lost/0", g.State(), g.Remaining())
	}
	o, ok := g.Outcome()
	if !ok || o.Won || o.Target != 50 || o.Attempts != DefaultMaxAttempts {
		t.Fatalf("outcome = %+v", o)
	}
	if _, _, err := g.ApplyGuess(50); !errors.Is(err, ErrGameFinished) {
		t.Fatalf("guess after loss: got %v, want ErrGameFinished", err)
	}
	if g.Attempts != DefaultMaxAttempts {
		t.Fatalf("attempts changed after finish: %d", g.Attempts)
	}
}

func TestWinOnLastAttempt(t *testing.T) {
	g := mustNew(t, 50, 2)
	g.ApplyGuess(1)
	if _, state, _ := g.ApplyGuess(50); state != StateWon {
		t.Fatalf("state %s, want won", state)
	}
}

func TestUncappedNeverLoses(t *testing.T) {
	g := mustNew(t, 50, 0)
	for i := 0; i < 100; i++ {
		g.ApplyGuess(99)
	}
	if g.Finished || g.Remaining() != -1 {
		t.Fatalf("finished=%v remaining=%d, want playing/-1", g.Finished, g.Remaining())
	}
	if _, ok := g.Outcome(); ok {
		t.Fatal("outcome reported for a game in play")
	}
}
