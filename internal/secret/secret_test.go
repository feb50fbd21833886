package secret

import (
	"errors"
	"testing"
)

func mustDraw(t *testing.T, lo, hi uint32) uint32 {
	t.Helper()
	n, err := Draw(lo, hi)
	if err != nil {
		t.Fatalf("Draw(%d, %d): %v", lo, hi, err)
	}
	return n
}

func TestDrawStaysInRange(t *testing.T) {
	seen := map[uint32]bool{}
	for i := 0; i < 2000; i++ {
		n := mustDraw(t, 1, 10)
		if n < 1 || n > 10 {
			t.Fatalf("Draw(1, 10) = %d", n)
		}
		seen[n] = true
	}
	if len(seen) != 10 {
		t.Errorf("saw %d distinct values in 2000 draws, want all 10", len(seen))
	}
}

func TestDrawSingleValueAndSwappedBounds(t *testing.T) {
	if n := mustDraw(t, 7, 7); n != 7 {
		t.Fatalf("Draw(7, 7) = %d", n)
	}
	for i := 0; i < 100; i++ {
		if n := mustDraw(t, 100, 1); n < 1 || n > 100 {
			t.Fatalf("Draw(100, 1) = %d", n)
		}
	}
}

type brokenReader struct{ err error }

func (b brokenReader) Read([]byte) (int, error) { return 0, b.err }

func TestDrawReportsEntropyFailure(t *testing.T) {
	boom := errors.New("no entropy")
	old := reader
	reader = brokenReader{boom}
	defer func() { reader = old }()

	n, err := Draw(1, 100)
	if !errors.Is(err, boom) {
		t.Fatalf("got %d, %v; want wrapped %v", n, err, boom)
	}
}
