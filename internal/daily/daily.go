package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"

	"github.com/robalobadob/guessing-game/internal/game"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Target returns the day's target in [game.MinTarget, game.MaxTarget]
// using HMAC(salt, YYYY-MM-DD) so every player gets the same number.
func Target(date time.Time, salt string) uint32 {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date)))
	sum := h.Sum(nil)
	// first 8 bytes as uint64 for the modulus
	n := binary.BigEndian.Uint64(sum[:8])
	span := uint64(game.MaxTarget - game.MinTarget + 1)
	return game.MinTarget + uint32(n%span)
}
