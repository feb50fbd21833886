// Package secret draws secret targets.
package secret

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
)

// reader is the entropy source; tests swap it out.
var reader io.Reader = rand.Reader

// Draw returns a cryptographically random integer in the inclusive range [lo, hi].
// If hi < lo the bounds are swapped. An entropy failure is returned, never masked.
func Draw(lo, hi uint32) (uint32, error) {
	if hi < lo {
		lo, hi = hi, lo
	}
	span := big.NewInt(int64(hi) - int64(lo) + 1)
	nBig, err := rand.Int(reader, span)
	if err != nil {
		return 0, fmt.Errorf("secret: draw target: %w", err)
	}
	return lo + uint32(nBig.Int64()), nil
}
