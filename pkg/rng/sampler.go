// Package rng provides the randomness used by winner selection. The draw
// index comes from crypto/rand so it cannot be predicted by a party without
// access to the process's entropy source; the audit seed is separate metadata
// that proves a draw happened and never feeds back into the draw itself.
package rng

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
)

// ErrEmptyRange is returned when a draw is requested over an empty range.
var ErrEmptyRange = errors.New("draw range must be greater than zero")

// UniformIndex picks one index uniformly from [0, n) using crypto/rand.
// Every index has exactly probability 1/n.
func UniformIndex(n int) (int, error) {
	if n <= 0 {
		return 0, ErrEmptyRange
	}
	r, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, err
	}
	return int(r.Int64()), nil
}

// AuditSeed generates the seed stored alongside a winner record. It combines
// a timestamp with two independent random components (a UUID and a raw
// crypto/rand draw) so it carries enough entropy to be unforgeable after the
// fact, while remaining a plain printable string.
func AuditSeed() (string, error) {
	r, err := rand.Int(rand.Reader, big.NewInt(1<<62))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d-%s-%d", time.Now().UnixNano(), uuid.NewString(), r.Int64()), nil
}
