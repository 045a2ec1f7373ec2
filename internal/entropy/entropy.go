// Package entropy provides the random sources used to shuffle and orient cards.
//
// Two strategies share one contract: CryptoSource reads the operating system
// CSPRNG on every call, PoolSource keeps a ChaCha8-backed byte pool that also
// absorbs auxiliary entropy. New probes the platform and picks one.
package entropy

import (
	crand "crypto/rand"
	"fmt"
	"log/slog"
	"math"

	"github.com/randomtoy/arcano/internal/domain"
)

// Source is a uniform random source.
type Source interface {
	// Intn returns a uniformly distributed int in [0, n). It panics if n <= 0.
	Intn(n int) int
	// Bool returns Intn(2) == 1.
	Bool() bool
}

// Mode selects the strategy New uses.
type Mode string

const (
	ModeAuto   Mode = "auto"
	ModeCrypto Mode = "crypto"
	ModePool   Mode = "pool"
)

// readStrong is the platform primitive; tests replace it to simulate its absence.
var readStrong = crand.Read

// New returns the best source allowed by mode.
func New(mode Mode, logger *slog.Logger) (Source, error) {
	strong := probeStrong()

	switch mode {
	case ModeAuto, "":
		if strong {
			logger.Info("entropy source selected", "strategy", "crypto")
			return CryptoSource{}, nil
		}
		logger.Warn("crypto/rand unavailable, falling back to entropy pool")
		return newFallbackPool(false)
	case ModeCrypto:
		if !strong {
			return nil, fmt.Errorf("%w: crypto/rand probe failed", domain.ErrEntropyUnavailable)
		}
		logger.Info("entropy source selected", "strategy", "crypto")
		return CryptoSource{}, nil
	case ModePool:
		logger.Info("entropy source selected", "strategy", "pool")
		return newFallbackPool(strong)
	default:
		return nil, fmt.Errorf("unknown entropy mode %q", mode)
	}
}

func probeStrong() bool {
	var b [16]byte
	n, err := readStrong(b[:])
	return err == nil && n == len(b)
}

func newFallbackPool(strong bool) (Source, error) {
	seed := processEntropy()
	if strong {
		var b [32]byte
		if _, err := readStrong(b[:]); err == nil {
			seed = append(seed, b[:]...)
		}
	}
	p, err := NewPoolSource(seed)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// bounded maps 32-bit draws onto [0, n) without modulo bias by rejecting the
// low values that would make the last partial range overrepresented.
func bounded(next func() uint32, n int) int {
	if n <= 0 {
		panic(fmt.Sprintf("entropy: invalid bound %d", n))
	}
	if uint64(n) > math.MaxUint32 {
		panic(fmt.Sprintf("entropy: bound %d exceeds 32 bits", n))
	}
	un := uint32(n)
	threshold := -un % un
	for {
		v := next()
		if v >= threshold {
			return int(v % un)
		}
	}
}
