package entropy

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
	"os"
	"sync"
	"time"

	"github.com/randomtoy/arcano/internal/domain"
)

const poolSize = 256

// PoolSource is the fallback source for platforms without a usable CSPRNG.
//
// It keeps a fixed pool of bytes produced by a ChaCha8 generator. Each draw
// consumes 4 bytes at a rotating cursor, whitened with fresh generator output;
// the pool is refilled when exhausted.
// Auxiliary entropy (timing data by default) is XORed into the pool before
// every draw and the generator is rekeyed from the mixed pool, so later output
// depends on everything absorbed so far. All state is guarded by mu.
type PoolSource struct {
	mu     sync.Mutex
	pool   [poolSize]byte
	cursor int
	gen    *rand.ChaCha8
	aux    func() []byte
}

// PoolOption configures a PoolSource.
type PoolOption func(*PoolSource)

// WithAuxiliary replaces the per-draw auxiliary entropy collector.
// A collector returning nil disables mixing on draws, which makes output
// reproducible for a given seed.
func WithAuxiliary(fn func() []byte) PoolOption {
	return func(p *PoolSource) { p.aux = fn }
}

// NewPoolSource keys the pool from seed. An empty seed yields ErrEntropyUnavailable.
func NewPoolSource(seed []byte, opts ...PoolOption) (*PoolSource, error) {
	if len(seed) == 0 {
		return nil, fmt.Errorf("%w: empty pool seed", domain.ErrEntropyUnavailable)
	}
	p := &PoolSource{
		gen: rand.NewChaCha8(sha256.Sum256(seed)),
		aux: timingEntropy,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.refill()
	return p, nil
}

func (p *PoolSource) Intn(n int) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.gen == nil {
		panic(fmt.Errorf("%w: pool not initialized", domain.ErrEntropyUnavailable))
	}
	if p.aux != nil {
		p.mixLocked(p.aux())
	}
	return bounded(p.nextLocked, n)
}

func (p *PoolSource) Bool() bool { return p.Intn(2) == 1 }

// Mix folds caller-supplied entropy, such as pointer coordinates, into the pool.
func (p *PoolSource) Mix(aux []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.gen == nil {
		panic(fmt.Errorf("%w: pool not initialized", domain.ErrEntropyUnavailable))
	}
	p.mixLocked(aux)
}

func (p *PoolSource) mixLocked(aux []byte) {
	if len(aux) == 0 {
		return
	}
	for i, b := range aux {
		p.pool[(p.cursor+i)%poolSize] ^= b
	}

	var tail [32]byte
	_, _ = p.gen.Read(tail[:])
	h := sha256.New()
	h.Write(p.pool[:])
	h.Write(tail[:])
	var key [32]byte
	copy(key[:], h.Sum(nil))
	p.gen = rand.NewChaCha8(key)
}

func (p *PoolSource) nextLocked() uint32 {
	if p.cursor+4 > poolSize {
		p.refill()
	}
	v := binary.BigEndian.Uint32(p.pool[p.cursor : p.cursor+4])
	p.cursor += 4
	return v ^ uint32(p.gen.Uint64())
}

func (p *PoolSource) refill() {
	_, _ = p.gen.Read(p.pool[:])
	p.cursor = 0
}

// timingEntropy samples the wall clock and the monotonic timer.
func timingEntropy() []byte {
	now := time.Now()
	var b [16]byte
	binary.LittleEndian.PutUint64(b[:8], uint64(now.UnixNano()))
	binary.LittleEndian.PutUint64(b[8:], uint64(time.Since(processStart).Nanoseconds()))
	return b[:]
}

var processStart = time.Now()

// processEntropy adds process identity to timing data for seeding.
func processEntropy() []byte {
	seed := timingEntropy()
	var pid [8]byte
	binary.LittleEndian.PutUint64(pid[:], uint64(os.Getpid()))
	seed = append(seed, pid[:]...)
	if host, err := os.Hostname(); err == nil {
		seed = append(seed, host...)
	}
	return seed
}
