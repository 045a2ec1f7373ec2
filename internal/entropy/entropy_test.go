package entropy_test

import (
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/randomtoy/arcano/internal/domain"
	"github.com/randomtoy/arcano/internal/entropy"
)

func quietLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func noAux() []byte { return nil }

// Both sources must satisfy the RNG port used by the shuffle.
var (
	_ domain.RNG     = entropy.CryptoSource{}
	_ domain.RNG     = (*entropy.PoolSource)(nil)
	_ entropy.Source = (*entropy.PoolSource)(nil)
)

func checkUniform(t *testing.T, src entropy.Source, n, rounds int) {
	t.Helper()
	counts := make([]int, n)
	for range rounds {
		v := src.Intn(n)
		if v < 0 || v >= n {
			t.Fatalf("Intn(%d) returned %d", n, v)
		}
		counts[v]++
	}
	expected := rounds / n
	for i, c := range counts {
		if c < expected*3/4 || c > expected*5/4 {
			t.Errorf("value %d seen %d times, expected about %d", i, c, expected)
		}
	}
}

func TestCryptoSource_Uniform(t *testing.T) {
	checkUniform(t, entropy.CryptoSource{}, 78, 78*1000)
}

func TestPoolSource_Uniform(t *testing.T) {
	src, err := entropy.NewPoolSource([]byte("seed"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	checkUniform(t, src, 78, 78*1000)
}

func TestSources_BoolBalance(t *testing.T) {
	pool, err := entropy.NewPoolSource([]byte("bool"), entropy.WithAuxiliary(noAux))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for name, src := range map[string]entropy.Source{"crypto": entropy.CryptoSource{}, "pool": pool} {
		const rounds = 100000
		trues := 0
		for range rounds {
			if src.Bool() {
				trues++
			}
		}
		if trues < rounds/2-1500 || trues > rounds/2+1500 {
			t.Errorf("%s: %d of %d true, expected about half", name, trues, rounds)
		}
	}
}

func TestPoolSource_ReproducibleWithoutAuxiliary(t *testing.T) {
	a, _ := entropy.NewPoolSource([]byte("same"), entropy.WithAuxiliary(noAux))
	b, _ := entropy.NewPoolSource([]byte("same"), entropy.WithAuxiliary(noAux))

	// Run past one pool refill.
	for i := range 200 {
		if x, y := a.Intn(1000), b.Intn(1000); x != y {
			t.Fatalf("draw %d differs: %d != %d", i, x, y)
		}
	}
}

func TestPoolSource_MixChangesStream(t *testing.T) {
	a, _ := entropy.NewPoolSource([]byte("same"), entropy.WithAuxiliary(noAux))
	b, _ := entropy.NewPoolSource([]byte("same"), entropy.WithAuxiliary(noAux))
	b.Mix([]byte{0x12, 0x34, 0x56, 0x78})

	same := 0
	for range 64 {
		if a.Intn(1<<30) == b.Intn(1<<30) {
			same++
		}
	}
	if same > 2 {
		t.Errorf("mixed pool still matches the unmixed one on %d of 64 draws", same)
	}
}

func TestPoolSource_EmptySeed(t *testing.T) {
	_, err := entropy.NewPoolSource(nil)
	if !errors.Is(err, domain.ErrEntropyUnavailable) {
		t.Errorf("expected ErrEntropyUnavailable, got %v", err)
	}
}

func TestPoolSource_ZeroValuePanics(t *testing.T) {
	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, domain.ErrEntropyUnavailable) {
			t.Errorf("expected ErrEntropyUnavailable panic, got %v", r)
		}
	}()
	var p entropy.PoolSource
	p.Intn(10)
}

func TestIntn_InvalidBoundPanics(t *testing.T) {
	for _, n := range []int{0, -3} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("Intn(%d) did not panic", n)
				}
			}()
			entropy.CryptoSource{}.Intn(n)
		}()
	}
}

func TestPoolSource_ConcurrentUse(t *testing.T) {
	src, err := entropy.NewPoolSource([]byte("shared"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 1000 {
				if v := src.Intn(22); v < 0 || v >= 22 {
					t.Errorf("out of range: %d", v)
					return
				}
				src.Mix([]byte{1})
			}
		}()
	}
	wg.Wait()
}

func TestNew_Modes(t *testing.T) {
	for _, mode := range []entropy.Mode{entropy.ModeAuto, entropy.ModeCrypto, entropy.ModePool, ""} {
		src, err := entropy.New(mode, quietLogger())
		if err != nil {
			t.Fatalf("mode %q: unexpected error: %v", mode, err)
		}
		if v := src.Intn(3); v < 0 || v > 2 {
			t.Errorf("mode %q: out of range %d", mode, v)
		}
	}

	if _, err := entropy.New("lava-lamp", quietLogger()); err == nil {
		t.Error("expected error for unknown mode")
	}
}
