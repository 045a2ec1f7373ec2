package domain

import "fmt"

// Shuffle returns a Fisher-Yates permutation of items. The input slice is not modified.
func Shuffle[T any](items []T, rng RNG) []T {
	out := append([]T(nil), items...)
	for i := len(out) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// DrawWithoutReplacement picks count elements from pool, removing each pick from
// the remaining candidates so no element is drawn twice. The input slice is not modified.
func DrawWithoutReplacement[T any](pool []T, count int, rng RNG) ([]T, error) {
	if count < 0 {
		return nil, fmt.Errorf("%w: negative count %d", ErrInsufficientDeck, count)
	}
	if count > len(pool) {
		return nil, fmt.Errorf("%w: want %d, have %d", ErrInsufficientDeck, count, len(pool))
	}

	remaining := append([]T(nil), pool...)
	drawn := make([]T, 0, count)
	for range count {
		i := rng.Intn(len(remaining))
		drawn = append(drawn, remaining[i])
		remaining = append(remaining[:i], remaining[i+1:]...)
	}
	return drawn, nil
}
