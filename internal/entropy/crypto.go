package entropy

import (
	"encoding/binary"
	"fmt"

	"github.com/randomtoy/arcano/internal/domain"
)

// CryptoSource draws every value from the operating system CSPRNG.
// It holds no state and is safe for concurrent use.
type CryptoSource struct{}

func (CryptoSource) Intn(n int) int { return bounded(cryptoUint32, n) }

func (s CryptoSource) Bool() bool { return s.Intn(2) == 1 }

func cryptoUint32() uint32 {
	var b [4]byte
	if _, err := readStrong(b[:]); err != nil {
		panic(fmt.Errorf("%w: %v", domain.ErrEntropyUnavailable, err))
	}
	return binary.BigEndian.Uint32(b[:])
}
