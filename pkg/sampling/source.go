package sampling

import (
	crand "crypto/rand"
	"fmt"
	"math/big"
	mrand "math/rand"
	"sync"
	"time"
)

const (
	CryptoSource = "crypto"
	MathSource   = "math"
)

// Source returns uniformly distributed integers in [0, n).
type Source interface {
	Intn(n int) int
}

// NewSource returns the source registered under name.
func NewSource(name string) (Source, error) {
	switch name {
	case CryptoSource, "":
		return cryptoSource{}, nil
	case MathSource:
		return NewSeededSource(time.Now().UnixNano()), nil
	default:
		return nil, fmt.Errorf("unknown random source %q", name)
	}
}

// NewSeededSource returns a deterministic source. Two sources created with
// the same seed produce the same sequence.
func NewSeededSource(seed int64) Source {
	return &mathSource{rand: mrand.New(mrand.NewSource(seed))}
}

type cryptoSource struct{}

func (cryptoSource) Intn(n int) int {
	v, err := crand.Int(crand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic(fmt.Sprintf("crypto/rand: %v", err))
	}

	return int(v.Int64())
}

type mathSource struct {
	mutex sync.Mutex
	rand  *mrand.Rand
}

func (s *mathSource) Intn(n int) int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.rand.Intn(n)
}
