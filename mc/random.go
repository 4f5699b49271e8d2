package mc

import (
	crand "crypto/rand"
	"encoding/binary"
	"time"

	"golang.org/x/exp/rand"
)

//go:generate mockgen -destination mock/random.go -package mockmc github.com/banachtech/sdepricer/mc RandomSource

// RandomSource produces standard normal variates. Implementations are stateful and
// not safe for concurrent use.
type RandomSource interface {
	Generate() float64
}

// NormalSource draws N(0,1) variates from a PCG generator.
type NormalSource struct {
	seed uint64
	rng  *rand.Rand
}

// NewNormalSource returns a reproducible source: the same seed gives the same stream.
func NewNormalSource(seed uint64) *NormalSource {
	return &NormalSource{seed: seed, rng: rand.New(rand.NewSource(seed))}
}

// NewEntropySource seeds a source from the operating system, falling back to the clock.
func NewEntropySource() *NormalSource {
	return NewNormalSource(entropySeed())
}

// Generate returns the next standard normal draw.
func (n *NormalSource) Generate() float64 {
	return n.rng.NormFloat64()
}

// Seed reports the seed the stream started from.
func (n *NormalSource) Seed() uint64 {
	return n.seed
}

func entropySeed() uint64 {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return uint64(time.Now().UnixNano())
	}
	return binary.LittleEndian.Uint64(b[:])
}
