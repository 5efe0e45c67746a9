package probability

import (
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/quantworks/mcpricer/models"
)

// NormalStream produces reproducible standard-normal draws. A stream is a
// pure function of its (seed, offset) pair: the same pair and count always
// yield the same sequence, so estimates are bit-reproducible and strikes
// can be compared under matched randomness.
//
// Concurrent invocations must each construct their own stream rather than
// share a cursor; the offset derives an independent substream so execution
// order never changes results.
type NormalStream struct {
	dist distuv.Normal
}

func NewNormalStream(seed uint64) *NormalStream {
	return NewNormalStreamAt(seed, 0)
}

func NewNormalStreamAt(seed, offset uint64) *NormalStream {
	return &NormalStream{
		dist: distuv.Normal{
			Mu:    0,
			Sigma: 1,
			Src:   rand.NewSource(substreamSeed(seed, offset)),
		},
	}
}

// Draw returns the next n standard-normal values. Fails if n <= 0.
func (s *NormalStream) Draw(n int) ([]float64, error) {
	if n <= 0 {
		return nil, &models.ConfigurationError{Field: "n", Reason: "must be positive"}
	}
	z := make([]float64, n)
	for i := range z {
		z[i] = s.dist.Rand()
	}
	return z, nil
}

// StandardNormals is the one-shot form: a fresh substream drained for n draws.
func StandardNormals(seed, offset uint64, n int) ([]float64, error) {
	return NewNormalStreamAt(seed, offset).Draw(n)
}

// substreamSeed mixes seed and offset through a splitmix64 round. The PCG
// source has no public jump-ahead, so independent substreams come from
// well-separated seeds instead of cursor offsets.
func substreamSeed(seed, offset uint64) uint64 {
	x := seed + 0x9e3779b97f4a7c15*(offset+1)
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
