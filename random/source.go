package random

import (
	"math"
	"math/rand"
)

type source struct {
	g Generator
}

// Assert that source implements rand.Source64.
var _ rand.Source64 = source{}

func (source) Seed(int64) {}

func (s source) Int63() int64 {
	return int64(s.g.Uint64() & (math.MaxUint64 >> 1))
}

func (s source) Uint64() uint64 {
	return s.g.Uint64()
}

// Source returns a [math/rand.Source64] drawing from the package generator
// as it is at the time of the call.
func Source() rand.Source {
	return source{Default()}
}
