// Package random supplies the entropy behind machine choices.
//
// By default values come from the operating system's cryptographic source.
// Setting the environment variable PFOREIGN_SEED to an unsigned integer
// switches the package to a seeded PCG generator, which makes every run
// with the same seed produce the same sequence of values.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
	"os"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// SeedEnvVar names the environment variable holding the default seed.
const SeedEnvVar = "PFOREIGN_SEED"

// Generator produces uniformly distributed 64-bit values.
type Generator interface {
	Uint64() uint64
}

var (
	generatorMu sync.Mutex
	// generator is resolved on first use, so that the warning for a bad
	// seed goes to whatever global logger the program installed by then.
	generator Generator
	seedErr   error
)

// GetRandom returns a value from the package generator.
func GetRandom() uint64 {
	return Default().Uint64()
}

// Default returns the package generator.
func Default() Generator {
	generatorMu.Lock()
	defer generatorMu.Unlock()
	return resolveLocked()
}

func resolveLocked() Generator {
	if generator == nil {
		generator, seedErr = defaultGenerator()
		if seedErr != nil {
			zap.L().Warn("ignoring unparsable seed, using entropy", zap.Error(seedErr))
		}
	}
	return generator
}

// SeedError reports why PFOREIGN_SEED could not seed the package
// generator, or nil when it was unset or valid.
func SeedError() error {
	generatorMu.Lock()
	defer generatorMu.Unlock()
	resolveLocked()
	return seedErr
}

// SetGeneratorForTest overrides the package generator and returns a restore function.
func SetGeneratorForTest(g Generator) func() {
	generatorMu.Lock()
	previous := generator
	generator = g
	generatorMu.Unlock()
	return func() {
		generatorMu.Lock()
		generator = previous
		generatorMu.Unlock()
	}
}

// ParseSeed parses a seed as written in PFOREIGN_SEED.
func ParseSeed(text string) (uint64, error) {
	return strconv.ParseUint(strings.TrimSpace(text), 0, 64)
}

func defaultGenerator() (Generator, error) {
	text, isSet := os.LookupEnv(SeedEnvVar)
	if !isSet || strings.TrimSpace(text) == "" {
		return Entropy(), nil
	}
	seed, err := ParseSeed(text)
	if err != nil {
		return Entropy(), fmt.Errorf("%s=%q: %w", SeedEnvVar, text, err)
	}
	return NewSeeded(seed), nil
}

type entropy struct{}

// Entropy returns a generator backed by crypto/rand.
func Entropy() Generator {
	return entropy{}
}

func (entropy) Uint64() uint64 {
	var tmp [8]byte
	// crypto/rand.Read never returns an error on supported platforms.
	_, _ = crand.Read(tmp[:])
	return binary.LittleEndian.Uint64(tmp[:])
}

// seeded is a PCG generator guarded for use from several machines.
type seeded struct {
	mu  sync.Mutex
	pcg *rand.PCG
}

// NewSeeded returns a deterministic generator. Two generators built from
// the same seed yield the same sequence.
func NewSeeded(seed uint64) Generator {
	return &seeded{pcg: rand.NewPCG(seed, seed>>32|seed<<32)}
}

func (s *seeded) Uint64() uint64 {
	s.mu.Lock()
	v := s.pcg.Uint64()
	s.mu.Unlock()
	return v
}
