package machine

import (
	"fmt"
	"math/rand/v2"

	"github.com/antithesishq/pforeign-go/prt"
	"github.com/antithesishq/pforeign-go/random"
)

// Strategy picks the value for the choice at position seq. bound is always
// positive when Next is called.
type Strategy interface {
	Next(seq uint64, bound prt.Int) (prt.Int, error)
}

// StrategyFunc adapts a function to Strategy.
type StrategyFunc func(seq uint64, bound prt.Int) (prt.Int, error)

func (f StrategyFunc) Next(seq uint64, bound prt.Int) (prt.Int, error) {
	return f(seq, bound)
}

type randomStrategy struct {
	g random.Generator
}

// RandomStrategy draws every choice from g. A nil g uses the package
// generator of the random package.
func RandomStrategy(g random.Generator) Strategy {
	return &randomStrategy{g: g}
}

// Next reduces the generator output to [0, bound) without modulo bias.
func (s *randomStrategy) Next(_ uint64, bound prt.Int) (prt.Int, error) {
	g := s.g
	if g == nil {
		g = random.Default()
	}
	return prt.Int(rand.New(g).Int64N(int64(bound))), nil
}

type replayStrategy struct {
	choices []Choice
}

// ReplayStrategy returns the values of choices in order. The choices are
// copied.
func ReplayStrategy(choices []Choice) Strategy {
	return &replayStrategy{choices: append([]Choice(nil), choices...)}
}

func (s *replayStrategy) Next(seq uint64, bound prt.Int) (prt.Int, error) {
	if seq >= uint64(len(s.choices)) {
		return 0, fmt.Errorf("choice %d of %d recorded: %w", seq, len(s.choices), ErrReplayExhausted)
	}
	recorded := s.choices[seq]
	if recorded.Bound != bound {
		return 0, &ReplayMismatchError{Seq: seq, Recorded: recorded.Bound, Wanted: bound}
	}
	return recorded.Value, nil
}
