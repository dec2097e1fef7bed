// Package machine provides Chooser, the random-choice half of a P machine.
//
// A Chooser hands out bounded random integers, keeps an append-only log of
// every value it returned and can forward each choice to a Recorder. The
// log of one run fed back through ReplayStrategy reproduces that run.
package machine

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/antithesishq/pforeign-go/foreign"
	"github.com/antithesishq/pforeign-go/prt"
)

// Choice is one value handed out by a Chooser.
type Choice struct {
	Seq     uint64
	Machine string
	Bound   prt.Int
	Value   prt.Int
}

// Recorder receives every choice as it is made.
type Recorder interface {
	Record(Choice) error
}

// Chooser is safe for concurrent use. Choices made concurrently are logged
// in the order their values were returned.
type Chooser struct {
	mu         sync.Mutex
	name       string
	strategy   Strategy
	recorder   Recorder
	logger     *zap.Logger
	maxChoices int
	choices    []Choice
}

var _ foreign.Machine = (*Chooser)(nil)

// Option configures a Chooser.
type Option func(*Chooser)

// WithStrategy sets the strategy. The default draws from the random package.
func WithStrategy(s Strategy) Option {
	return func(c *Chooser) {
		c.strategy = s
	}
}

// WithRecorder forwards every choice to r.
func WithRecorder(r Recorder) Option {
	return func(c *Chooser) {
		c.recorder = r
	}
}

// WithLogger sets the logger for per-choice debug output. The default
// discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(c *Chooser) {
		c.logger = l
	}
}

// WithMaxChoices limits the number of choices; zero or less means no limit.
func WithMaxChoices(n int) Option {
	return func(c *Chooser) {
		c.maxChoices = n
	}
}

// New returns a Chooser for the machine called name.
func New(name string, opts ...Option) *Chooser {
	c := &Chooser{
		name:     name,
		strategy: RandomStrategy(nil),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With(zap.String("machine", name))
	return c
}

// TryRandomInt returns a value in [0, maxValue).
func (c *Chooser) TryRandomInt(maxValue prt.Int) (prt.Int, error) {
	if maxValue <= 0 {
		return 0, &OutOfRangeError{Machine: c.name, Bound: maxValue}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	seq := uint64(len(c.choices))
	if c.maxChoices > 0 && len(c.choices) >= c.maxChoices {
		return 0, fmt.Errorf("%s: %d choices: %w", c.name, c.maxChoices, ErrChoiceLimit)
	}

	v, err := c.strategy.Next(seq, maxValue)
	if err != nil {
		c.logger.Debug("strategy failed", zap.Uint64("seq", seq), zap.Error(err))
		return 0, err
	}
	if v < 0 || v >= maxValue {
		return 0, &OutOfRangeError{Machine: c.name, Bound: maxValue, Value: v, Chosen: true}
	}

	choice := Choice{Seq: seq, Machine: c.name, Bound: maxValue, Value: v}
	if c.recorder != nil {
		if err := c.recorder.Record(choice); err != nil {
			return 0, fmt.Errorf("%s: recording choice %d: %w", c.name, seq, err)
		}
	}
	c.choices = append(c.choices, choice)

	c.logger.Debug("random int",
		zap.Uint64("seq", seq),
		zap.Int64("bound", int64(maxValue)),
		zap.Int64("value", int64(v)),
	)
	return v, nil
}

// TryRandomBool is a choice with bound 2.
func (c *Chooser) TryRandomBool() (bool, error) {
	v, err := c.TryRandomInt(2)
	if err != nil {
		return false, err
	}
	return v == 1, nil
}

// Choices returns a copy of the log.
func (c *Chooser) Choices() []Choice {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Choice(nil), c.choices...)
}

// Reset clears the log. The strategy is kept, so a replaying Chooser starts
// from the first recorded choice again.
func (c *Chooser) Reset() {
	c.mu.Lock()
	c.choices = nil
	c.mu.Unlock()
}
