package machine

import (
	"errors"
	"fmt"

	"github.com/antithesishq/pforeign-go/prt"
)

var (
	// ErrOutOfRange matches every *OutOfRangeError.
	ErrOutOfRange = errors.New("choice out of range")
	// ErrReplayExhausted is returned when a replayed run asks for more
	// choices than were recorded.
	ErrReplayExhausted = errors.New("replay exhausted")
	// ErrReplayMismatch matches every *ReplayMismatchError.
	ErrReplayMismatch = errors.New("replay diverged from recorded run")
	// ErrChoiceLimit is returned once a chooser has made its maximum number of choices.
	ErrChoiceLimit = errors.New("choice limit reached")
)

// OutOfRangeError reports a bound that admits no value, or a strategy value
// outside [0, Bound).
type OutOfRangeError struct {
	Machine string
	Bound   prt.Int
	Value   prt.Int
	// Chosen is false when the bound itself was rejected.
	Chosen bool
}

func (e *OutOfRangeError) Error() string {
	if !e.Chosen {
		return fmt.Sprintf("%s: random int bound %d must be positive", e.Machine, e.Bound)
	}
	return fmt.Sprintf("%s: chosen value %d not in [0, %d)", e.Machine, e.Value, e.Bound)
}

func (e *OutOfRangeError) Is(target error) bool {
	return target == ErrOutOfRange
}

// ReplayMismatchError reports that a replayed run requested a choice with a
// different bound than the recorded one at the same position.
type ReplayMismatchError struct {
	Seq      uint64
	Recorded prt.Int
	Wanted   prt.Int
}

func (e *ReplayMismatchError) Error() string {
	return fmt.Sprintf("choice %d: recorded bound %d, requested %d", e.Seq, e.Recorded, e.Wanted)
}

func (e *ReplayMismatchError) Is(target error) bool {
	return target == ErrReplayMismatch
}
