package foreign_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-quicktest/qt"

	"github.com/antithesishq/pforeign-go/foreign"
	"github.com/antithesishq/pforeign-go/machine"
	"github.com/antithesishq/pforeign-go/prt"
	"github.com/antithesishq/pforeign-go/random"
)

type doublingMachine struct {
	calls []prt.Int
}

func (m *doublingMachine) TryRandomInt(id prt.Int) (prt.Int, error) {
	m.calls = append(m.calls, id)
	return id * 2, nil
}

var errOutOfRange = errors.New("out of range")

type rangeError struct {
	id prt.Int
}

func (e *rangeError) Error() string {
	return fmt.Sprintf("id %d is out of range", e.id)
}

func (e *rangeError) Unwrap() error {
	return errOutOfRange
}

type strictMachine struct {
	last *rangeError
}

func (m *strictMachine) TryRandomInt(id prt.Int) (prt.Int, error) {
	if id < 0 {
		m.last = &rangeError{id}
		return 0, m.last
	}
	return id, nil
}

func TestChooseRandomNodeReturnsMachineValue(t *testing.T) {
	m := &doublingMachine{}
	got, err := foreign.ChooseRandomNode(7, m)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(got, prt.Int(14)))
	qt.Assert(t, qt.DeepEquals(m.calls, []prt.Int{7}))
}

func TestChooseRandomNodeIsPassThrough(t *testing.T) {
	m := &doublingMachine{}
	for _, id := range []prt.Int{0, 1, -5, 1 << 40, -(1 << 40)} {
		got, err := foreign.ChooseRandomNode(id, m)
		qt.Assert(t, qt.IsNil(err))
		qt.Check(t, qt.Equals(got, id*2), qt.Commentf("id %d", id))
	}
	qt.Assert(t, qt.HasLen(m.calls, 5))
}

func TestChooseRandomNodePropagatesFailure(t *testing.T) {
	m := &strictMachine{}
	_, err := foreign.ChooseRandomNode(-1, m)
	qt.Assert(t, qt.IsNotNil(err))
	// Same value, not a wrapped copy.
	qt.Assert(t, qt.Equals(err, error(m.last)))
	qt.Assert(t, qt.ErrorIs(err, errOutOfRange))

	var re *rangeError
	qt.Assert(t, qt.ErrorAs(err, &re))
	qt.Assert(t, qt.Equals(re.id, prt.Int(-1)))
}

func TestChooseRandomNodeWithChooser(t *testing.T) {
	c := machine.New("Client(1)", machine.WithStrategy(machine.RandomStrategy(random.NewSeeded(42))))
	for i := 0; i < 50; i++ {
		got, err := foreign.ChooseRandomNode(3, c)
		qt.Assert(t, qt.IsNil(err))
		qt.Assert(t, qt.IsTrue(got >= 0 && got < 3))
	}
	qt.Assert(t, qt.HasLen(c.Choices(), 50))

	_, err := foreign.ChooseRandomNode(0, c)
	qt.Assert(t, qt.ErrorIs(err, machine.ErrOutOfRange))
}

func TestChooseRandomNodeReplaysRecordedRun(t *testing.T) {
	first := machine.New("Server", machine.WithStrategy(machine.RandomStrategy(random.NewSeeded(7))))
	var want []prt.Int
	for _, bound := range []prt.Int{5, 2, 9, 4} {
		v, err := foreign.ChooseRandomNode(bound, first)
		qt.Assert(t, qt.IsNil(err))
		want = append(want, v)
	}

	replay := machine.New("Server", machine.WithStrategy(machine.ReplayStrategy(first.Choices())))
	var got []prt.Int
	for _, bound := range []prt.Int{5, 2, 9, 4} {
		v, err := foreign.ChooseRandomNode(bound, replay)
		qt.Assert(t, qt.IsNil(err))
		got = append(got, v)
	}
	qt.Assert(t, qt.DeepEquals(got, want))
}
