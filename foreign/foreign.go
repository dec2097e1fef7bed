// Package foreign implements the foreign functions declared by the P model.
//
// Generated P code calls these functions with the calling machine passed in
// explicitly. The functions never reach for ambient state: every choice they
// make is delegated to that machine, so that a run can be reproduced by
// replaying the machine's choices.
package foreign

import (
	"github.com/antithesishq/pforeign-go/prt"
)

// Machine is the capability a foreign function needs from the calling
// machine. TryRandomInt returns a value chosen by the machine's own
// random-choice routine. Range, determinism and side effects are owned by
// the implementation.
type Machine interface {
	TryRandomInt(maxValue prt.Int) (prt.Int, error)
}

// ChooseRandomNode returns the value m chooses for uniqueID. The value and
// the error are returned exactly as m produced them.
func ChooseRandomNode(uniqueID prt.Int, m Machine) (prt.Int, error) {
	return m.TryRandomInt(uniqueID)
}
