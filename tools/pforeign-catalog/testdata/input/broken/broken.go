package broken

import "github.com/antithesishq/pforeign-go/foreign"

var bad int = "not an int"

func Pick(m foreign.Machine) {
	foreign.ChooseRandomNode(7, m)
}
