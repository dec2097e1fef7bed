package foreign

import "github.com/antithesishq/pforeign-go/prt"

type Machine interface {
	TryRandomInt(maxValue prt.Int) (prt.Int, error)
}

func ChooseRandomNode(uniqueID prt.Int, m Machine) (prt.Int, error) {
	return m.TryRandomInt(uniqueID)
}
