package sim

import (
	"github.com/antithesishq/pforeign-go/foreign"
	"github.com/antithesishq/pforeign-go/prt"
)

const backupChoice = 2

type Client struct {
	m foreign.Machine
}

func (c *Client) PickServer() (prt.Int, error) {
	return foreign.ChooseRandomNode(1, c.m)
}

func (c *Client) PickBackup() (prt.Int, error) {
	return foreign.ChooseRandomNode(prt.Int(backupChoice), c.m)
}

func (c *Client) PickAny(n prt.Int) (prt.Int, error) {
	return foreign.ChooseRandomNode(n, c.m)
}
