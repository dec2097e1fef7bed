package common

import "fmt"

const (
	NAME_NOT_AVAILABLE = "anonymous"
	PFOREIGN_MODULE    = "github.com/antithesishq/pforeign-go"
	FOREIGN_PACKAGE    = "foreign"
	CHOOSE_RANDOM_NODE = "ChooseRandomNode"
	GENERATED_SUFFIX   = "_pforeign_catalog.json"
)

func ForeignPackageName() string {
	return fmt.Sprintf("%s/%s", PFOREIGN_MODULE, FOREIGN_PACKAGE)
}

// github.com/antithesishq/pforeign-go/foreign.ChooseRandomNode
func ChooseRandomNodeFullName() string {
	return fmt.Sprintf("%s.%s", ForeignPackageName(), CHOOSE_RANDOM_NODE)
}
