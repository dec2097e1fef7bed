package common

import "strings"

func Pluralize(val int, singularText string) string {
	if val == 1 {
		return singularText
	}
	return singularText + "s"
}

// FlattenModuleName turns a module path into something usable as a file
// name: "nice.example.com/my/thing" => "nice.example.com_V_my_V_thing"
func FlattenModuleName(moduleName string) string {
	tempName := strings.ReplaceAll(moduleName, "/", "_V_")
	return strings.ReplaceAll(tempName, "\\", "_V_")
}
