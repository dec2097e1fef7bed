// Package prt holds the value types that cross the boundary between
// generated P code and the foreign functions in this module.
package prt

import "strconv"

// Int is the Go representation of a P int.
type Int int64

func (i Int) String() string {
	return strconv.FormatInt(int64(i), 10)
}

// Int converts i for use as a slice index or length.
func (i Int) Int() int {
	return int(i)
}
