package prt

import (
	"testing"

	"github.com/go-quicktest/qt"
)

func TestIntString(t *testing.T) {
	qt.Assert(t, qt.Equals(Int(14).String(), "14"))
	qt.Assert(t, qt.Equals(Int(-1).String(), "-1"))
}

func TestIntConversion(t *testing.T) {
	things := []string{"a", "b", "c"}
	qt.Assert(t, qt.Equals(things[Int(2).Int()], "c"))
}
