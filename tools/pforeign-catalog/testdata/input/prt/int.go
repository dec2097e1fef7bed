package prt

type Int int64
