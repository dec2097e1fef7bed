package random

// RandomChoice returns a randomly chosen item from a list of options, or the
// zero value when things is empty.
func RandomChoice[T any](things []T) T {
	return Choose(Default(), things)
}

// Choose is RandomChoice drawing from g.
func Choose[T any](g Generator, things []T) T {
	numThings := len(things)
	if numThings == 0 {
		var nullThing T
		return nullThing
	}

	index := g.Uint64() % uint64(numThings)
	return things[index]
}
