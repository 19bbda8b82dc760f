package stack

import "slices"

// The helpers below never modify their input.

// removeAt returns the element at index i and a new slice without it.
func removeAt(ids []string, i int) (string, []string) {
	return ids[i], slices.Delete(slices.Clone(ids), i, i+1)
}

// insertAt returns a new slice with e inserted at index i. An index past the
// end appends.
func insertAt(ids []string, i int, e string) []string {
	i = max(0, min(i, len(ids)))
	return slices.Insert(slices.Clone(ids), i, e)
}

func prepend(ids []string, e string) []string {
	return insertAt(ids, 0, e)
}

func without(ids []string, id string) []string {
	return slices.DeleteFunc(slices.Clone(ids), func(v string) bool { return v == id })
}
