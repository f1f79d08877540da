package crate

import "reflect"

// TypeOf returns the type identity used for T by every container.
func TypeOf[T any]() reflect.Type {
	return reflect.TypeFor[T]()
}

// Contains reports whether typ appears in types by exact identity.
func Contains(typ reflect.Type, types []reflect.Type) bool {
	for _, t := range types {
		if t == typ {
			return true
		}
	}

	return false
}

// CountOccurrences returns how many entries of types are exactly typ.
func CountOccurrences(typ reflect.Type, types []reflect.Type) int {
	n := 0

	for _, t := range types {
		if t == typ {
			n++
		}
	}

	return n
}

// AllUnique reports whether every type in types occurs exactly once.
func AllUnique(types []reflect.Type) bool {
	for _, t := range types {
		if CountOccurrences(t, types) != 1 {
			return false
		}
	}

	return true
}

// duplicates returns each repeated type once, in first-seen order, with its count.
func duplicates(types []reflect.Type) ([]reflect.Type, []int) {
	var (
		dups   []reflect.Type
		counts []int
	)

	for i, t := range types {
		if Contains(t, types[:i]) {
			continue
		}

		if n := CountOccurrences(t, types); n > 1 {
			dups = append(dups, t)
			counts = append(counts, n)
		}
	}

	return dups, counts
}
