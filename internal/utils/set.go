// Package utils holds small internal helpers shared across packages.
package utils

// Set implements a set for the key type T using a map.
type Set[T comparable] map[T]struct{}

// MakeSet returns an empty Set of the given type and optional initial capacity.
func MakeSet[T comparable](capacity ...int) Set[T] {
	if len(capacity) > 0 {
		return make(Set[T], capacity[0])
	}
	return make(Set[T])
}

// SetWith returns a Set with the given keys inserted.
func SetWith[T comparable](keys ...T) Set[T] {
	s := make(Set[T], len(keys))
	s.Insert(keys...)
	return s
}

// Has returns true if Set s has the given key.
func (s Set[T]) Has(key T) bool {
	_, found := s[key]
	return found
}

// Insert keys into set.
func (s Set[T]) Insert(keys ...T) {
	for _, key := range keys {
		s[key] = struct{}{}
	}
}

// Sub returns a new Set with the keys of s that are not in s2.
func (s Set[T]) Sub(s2 Set[T]) Set[T] {
	sub := MakeSet[T](len(s))
	for key := range s {
		if !s2.Has(key) {
			sub.Insert(key)
		}
	}
	return sub
}

// Equal returns whether s and s2 have exactly the same keys.
func (s Set[T]) Equal(s2 Set[T]) bool {
	if len(s) != len(s2) {
		return false
	}
	for key := range s {
		if !s2.Has(key) {
			return false
		}
	}
	return true
}
