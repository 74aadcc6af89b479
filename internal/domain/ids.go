package domain

import "slices"

// ContentID identifies one gallery in the remote index.
type ContentID int32

// IDSet is a set of gallery identifiers.
type IDSet map[ContentID]struct{}

// NewIDSet builds a set from ids; duplicates collapse.
func NewIDSet(ids []ContentID) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Contains reports whether id is in the set.
func (s IDSet) Contains(id ContentID) bool {
	_, ok := s[id]
	return ok
}

// Intersect returns the ids present in both s and other.
func (s IDSet) Intersect(other IDSet) IDSet {
	small, large := s, other
	if len(large) < len(small) {
		small, large = large, small
	}
	out := make(IDSet, len(small))
	for id := range small {
		if _, ok := large[id]; ok {
			out[id] = struct{}{}
		}
	}
	return out
}

// Difference returns the ids of s that are not in other.
func (s IDSet) Difference(other IDSet) IDSet {
	out := make(IDSet, len(s))
	for id := range s {
		if _, ok := other[id]; !ok {
			out[id] = struct{}{}
		}
	}
	return out
}

// Sorted returns the ids in ascending order. This is the order used for paging.
func (s IDSet) Sorted() []ContentID {
	out := make([]ContentID, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}
