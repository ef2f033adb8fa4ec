package css

import "fmt"

// Specificity is the (id, class, tag) weight of a selector, compared
// lexicographically with the id count most significant.
type Specificity struct {
	A int // ID selectors
	B int // Class selectors
	C int // Type selectors
}

// Compare compares two specificities. Returns -1, 0, or 1.
func (s Specificity) Compare(other Specificity) int {
	switch {
	case s.A != other.A:
		return sign(s.A - other.A)
	case s.B != other.B:
		return sign(s.B - other.B)
	default:
		return sign(s.C - other.C)
	}
}

// Less returns true if this specificity is less than the other.
func (s Specificity) Less(other Specificity) bool {
	return s.Compare(other) < 0
}

func (s Specificity) String() string {
	return fmt.Sprintf("(%d,%d,%d)", s.A, s.B, s.C)
}

func sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	}
	return 0
}
