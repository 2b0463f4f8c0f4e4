package ordering

import (
	"sort"

	"alcyxob/fitness-sync/internal/domain"
)

// Positioned is anything that sits at an ordinal position among its siblings.
type Positioned interface {
	Identity() string
	Position() int
}

// Repositionable can produce a copy of itself at another position.
type Repositionable[T any] interface {
	Positioned
	WithPosition(pos int) T
}

// NextAvailablePosition returns the position a new (or moved) child should take.
// Siblings with the excluded id or without a positive position are ignored.
// With no occupied positions the answer is 1; otherwise the lowest free slot in
// 1..MaxOrderValue, and when every slot is taken, max+1 capped at MaxOrderValue.
func NextAvailablePosition[T Positioned](siblings []T, excludeID string) int {
	occupied := make(map[int]struct{}, len(siblings))
	maxPos := 0
	for _, s := range siblings {
		if excludeID != "" && s.Identity() == excludeID {
			continue
		}
		pos := s.Position()
		if pos <= 0 {
			continue
		}
		occupied[pos] = struct{}{}
		if pos > maxPos {
			maxPos = pos
		}
	}
	if len(occupied) == 0 {
		return 1
	}
	for pos := 1; pos <= domain.MaxOrderValue; pos++ {
		if _, taken := occupied[pos]; !taken {
			return pos
		}
	}
	return min(maxPos+1, domain.MaxOrderValue)
}

// SortByPosition returns a copy of children in ascending position order.
// Children without a position keep their relative order and go last.
func SortByPosition[T Positioned](children []T) []T {
	out := make([]T, len(children))
	copy(out, children)
	sort.SliceStable(out, func(i, j int) bool {
		pi, pj := out[i].Position(), out[j].Position()
		switch {
		case pi <= 0:
			return false
		case pj <= 0:
			return true
		default:
			return pi < pj
		}
	})
	return out
}

// Normalize returns a copy of children placed at 1..len in slice order.
func Normalize[T Repositionable[T]](children []T) []T {
	out := make([]T, len(children))
	for i, c := range children {
		out[i] = c.WithPosition(i + 1)
	}
	return out
}

// FillPositions returns a copy where every child lacking a position gets its
// 1-based index. Explicit positions are kept.
func FillPositions[T Repositionable[T]](children []T) []T {
	out := make([]T, len(children))
	for i, c := range children {
		if c.Position() <= 0 {
			c = c.WithPosition(i + 1)
		}
		out[i] = c
	}
	return out
}
