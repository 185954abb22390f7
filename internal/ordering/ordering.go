// Package ordering computes sibling positions for lists on a board and
// cards in a list. Positions are dense zero-based integers; every reorder
// rewrites the whole affected sequence so no gaps or duplicates survive.
package ordering

// Order bases differ by entity and are kept for compatibility with
// existing board data: the first list on a board gets 0, the first card
// in a list gets 1.
const (
	ListBase = 0
	CardBase = 1
)

// Next returns the append position for a new sibling: max(orders)+1, or
// base when there are no siblings yet.
func Next(orders []int, base int) int {
	if len(orders) == 0 {
		return base
	}
	max := orders[0]
	for _, o := range orders[1:] {
		if o > max {
			max = o
		}
	}
	return max + 1
}

// Reorder removes the element at from and reinserts it at to, splice
// style. The input slice is not modified. Indexes out of range return
// the input unchanged.
func Reorder[T any](items []T, from, to int) []T {
	n := len(items)
	if from < 0 || from >= n || to < 0 || to >= n {
		return items
	}
	out := make([]T, 0, n)
	out = append(out, items[:from]...)
	out = append(out, items[from+1:]...)
	moved := items[from]
	out = append(out[:to], append([]T{moved}, out[to:]...)...)
	return out
}

// Move takes the element at from out of src and inserts it into dst at
// to. Both resulting slices are fresh; the inputs are not modified. The
// insert index is clamped to the destination bounds.
func Move[T any](src, dst []T, from, to int) (newSrc, newDst []T) {
	if from < 0 || from >= len(src) {
		return src, dst
	}
	moved := src[from]

	newSrc = make([]T, 0, len(src)-1)
	newSrc = append(newSrc, src[:from]...)
	newSrc = append(newSrc, src[from+1:]...)

	if to < 0 {
		to = 0
	}
	if to > len(dst) {
		to = len(dst)
	}
	newDst = make([]T, 0, len(dst)+1)
	newDst = append(newDst, dst[:to]...)
	newDst = append(newDst, moved)
	newDst = append(newDst, dst[to:]...)
	return newSrc, newDst
}
