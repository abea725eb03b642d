package iteratable

import (
	"bytes"
	"fmt"

	"github.com/emirpasic/gods/utils"
)

// Set is an insertion-ordered set with a total order on its elements.
// Create one with NewSet.
type Set struct {
	items  []interface{}            // insertion order; doubles as worklist
	index  map[interface{}]struct{} // membership
	cmp    utils.Comparator         // total order for Values() and Equals()
	cursor int                      // iteration position
}

// NewSet creates a set with comparator cmp, optionally pre-filled with items.
func NewSet(cmp utils.Comparator, items ...interface{}) *Set {
	S := &Set{
		items:  make([]interface{}, 0, len(items)+8),
		index:  make(map[interface{}]struct{}, len(items)+8),
		cmp:    cmp,
		cursor: -1,
	}
	for _, x := range items {
		S.Add(x)
	}
	return S
}

// Add inserts x, if not already present. Returns true if x has been added.
func (S *Set) Add(x interface{}) bool {
	if _, ok := S.index[x]; ok {
		return false
	}
	S.index[x] = struct{}{}
	S.items = append(S.items, x)
	return true
}

// Contains is a membership predicate.
func (S *Set) Contains(x interface{}) bool {
	if S == nil {
		return false
	}
	_, ok := S.index[x]
	return ok
}

// Remove deletes x from S. An iteration in progress is not disturbed.
func (S *Set) Remove(x interface{}) {
	if _, ok := S.index[x]; !ok {
		return
	}
	delete(S.index, x)
	for i, y := range S.items {
		if y == x {
			S.items = append(S.items[:i], S.items[i+1:]...)
			if i <= S.cursor {
				S.cursor--
			}
			return
		}
	}
}

// Size returns the number of elements in S.
func (S *Set) Size() int {
	if S == nil {
		return 0
	}
	return len(S.items)
}

// Empty is true for a set without elements.
func (S *Set) Empty() bool {
	return S.Size() == 0
}

// Copy returns a shallow copy of S, preserving insertion order.
func (S *Set) Copy() *Set {
	C := NewSet(S.cmp)
	for _, x := range S.items {
		C.Add(x)
	}
	return C
}

// Union adds all elements of other to S (destructive). Returns S.
func (S *Set) Union(other *Set) *Set {
	if other == nil {
		return S
	}
	for _, x := range other.items {
		S.Add(x)
	}
	return S
}

// Difference returns a new set S \ other.
func (S *Set) Difference(other *Set) *Set {
	D := NewSet(S.cmp)
	for _, x := range S.items {
		if !other.Contains(x) {
			D.Add(x)
		}
	}
	return D
}

// Equals is true if S and other contain the same elements.
func (S *Set) Equals(other *Set) bool {
	if S.Size() != other.Size() {
		return false
	}
	for _, x := range S.items {
		if !other.Contains(x) {
			return false
		}
	}
	return true
}

// Values returns the elements of S sorted by the set's comparator.
func (S *Set) Values() []interface{} {
	vals := make([]interface{}, len(S.items))
	copy(vals, S.items)
	if S.cmp != nil {
		utils.Sort(vals, S.cmp)
	}
	return vals
}

// Each calls f for every element, in sorted order.
func (S *Set) Each(f func(interface{})) {
	for _, x := range S.Values() {
		f(x)
	}
}

// --- Iteration -------------------------------------------------------------

// IterateOnce starts an iteration over S in insertion order. Elements added
// to S before the iteration ends will be visited, too.
//
//     S.IterateOnce()
//     for S.Next() {
//         x := S.Item()
//         …
//     }
func (S *Set) IterateOnce() {
	S.cursor = -1
}

// Next advances the iteration. Returns false if all elements have been visited.
func (S *Set) Next() bool {
	if S.cursor+1 >= len(S.items) {
		S.cursor = len(S.items)
		return false
	}
	S.cursor++
	return true
}

// Item returns the current element of an iteration.
func (S *Set) Item() interface{} {
	if S.cursor < 0 || S.cursor >= len(S.items) {
		return nil
	}
	return S.items[S.cursor]
}

func (S *Set) String() string {
	var b bytes.Buffer
	b.WriteString("{")
	for i, x := range S.Values() {
		if i > 0 {
			b.WriteString(", ")
		} else {
			b.WriteString(" ")
		}
		b.WriteString(fmt.Sprintf("%v", x))
	}
	b.WriteString(" }")
	return b.String()
}
