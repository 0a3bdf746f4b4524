// Package rowagg provides an insertion-ordered map for collapsing joined rows into entities
package rowagg

// Ordered keeps values in first-insertion order with O(1) lookup by key
type Ordered[K comparable, V any] struct {
	keys  []K
	vals  []V
	index map[K]int
}

// New returns an empty Ordered sized for n entries
func New[K comparable, V any](n int) *Ordered[K, V] {
	return &Ordered[K, V]{
		keys:  make([]K, 0, n),
		vals:  make([]V, 0, n),
		index: make(map[K]int, n),
	}
}

// Upsert returns a pointer to the value for k, creating it with init on first sight
// created reports whether init ran; the pointer is valid until the next insertion
func (o *Ordered[K, V]) Upsert(k K, init func() V) (v *V, created bool) {
	if i, ok := o.index[k]; ok {
		return &o.vals[i], false
	}
	o.index[k] = len(o.vals)
	o.keys = append(o.keys, k)
	o.vals = append(o.vals, init())
	return &o.vals[len(o.vals)-1], true
}

// Len is the number of distinct keys
func (o *Ordered[K, V]) Len() int { return len(o.keys) }

// Each visits entries in insertion order until fn returns false
func (o *Ordered[K, V]) Each(fn func(k K, v V) bool) {
	for i, k := range o.keys {
		if !fn(k, o.vals[i]) {
			return
		}
	}
}
