package ranking

// Term is one disjunct of the keyset predicate
// every key in Equal matches the anchor and Strict ranks after it
type Term struct {
	Equal  []Key
	Strict Key
}

// Seek expands the lexicographic continuation predicate for m
//
//	(k1 > v1) OR (k1 = v1 AND k2 > v2) OR ... OR (k1 = v1 AND ... AND kn > vn)
//
// where > is the key's Op
func Seek(m Mode) []Term {
	keys := m.Keys()
	out := make([]Term, len(keys))
	for i, k := range keys {
		out[i] = Term{Equal: keys[:i:i], Strict: k}
	}
	return out
}

// Matches evaluates the Seek predicate in memory
func Matches(m Mode, anchor, s Signal) bool {
	for _, t := range Seek(m) {
		ok := true
		for _, e := range t.Equal {
			if cmpField(e.Field, s, anchor) != 0 {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}
		c := cmpField(t.Strict.Field, s, anchor)
		if t.Strict.Dir == Desc {
			c = -c
		}
		if c > 0 {
			return true
		}
	}
	return false
}
