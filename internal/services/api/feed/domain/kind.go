// Package domain holds the feed contracts: listing kinds, page shapes and the query spec
package domain

// Kind is a listing type served by the feed
type Kind uint8

const (
	KindServices Kind = iota + 1
	KindLocalJobs
	KindUsedProducts
)

// Kinds lists every served kind in route order
var Kinds = []Kind{KindServices, KindLocalJobs, KindUsedProducts}

var slugs = map[Kind]string{
	KindServices:     "services",
	KindLocalJobs:    "local-jobs",
	KindUsedProducts: "used-products",
}

// Slug is the path segment and metrics label of k
func (k Kind) Slug() string {
	if s, ok := slugs[k]; ok {
		return s
	}
	return "unknown"
}

func (k Kind) String() string { return k.Slug() }

// Valid reports whether k is served
func (k Kind) Valid() bool { _, ok := slugs[k]; return ok }

// ParseKind maps a slug back to its Kind
func ParseKind(slug string) (Kind, bool) {
	for k, s := range slugs {
		if s == slug {
			return k, true
		}
	}
	return 0, false
}
