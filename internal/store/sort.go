// internal/store/sort.go
package store

import (
	"sort"
)

// SortDocuments sorts docs in place by field. Documents missing the field
// sort last regardless of direction.
func SortDocuments(docs []Document, field string, desc bool) {
	sort.SliceStable(docs, func(i, j int) bool {
		a, aok := docs[i].Lookup(field)
		b, bok := docs[j].Lookup(field)
		if !aok || a == nil {
			return false
		}
		if !bok || b == nil {
			return true
		}
		cmp, ok := compareValues(a, b)
		if !ok {
			return false
		}
		if desc {
			return cmp > 0
		}
		return cmp < 0
	})
}
