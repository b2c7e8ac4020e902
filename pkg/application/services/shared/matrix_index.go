package shared

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vsinha/riskbase/pkg/domain/entities"
)

// MatrixKey identifies a policy row: the policy subset it belongs to and its
// concatenated lookup key. Different subsets may share the same key string.
type MatrixKey struct {
	Type        entities.MatrixType
	Concatenado string
}

func (k MatrixKey) String() string {
	return fmt.Sprintf("%s|%s", k.Type, k.Concatenado)
}

// MatrixIndex is the in-memory lookup structure built from the policy
// matrix once per run. It is never modified after construction and can be
// read from any number of goroutines.
type MatrixIndex struct {
	entries    map[MatrixKey]*entities.MatrixEntry
	duplicates []MatrixKey
}

// NewMatrixIndex indexes entries by (tipo_matriz, concatenado). When two
// entries share a key the later one wins; the shadowed keys are reported by
// Duplicates.
func NewMatrixIndex(entries []*entities.MatrixEntry) *MatrixIndex {
	idx := &MatrixIndex{entries: make(map[MatrixKey]*entities.MatrixEntry, len(entries))}
	for _, e := range entries {
		if e == nil {
			continue
		}
		key := MatrixKey{Type: e.TipoMatriz, Concatenado: strings.TrimSpace(e.Concatenado)}
		if _, exists := idx.entries[key]; exists {
			idx.duplicates = append(idx.duplicates, key)
		}
		idx.entries[key] = e
	}
	return idx
}

// Get returns the entry stored under (t, key).
func (mi *MatrixIndex) Get(t entities.MatrixType, key string) (*entities.MatrixEntry, bool) {
	e, ok := mi.entries[MatrixKey{Type: t, Concatenado: key}]
	return e, ok
}

// Lookup returns the classification stored under (t, key).
func (mi *MatrixIndex) Lookup(t entities.MatrixType, key string) (entities.Classification, bool) {
	e, ok := mi.Get(t, key)
	if !ok {
		return entities.Classification{}, false
	}
	return e.Classification(), true
}

// Has checks if an entry exists for (t, key)
func (mi *MatrixIndex) Has(t entities.MatrixType, key string) bool {
	_, ok := mi.Get(t, key)
	return ok
}

// Size returns the number of distinct keys
func (mi *MatrixIndex) Size() int {
	return len(mi.entries)
}

// Duplicates returns the keys that appeared more than once in the input.
func (mi *MatrixIndex) Duplicates() []MatrixKey {
	return append([]MatrixKey(nil), mi.duplicates...)
}

// CountByType returns the number of keys held for each policy subset.
func (mi *MatrixIndex) CountByType() map[entities.MatrixType]int {
	counts := make(map[entities.MatrixType]int)
	for key := range mi.entries {
		counts[key.Type]++
	}
	return counts
}

// Types returns the policy subsets present, sorted.
func (mi *MatrixIndex) Types() []entities.MatrixType {
	counts := mi.CountByType()
	types := make([]entities.MatrixType, 0, len(counts))
	for t := range counts {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// String returns a string representation of the index for debugging
func (mi *MatrixIndex) String() string {
	if len(mi.entries) == 0 {
		return "MatrixIndex{empty}"
	}

	counts := mi.CountByType()
	var b strings.Builder
	fmt.Fprintf(&b, "MatrixIndex{%d entries:\n", len(mi.entries))
	for _, t := range mi.Types() {
		fmt.Fprintf(&b, "  %s: %d\n", t, counts[t])
	}
	b.WriteString("}")
	return b.String()
}
