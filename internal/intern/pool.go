// Package intern implements the string / identifier pool: every identifier,
// keyword spelling and literal text seen by the lexer is deduplicated into a
// dense StringId so that identifier equality downstream is a single integer
// comparison.
package intern

// StringId names an interned string. The zero value is reserved and never
// returned by Pool.Intern; use it as a sentinel for "no string" fields.
type StringId uint32

const invalidStringId StringId = 0

// Pool owns the canonical storage for every interned string for the
// lifetime of a compilation. It is embedded in the document database
// (see internal/source) rather than constructed per document, matching the
// "owned by the database" lifetime the data model calls for.
type Pool struct {
	strings []string
	index   map[string]StringId
}

// New constructs an empty pool. Slot 0 is reserved so StringId's zero value
// never aliases a real interned string.
func New() *Pool {
	p := &Pool{
		strings: make([]string, 1, 256),
		index:   make(map[string]StringId, 256),
	}
	p.strings[0] = ""
	return p
}

// Intern returns the StringId for s, allocating a new slot only if s has
// not been seen before by this pool.
func (p *Pool) Intern(s string) StringId {
	if id, ok := p.index[s]; ok {
		return id
	}
	id := StringId(len(p.strings))
	p.strings = append(p.strings, s)
	p.index[s] = id
	return id
}

// Lookup returns the borrowed string view for id. Panics on an id this pool
// never issued.
func (p *Pool) Lookup(id StringId) string {
	return p.strings[id]
}

// Len reports how many distinct strings (excluding the reserved slot) have
// been interned.
func (p *Pool) Len() int {
	return len(p.strings) - 1
}
