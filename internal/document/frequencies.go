package document

// Frequencies maps each term to its number of occurrences. Terms are
// remembered in order of first occurrence so iteration is deterministic.
type Frequencies struct {
	counts map[string]int
	order  []string
	total  int
}

// Count tallies tokens into Frequencies.
func Count(tokens []string) Frequencies {
	f := Frequencies{
		counts: make(map[string]int, len(tokens)),
		order:  make([]string, 0, len(tokens)),
		total:  len(tokens),
	}
	for _, tok := range tokens {
		if _, seen := f.counts[tok]; !seen {
			f.order = append(f.order, tok)
		}
		f.counts[tok]++
	}
	return f
}

// Count returns how often term occurs, zero when absent.
func (f Frequencies) Count(term string) int {
	return f.counts[term]
}

// Has reports whether term occurs at least once.
func (f Frequencies) Has(term string) bool {
	return f.counts[term] > 0
}

// Terms returns the distinct terms in order of first occurrence.
func (f Frequencies) Terms() []string {
	out := make([]string, len(f.order))
	copy(out, f.order)
	return out
}

// Total is the sum of all counts.
func (f Frequencies) Total() int {
	return f.total
}

// Distinct is the number of different terms.
func (f Frequencies) Distinct() int {
	return len(f.order)
}

// Map returns a copy of the counts.
func (f Frequencies) Map() map[string]int {
	out := make(map[string]int, len(f.counts))
	for term, n := range f.counts {
		out[term] = n
	}
	return out
}
