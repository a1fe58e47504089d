package queryir

import (
	"slices"
	"strings"
)

// Clause is one conjunction of a filter in disjunctive normal form. With and
// Without hold component names, sorted and free of duplicates.
type Clause struct {
	With    []string
	Without []string
}

// Contradictions returns the components the clause both requires and
// excludes.
func (c Clause) Contradictions() []string {
	var out []string
	for _, w := range c.With {
		if _, found := slices.BinarySearch(c.Without, w); found {
			out = append(out, w)
		}
	}
	return out
}

// String renders the clause as "With(A) & Without(B)" or "true" when it
// has no terms.
func (c Clause) String() string {
	var parts []string
	for _, w := range c.With {
		parts = append(parts, "With("+w+")")
	}
	for _, w := range c.Without {
		parts = append(parts, "Without("+w+")")
	}
	if len(parts) == 0 {
		return "true"
	}
	return strings.Join(parts, " & ")
}

// Clauses expands f into disjunctive normal form. A nil filter is a single
// empty clause (matches every row); an empty Any yields no clauses (matches
// no row). Changed and Added count as With.
func Clauses(f Filter) []Clause {
	raw := expand(f)
	out := make([]Clause, len(raw))
	for i, r := range raw {
		out[i] = r.normalize()
	}
	return out
}

type rawClause struct {
	with    []string
	without []string
}

func (r rawClause) and(o rawClause) rawClause {
	return rawClause{
		with:    append(slices.Clone(r.with), o.with...),
		without: append(slices.Clone(r.without), o.without...),
	}
}

func (r rawClause) normalize() Clause {
	with := slices.Clone(r.with)
	without := slices.Clone(r.without)
	slices.Sort(with)
	slices.Sort(without)
	return Clause{With: slices.Compact(with), Without: slices.Compact(without)}
}

func expand(f Filter) []rawClause {
	switch f := f.(type) {
	case nil:
		return []rawClause{{}}
	case With:
		return []rawClause{{with: []string{f.Component}}}
	case Changed:
		return []rawClause{{with: []string{f.Component}}}
	case Added:
		return []rawClause{{with: []string{f.Component}}}
	case Without:
		return []rawClause{{without: []string{f.Component}}}
	case All:
		acc := []rawClause{{}}
		for _, child := range f.Filters {
			next := expand(child)
			product := make([]rawClause, 0, len(acc)*len(next))
			for _, a := range acc {
				for _, b := range next {
					product = append(product, a.and(b))
				}
			}
			acc = product
		}
		return acc
	case Any:
		var out []rawClause
		for _, child := range f.Filters {
			out = append(out, expand(child)...)
		}
		return out
	default:
		return []rawClause{{}}
	}
}
