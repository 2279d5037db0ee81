package cascade

import "strings"

// In matches rows whose Column value is one of Values.
// An empty Values list matches nothing.
type In struct {
	Column string
	Values []string
}

// Predicate selects the rows a step touches: at least one AnyOf clause must
// match and no NoneOf clause may match. An empty AnyOf selects nothing, so a
// step can never widen to a whole table by accident.
type Predicate struct {
	AnyOf  []In
	NoneOf []In
}

// Where starts a predicate with a single membership clause.
func Where(column string, values ...string) Predicate {
	return Predicate{AnyOf: []In{{Column: column, Values: values}}}
}

// Or adds an alternative clause.
func (p Predicate) Or(column string, values ...string) Predicate {
	p.AnyOf = append(append([]In(nil), p.AnyOf...), In{Column: column, Values: values})
	return p
}

// Except excludes rows whose column value is in values.
func (p Predicate) Except(column string, values ...string) Predicate {
	p.NoneOf = append(append([]In(nil), p.NoneOf...), In{Column: column, Values: values})
	return p
}

// Matches evaluates the predicate against a row of column -> value.
// Missing columns and empty values behave like SQL NULL: they never match.
func (p Predicate) Matches(row map[string]string) bool {
	matched := false
	for _, in := range p.AnyOf {
		if in.contains(row) {
			matched = true
			break
		}
	}
	if !matched {
		return false
	}
	for _, in := range p.NoneOf {
		if in.contains(row) {
			return false
		}
	}
	return true
}

func (in In) contains(row map[string]string) bool {
	v, ok := row[in.Column]
	if !ok || v == "" {
		return false
	}
	for _, want := range in.Values {
		if v == want {
			return true
		}
	}
	return false
}

// Empty reports whether the predicate can select no row at all.
func (p Predicate) Empty() bool {
	for _, in := range p.AnyOf {
		if len(in.Values) > 0 {
			return false
		}
	}
	return true
}

func (p Predicate) String() string {
	var b strings.Builder
	for i, in := range p.AnyOf {
		if i > 0 {
			b.WriteString(" OR ")
		}
		b.WriteString(in.Column)
		b.WriteString(" IN set")
	}
	for _, in := range p.NoneOf {
		b.WriteString(" AND ")
		b.WriteString(in.Column)
		b.WriteString(" NOT IN set")
	}
	return b.String()
}
