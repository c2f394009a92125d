package compare

import (
	"db-compare/internal/mapping"
	"db-compare/internal/schema"
)

// Change is one column of a delta: the target column and the source value as text
// (nil for NULL).
type Change struct {
	Column *schema.Column
	Value  any
}

// Delta lists the changed target columns in source column order.
type Delta []Change

func (d Delta) Empty() bool {
	return len(d) == 0
}

func (d Delta) Columns() []*schema.Column {
	cols := make([]*schema.Column, len(d))
	for i, ch := range d {
		cols[i] = ch.Column
	}
	return cols
}

// Row returns the delta keyed by target column name.
func (d Delta) Row() schema.Row {
	row := make(schema.Row, len(d))
	for _, ch := range d {
		row[ch.Column.Name] = ch.Value
	}
	return row
}

// Delta compares every mapped non-key column of two rows sharing a primary key.
func (c *Comparator) Delta(p *mapping.Pairing, src, tgt schema.Row) Delta {
	var d Delta
	for _, cp := range p.ValuePairs() {
		sv, _ := src.Get(cp.Source.Name)
		tv, _ := tgt.Get(cp.Target.Name)
		if c.Equivalent(cp.Source, sv, cp.Target, tv) {
			continue
		}
		var value any
		if s, ok := schema.FormatValue(sv); ok {
			value = s
		}
		d = append(d, Change{Column: cp.Target, Value: value})
	}
	return d
}
