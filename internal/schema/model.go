package schema

import (
	"sort"
	"strings"
)

// Kind is the logical type tag used to pick an equivalence rule.
type Kind int

const (
	KindOther Kind = iota
	KindText
	KindNumeric
	KindTemporal
	KindBinary
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindNumeric:
		return "numeric"
	case KindTemporal:
		return "temporal"
	case KindBinary:
		return "binary"
	default:
		return "other"
	}
}

// Table is an immutable table descriptor. Columns are in ordinal order.
type Table struct {
	Catalog string
	Schema  string
	Name    string
	Columns []*Column
}

type Column struct {
	Name        string
	DataType    string // normalized by the owning dialect
	Kind        Kind
	IsNullable  bool
	IsPK        bool
	KeyPosition int // 1-based position within the primary key, 0 when not a key column
}

// PrimaryKeys returns the key columns in key order.
func (t *Table) PrimaryKeys() []*Column {
	var pks []*Column
	for _, c := range t.Columns {
		if c.IsPK {
			pks = append(pks, c)
		}
	}
	sort.SliceStable(pks, func(i, j int) bool {
		return pks[i].KeyPosition < pks[j].KeyPosition
	})
	return pks
}

// HasPrimaryKey reports whether the table can participate in a merge-join.
func (t *Table) HasPrimaryKey() bool {
	for _, c := range t.Columns {
		if c.IsPK {
			return true
		}
	}
	return false
}

// Column finds a column by name, case-insensitively.
func (t *Table) Column(name string) *Column {
	for _, c := range t.Columns {
		if c.Name == name {
			return c
		}
	}
	for _, c := range t.Columns {
		if strings.EqualFold(c.Name, name) {
			return c
		}
	}
	return nil
}

// FullyQualifiedName joins the non-empty catalog, schema and name parts with dots.
func (t *Table) FullyQualifiedName() string {
	var parts []string
	for _, p := range []string{t.Catalog, t.Schema, t.Name} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ".")
}

// Row maps column names to values as materialised by the owning data source.
type Row map[string]any

// Get looks up a value by column name, falling back to a case-insensitive match
// since some drivers report upper-cased labels.
func (r Row) Get(name string) (any, bool) {
	if v, ok := r[name]; ok {
		return v, true
	}
	for k, v := range r {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	return nil, false
}
