package dml

import (
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"db-compare/internal/dialect"
	"db-compare/internal/schema"
)

// Builder renders the statements exchanged with one engine.
type Builder struct {
	d dialect.Dialect
}

func New(d dialect.Dialect) *Builder {
	return &Builder{d: d}
}

func (b *Builder) Dialect() dialect.Dialect {
	return b.d
}

// QualifiedName quotes each non-empty part of the table name.
func (b *Builder) QualifiedName(t *schema.Table) string {
	var parts []string
	for _, p := range []string{t.Catalog, t.Schema, t.Name} {
		if p != "" {
			parts = append(parts, b.d.QuoteIdentifier(p))
		}
	}
	return strings.Join(parts, ".")
}

// OrderedSelect reads every column ordered by keys, or by the primary key when no
// keys are given.
func (b *Builder) OrderedSelect(t *schema.Table, keys ...*schema.Column) string {
	cols := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		cols[i] = b.d.QuoteIdentifier(c.Name)
	}
	pks := keys
	if len(pks) == 0 {
		pks = t.PrimaryKeys()
	}
	order := make([]string, len(pks))
	for i, c := range pks {
		order[i] = b.d.OrderByExpression(b.d.QuoteIdentifier(c.Name), c.Kind == schema.KindText)
	}

	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(strings.Join(cols, ", "))
	sb.WriteString(" FROM ")
	sb.WriteString(b.QualifiedName(t))
	sb.WriteString(" WHERE 1=1")
	if len(order) > 0 {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(strings.Join(order, ", "))
	}
	return sb.String()
}

// Insert writes every column of t present in row. Columns missing from row are left
// to their defaults.
func (b *Builder) Insert(t *schema.Table, row schema.Row) string {
	var cols, vals []string
	for _, c := range t.Columns {
		v, ok := row.Get(c.Name)
		if !ok {
			continue
		}
		cols = append(cols, b.d.QuoteIdentifier(c.Name))
		vals = append(vals, b.Literal(c, v))
	}
	return "INSERT INTO " + b.QualifiedName(t) + " (" + strings.Join(cols, ", ") + ") VALUES (" + strings.Join(vals, ", ") + ");"
}

// Update sets the changed columns of the row identified by pkCols.
func (b *Builder) Update(t *schema.Table, pkCols, changed []*schema.Column, row schema.Row) string {
	sets := make([]string, len(changed))
	for i, c := range changed {
		v, _ := row.Get(c.Name)
		sets[i] = b.d.QuoteIdentifier(c.Name) + " = " + b.Literal(c, v)
	}
	return "UPDATE " + b.QualifiedName(t) + " SET " + strings.Join(sets, ", ") + b.where(pkCols, row) + ";"
}

func (b *Builder) Delete(t *schema.Table, pkCols []*schema.Column, row schema.Row) string {
	return "DELETE FROM " + b.QualifiedName(t) + b.where(pkCols, row) + ";"
}

func (b *Builder) where(pkCols []*schema.Column, row schema.Row) string {
	conds := make([]string, len(pkCols))
	for i, c := range pkCols {
		v, _ := row.Get(c.Name)
		if v == nil {
			conds[i] = b.d.QuoteIdentifier(c.Name) + " IS NULL"
			continue
		}
		conds[i] = b.d.QuoteIdentifier(c.Name) + " = " + b.Literal(c, v)
	}
	return " WHERE " + strings.Join(conds, " AND ")
}

// Literal renders v as a SQL literal suitable for col.
// Text values bound for binary columns are taken to be hexadecimal.
func (b *Builder) Literal(col *schema.Column, v any) string {
	if raw, ok := v.([]byte); ok && col.Kind == schema.KindBinary {
		return b.d.BinaryLiteral(hex.EncodeToString(raw))
	}
	s, ok := schema.FormatValue(v)
	if !ok {
		return "NULL"
	}

	switch col.Kind {
	case schema.KindNumeric:
		trimmed := strings.TrimSpace(s)
		if _, err := decimal.NewFromString(trimmed); err == nil {
			return trimmed
		}
		if bv, err := strconv.ParseBool(trimmed); err == nil {
			return b.d.BooleanLiteral(bv)
		}
	case schema.KindTemporal:
		if ts, ok := schema.ParseTime(s); ok {
			return b.d.TimestampLiteral(ts)
		}
	case schema.KindBinary:
		h := strings.ToLower(strings.TrimSpace(s))
		if _, err := hex.DecodeString(h); err != nil {
			h = hex.EncodeToString([]byte(s))
		}
		return b.d.BinaryLiteral(h)
	default:
		if isBooleanType(col.DataType) {
			if bv, err := strconv.ParseBool(strings.TrimSpace(s)); err == nil {
				return b.d.BooleanLiteral(bv)
			}
		}
	}
	return b.d.StringLiteral(s)
}

func isBooleanType(dataType string) bool {
	switch strings.ToLower(dataType) {
	case "bool", "boolean", "bit":
		return true
	}
	return false
}
