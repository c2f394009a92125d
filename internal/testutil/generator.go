// Package testutil holds fixtures shared by the package tests: random rows, an
// in-memory adapter and sqlite-backed databases.
package testutil

import (
	"fmt"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"db-compare/internal/schema"
)

// Generator produces reproducible fixture rows for a table descriptor.
type Generator struct {
	f *gofakeit.Faker
}

func NewGenerator(seed int64) *Generator {
	return &Generator{f: gofakeit.New(seed)}
}

// Value generates a random value for col, guided by its kind and by common column names.
func (g *Generator) Value(col *schema.Column) any {
	name := strings.ToLower(col.Name)

	switch col.Kind {
	case schema.KindText:
		switch {
		case strings.Contains(name, "email"):
			return g.f.Email()
		case strings.Contains(name, "phone"):
			return g.f.Phone()
		case strings.Contains(name, "name"):
			return g.f.Name()
		case strings.Contains(name, "city"):
			return g.f.City()
		case strings.Contains(name, "zip") || strings.Contains(name, "postal"):
			return g.f.Zip()
		case strings.Contains(name, "desc") || strings.Contains(name, "comment"):
			return g.f.Sentence(6)
		}
		return g.f.Word()
	case schema.KindNumeric:
		if strings.Contains(col.DataType, "int") {
			return int64(g.f.Number(1, 50000))
		}
		return fmt.Sprintf("%.2f", g.f.Price(0.99, 999.99))
	case schema.KindTemporal:
		t := g.f.DateRange(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
		return t.UTC().Truncate(time.Second)
	case schema.KindBinary:
		return []byte(g.f.LetterN(8))
	}
	if col.DataType == "bool" || col.DataType == "boolean" {
		return g.f.Bool()
	}
	return g.f.Word()
}

// Rows generates n rows whose integer primary key runs from 1 to n, so the result is
// already in key order.
func (g *Generator) Rows(t *schema.Table, n int) []schema.Row {
	rows := make([]schema.Row, 0, n)
	for i := 1; i <= n; i++ {
		row := make(schema.Row, len(t.Columns))
		for _, c := range t.Columns {
			if c.IsPK {
				row[c.Name] = int64(i)
				continue
			}
			if c.IsNullable && g.f.Number(0, 9) == 0 {
				row[c.Name] = nil
				continue
			}
			row[c.Name] = g.Value(c)
		}
		rows = append(rows, row)
	}
	return rows
}

// Mutate returns a copy of row with one random non-key column given a fresh value.
func (g *Generator) Mutate(t *schema.Table, row schema.Row) schema.Row {
	out := make(schema.Row, len(row))
	for k, v := range row {
		out[k] = v
	}
	var candidates []*schema.Column
	for _, c := range t.Columns {
		if !c.IsPK {
			candidates = append(candidates, c)
		}
	}
	if len(candidates) == 0 {
		return out
	}
	col := candidates[g.f.Number(0, len(candidates)-1)]
	for {
		v := g.Value(col)
		if fmt.Sprint(v) != fmt.Sprint(out[col.Name]) {
			out[col.Name] = v
			return out
		}
	}
}

// Intn returns a random number in [0, n).
func (g *Generator) Intn(n int) int {
	return g.f.Number(0, n-1)
}
