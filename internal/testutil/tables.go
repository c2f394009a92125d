package testutil

import (
	"strings"

	"db-compare/internal/schema"
)

// Col describes a fixture column as "name type", with a trailing " pk" for key columns
// and " null" for nullable ones.
type Col string

// NewTable builds a descriptor from column specs such as "id int pk" or "note varchar(20) null".
func NewTable(name string, cols ...Col) *schema.Table {
	t := &schema.Table{Name: name}
	position := 0
	for _, spec := range cols {
		fields := strings.Fields(string(spec))
		c := &schema.Column{Name: fields[0], DataType: "varchar"}
		if len(fields) > 1 {
			c.DataType = strings.ToLower(fields[1])
		}
		for _, f := range fields[min(len(fields), 2):] {
			switch f {
			case "pk":
				position++
				c.IsPK = true
				c.KeyPosition = position
			case "null":
				c.IsNullable = true
			}
		}
		c.Kind = schema.ClassifyType(c.DataType)
		t.Columns = append(t.Columns, c)
	}
	return t
}
