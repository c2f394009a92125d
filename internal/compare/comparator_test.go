package compare

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"db-compare/internal/mapping"
	"db-compare/internal/schema"
	"db-compare/internal/testutil"
)

func col(spec testutil.Col) *schema.Column {
	return testutil.NewTable("t", spec).Columns[0]
}

func TestNumericEquivalence(t *testing.T) {
	amount := col("amount decimal(10,2)")
	c := New("mysql", "postgres")

	assert.True(t, c.Equivalent(amount, "10.00", amount, int64(10)))
	assert.True(t, c.Equivalent(amount, decimal.RequireFromString("1.50"), amount, 1.5))
	assert.True(t, c.Equivalent(amount, "10.00", amount, " 10.0"))
	assert.False(t, c.Equivalent(amount, "10.01", amount, "10"))

	strict := New("mysql", "postgres", WithNumericTolerance(false))
	assert.False(t, strict.Equivalent(amount, "10.00", amount, "10"))
	assert.True(t, strict.Equivalent(amount, "10", amount, int64(10)))
}

func TestNullEquivalence(t *testing.T) {
	name := col("name varchar null")
	c := New("mysql", "mysql")

	assert.True(t, c.Equivalent(name, nil, name, nil))
	assert.False(t, c.Equivalent(name, nil, name, ""))
	assert.False(t, c.Equivalent(name, "x", name, nil))
}

func TestTextEquivalence(t *testing.T) {
	code := col("code char(8)")
	c := New("oracle", "sqlserver")

	assert.True(t, c.Equivalent(code, "ABC     ", code, "ABC"))
	assert.False(t, c.Equivalent(code, "abc", code, "ABC"))
	assert.False(t, c.Equivalent(code, " ABC", code, "ABC"))

	exact := New("oracle", "sqlserver", WithTrimText(false))
	assert.False(t, exact.Equivalent(code, "ABC  ", code, "ABC"))
}

func TestTemporalEquivalence(t *testing.T) {
	ts := col("created timestamp")
	c := New("mysql", "postgres")
	assert.Equal(t, time.Second, c.Precision())

	pgValue := time.Date(2024, 3, 1, 12, 30, 45, 123456000, time.UTC)
	assert.True(t, c.Equivalent(ts, "2024-03-01 12:30:45", ts, pgValue))

	fine := New("postgres", "oracle")
	assert.Equal(t, time.Microsecond, fine.Precision())
	assert.False(t, fine.Equivalent(ts, "2024-03-01 12:30:45", ts, pgValue))
	assert.True(t, fine.Equivalent(ts, "2024-03-01 12:30:45.123456", ts, pgValue))

	zoned := time.Date(2024, 3, 1, 12, 30, 45, 0, time.FixedZone("CET", 3600))
	assert.True(t, c.Equivalent(ts, zoned, ts, "2024-03-01T12:30:45"))

	override := New("postgres", "postgres", WithTemporalPrecision(time.Minute))
	assert.True(t, override.Equivalent(ts, "2024-03-01 12:30:00", ts, pgValue))
}

func TestBinaryEquivalence(t *testing.T) {
	blob := col("payload blob")
	c := New("postgres", "sqlserver")

	assert.True(t, c.Equivalent(blob, []byte{0xde, 0xad}, blob, "DEAD"))
	assert.True(t, c.Equivalent(blob, []byte("hi"), blob, []byte("hi")))
	assert.False(t, c.Equivalent(blob, []byte{0x00}, blob, []byte{0x00, 0x00}))
}

func TestMixedKindsUseMoreSpecificRule(t *testing.T) {
	c := New("sqlite", "postgres")
	text := col("amount text")
	num := col("amount numeric")

	assert.Equal(t, schema.KindNumeric, pairKind(text, num))
	assert.True(t, c.Equivalent(text, "10.0", num, int64(10)))
}

func TestEquivalenceIsTransitive(t *testing.T) {
	amount := col("amount decimal")
	c := New("mysql", "postgres")

	values := []any{"10", "10.00", int64(10), 10.0, decimal.RequireFromString("10.000")}
	for _, a := range values {
		for _, b := range values {
			assert.True(t, c.Equivalent(amount, a, amount, b), "%v vs %v", a, b)
		}
	}
}

func TestComparePrimaryKeys(t *testing.T) {
	src := testutil.NewTable("t", "region varchar pk", "id int pk")
	tgt := testutil.NewTable("t", "region varchar pk", "id int pk")
	p := mapping.NewPairing(src, tgt, nil)
	c := New("mysql", "postgres")

	row := func(region any, id any) schema.Row { return schema.Row{"region": region, "id": id} }

	assert.Equal(t, 0, c.ComparePrimaryKeys(p, row("EU", int64(2)), row("EU", "2.0")))
	assert.Equal(t, -1, c.ComparePrimaryKeys(p, row("EU", int64(2)), row("EU", int64(10))))
	assert.Equal(t, 1, c.ComparePrimaryKeys(p, row("US", int64(1)), row("EU", int64(9))))
	assert.Equal(t, -1, c.ComparePrimaryKeys(p, row(nil, int64(1)), row("EU", int64(1))))
	assert.Equal(t, 1, c.ComparePrimaryKeys(p, row("EU", int64(1)), row("EU", nil)))
	assert.Equal(t, -1, c.ComparePrimaryKeys(p, row("Z", int64(1)), row("a", int64(1))))
}

func TestComparePrimaryKeysTemporal(t *testing.T) {
	src := testutil.NewTable("t", "at timestamp pk")
	p := mapping.NewPairing(src, testutil.NewTable("t", "at timestamp pk"), nil)
	c := New("postgres", "postgres")

	early := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, -1, c.ComparePrimaryKeys(p, schema.Row{"at": early}, schema.Row{"at": "2024-01-01 00:00:01"}))
	assert.Equal(t, 0, c.ComparePrimaryKeys(p, schema.Row{"at": early}, schema.Row{"at": "2024-01-01 00:00:00"}))
}

func TestDelta(t *testing.T) {
	src := testutil.NewTable("t", "id int pk", "name varchar null", "qty int null", "photo blob null")
	tgt := testutil.NewTable("t", "id int pk", "name varchar null", "qty int null", "photo blob null")
	p := mapping.NewPairing(src, tgt, nil)
	c := New("mysql", "mysql")

	same := c.Delta(p,
		schema.Row{"id": int64(1), "name": "a", "qty": "3", "photo": nil},
		schema.Row{"id": int64(1), "name": "a", "qty": int64(3), "photo": nil})
	assert.True(t, same.Empty())

	d := c.Delta(p,
		schema.Row{"id": int64(1), "name": nil, "qty": int64(4), "photo": []byte{0xab}},
		schema.Row{"id": int64(1), "name": "a", "qty": int64(3), "photo": nil})
	assert.Equal(t, []*schema.Column{tgt.Columns[1], tgt.Columns[2], tgt.Columns[3]}, d.Columns())
	assert.Equal(t, schema.Row{"name": nil, "qty": "4", "photo": "ab"}, d.Row())
}
