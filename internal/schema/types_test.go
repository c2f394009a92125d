package schema

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestClassifyType(t *testing.T) {
	cases := map[string]Kind{
		"varchar(20)":    KindText,
		"bpchar":         KindText,
		"nvarchar":       KindText,
		"clob":           KindText,
		"int(11)":        KindNumeric,
		"number":         KindNumeric,
		"decimal(10,2)":  KindNumeric,
		"double":         KindNumeric,
		"money":          KindNumeric,
		"timestamp":      KindTemporal,
		"datetime2":      KindTemporal,
		"date":           KindTemporal,
		"bytea":          KindBinary,
		"varbinary(16)":  KindBinary,
		"long raw":       KindBinary,
		"binary_double":  KindNumeric,
		"blob":           KindBinary,
		"interval":       KindOther,
		"point":          KindOther,
		"bool":           KindOther,
		"uuid":           KindOther,
	}
	for in, want := range cases {
		assert.Equal(t, want, ClassifyType(in), in)
	}
}

func TestParseTime(t *testing.T) {
	want := time.Date(2024, 3, 1, 10, 20, 30, 123456000, time.UTC)
	for _, s := range []string{
		"2024-03-01 10:20:30.123456",
		"2024-03-01T10:20:30.123456Z",
		"2024-03-01-10.20.30.123456",
	} {
		got, ok := ParseTime(s)
		assert.True(t, ok, s)
		assert.True(t, want.Equal(got), s)
	}

	d, ok := ParseTime("2024-03-01")
	assert.True(t, ok)
	assert.Equal(t, 1, d.Day())

	_, ok = ParseTime("10:20:30")
	assert.False(t, ok)
	_, ok = ParseTime("not a time")
	assert.False(t, ok)
}

func TestParseDecimal(t *testing.T) {
	d, ok := ParseDecimal(" 10.00 ")
	assert.True(t, ok)
	assert.True(t, d.Equal(decimal.NewFromInt(10)))

	d, ok = ParseDecimal([]byte("1.5"))
	assert.True(t, ok)
	assert.Equal(t, "1.5", d.String())

	d, ok = ParseDecimal(int64(42))
	assert.True(t, ok)
	assert.Equal(t, "42", d.String())

	_, ok = ParseDecimal("abc")
	assert.False(t, ok)
	_, ok = ParseDecimal(struct{}{})
	assert.False(t, ok)
}

func TestFormatValue(t *testing.T) {
	s, ok := FormatValue(nil)
	assert.False(t, ok)
	assert.Empty(t, s)

	s, _ = FormatValue([]byte{0xde, 0xad})
	assert.Equal(t, "dead", s)

	s, _ = FormatValue(true)
	assert.Equal(t, "1", s)

	s, _ = FormatValue(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC))
	assert.Equal(t, "2024-01-02 03:04:05", s)

	s, _ = FormatValue(1.25)
	assert.Equal(t, "1.25", s)
}

func TestRowGet(t *testing.T) {
	r := Row{"ID": int64(1), "name": "a"}

	v, ok := r.Get("id")
	assert.True(t, ok)
	assert.Equal(t, int64(1), v)

	_, ok = r.Get("missing")
	assert.False(t, ok)
}
