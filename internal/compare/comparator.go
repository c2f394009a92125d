package compare

import (
	"encoding/hex"
	"strings"
	"time"

	"db-compare/internal/dialect"
	"db-compare/internal/mapping"
	"db-compare/internal/schema"
)

type Option func(*Comparator)

// WithNumericTolerance toggles scale-insensitive numeric equality (10.00 == 10).
func WithNumericTolerance(enabled bool) Option {
	return func(c *Comparator) { c.numericTolerance = enabled }
}

// WithTrimText toggles ignoring trailing blanks of fixed-length character columns.
func WithTrimText(enabled bool) Option {
	return func(c *Comparator) { c.trimText = enabled }
}

// WithTemporalPrecision overrides the precision temporal values are truncated to.
func WithTemporalPrecision(d time.Duration) Option {
	return func(c *Comparator) {
		if d > 0 {
			c.precision = d
		}
	}
}

// Comparator decides equivalence and key order of values read from two engines.
// Each rule reduces a value to a canonical form, so equivalence is transitive.
type Comparator struct {
	source string
	target string

	precision        time.Duration
	numericTolerance bool
	trimText         bool
}

// New builds a comparator for a (source, target) engine pair. Temporal values are
// truncated to the coarser of the two engines' timestamp precision.
func New(sourcePlatform, targetPlatform string, opts ...Option) *Comparator {
	sp := dialect.GetDialect(sourcePlatform).TimestampPrecision()
	tp := dialect.GetDialect(targetPlatform).TimestampPrecision()
	c := &Comparator{
		source:           sourcePlatform,
		target:           targetPlatform,
		precision:        max(sp, tp),
		numericTolerance: true,
		trimText:         true,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Comparator) Precision() time.Duration {
	return c.precision
}

// Equivalent reports whether a source value and a target value represent the same data.
func (c *Comparator) Equivalent(srcCol *schema.Column, srcVal any, tgtCol *schema.Column, tgtVal any) bool {
	kind := pairKind(srcCol, tgtCol)
	a, aok := c.canonical(kind, srcVal)
	b, bok := c.canonical(kind, tgtVal)
	if !aok || !bok {
		return aok == bok
	}
	return a == b
}

// ComparePrimaryKeys orders a source row against a target row by the mapped key
// columns. Nulls sort first.
func (c *Comparator) ComparePrimaryKeys(p *mapping.Pairing, src, tgt schema.Row) int {
	keys, _ := p.KeyPairs()
	for _, kp := range keys {
		sv, _ := src.Get(kp.Source.Name)
		tv, _ := tgt.Get(kp.Target.Name)
		if r := c.compareKey(pairKind(kp.Source, kp.Target), sv, tv); r != 0 {
			return r
		}
	}
	return 0
}

func (c *Comparator) compareKey(kind schema.Kind, a, b any) int {
	if a == nil || b == nil {
		switch {
		case a == nil && b == nil:
			return 0
		case a == nil:
			return -1
		default:
			return 1
		}
	}

	switch kind {
	case schema.KindNumeric:
		da, aok := schema.ParseDecimal(a)
		db, bok := schema.ParseDecimal(b)
		if aok && bok {
			return da.Cmp(db)
		}
	case schema.KindTemporal:
		ta, aok := c.temporal(a)
		tb, bok := c.temporal(b)
		if aok && bok {
			return ta.Compare(tb)
		}
	}

	sa, _ := c.canonical(kind, a)
	sb, _ := c.canonical(kind, b)
	return strings.Compare(sa, sb)
}

// canonical reduces v to the form compared for equality. The second result is false for NULL.
func (c *Comparator) canonical(kind schema.Kind, v any) (string, bool) {
	if v == nil {
		return "", false
	}

	switch kind {
	case schema.KindNumeric:
		if c.numericTolerance {
			if d, ok := schema.ParseDecimal(v); ok {
				return d.String(), true
			}
		}
	case schema.KindTemporal:
		if t, ok := c.temporal(v); ok {
			return t.Format(schema.TimeLayout), true
		}
	case schema.KindBinary:
		return binaryHex(v), true
	}

	s, _ := schema.FormatValue(v)
	if c.trimText {
		s = strings.TrimRight(s, " ")
	}
	if kind == schema.KindNumeric {
		s = strings.TrimSpace(s)
	}
	return s, true
}

// temporal parses v and truncates it to the comparator precision. Wall-clock time is
// kept; zones are dropped since not every engine stores one.
func (c *Comparator) temporal(v any) (time.Time, bool) {
	var t time.Time
	switch x := v.(type) {
	case time.Time:
		t = x
	default:
		s, _ := schema.FormatValue(v)
		parsed, ok := schema.ParseTime(s)
		if !ok {
			return time.Time{}, false
		}
		t = parsed
	}
	wall := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
	return wall.Truncate(c.precision), true
}

func binaryHex(v any) string {
	switch x := v.(type) {
	case []byte:
		return hex.EncodeToString(x)
	case string:
		h := strings.ToLower(strings.TrimSpace(x))
		if _, err := hex.DecodeString(h); err == nil {
			return h
		}
		return hex.EncodeToString([]byte(x))
	default:
		s, _ := schema.FormatValue(v)
		return strings.ToLower(s)
	}
}

var kindRank = map[schema.Kind]int{
	schema.KindOther:    0,
	schema.KindText:     1,
	schema.KindNumeric:  2,
	schema.KindTemporal: 3,
	schema.KindBinary:   4,
}

// pairKind picks the rule for a column pair. Both sides are always reduced with the
// same rule; the more specific kind wins.
func pairKind(a, b *schema.Column) schema.Kind {
	switch {
	case a == nil && b == nil:
		return schema.KindOther
	case a == nil:
		return b.Kind
	case b == nil:
		return a.Kind
	}
	if kindRank[b.Kind] > kindRank[a.Kind] {
		return b.Kind
	}
	return a.Kind
}
