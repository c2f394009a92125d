package mapping

import (
	"strings"

	"db-compare/internal/schema"
)

// ColumnPair associates one source column with its target counterpart.
type ColumnPair struct {
	Source *schema.Column
	Target *schema.Column
}

// Pairing is the unit of comparison: two table descriptors and the column mapping
// between them. It is immutable once resolved.
type Pairing struct {
	Source    *schema.Table
	Target    *schema.Table
	Columns   []ColumnPair // source column order, mapped columns only
	Transform *Transform
}

// NewPairing maps columns by case-insensitive name, letting transform overrides
// replace individual associations. Each target column is used at most once.
func NewPairing(source, target *schema.Table, transform *Transform) *Pairing {
	p := &Pairing{Source: source, Target: target, Transform: transform}

	assigned := make(map[*schema.Column]*schema.Column)
	used := make(map[*schema.Column]bool)
	for _, sc := range source.Columns {
		name, ok := transform.TargetColumn(sc.Name)
		if !ok {
			continue
		}
		if tc := target.Column(name); tc != nil && !used[tc] {
			assigned[sc] = tc
			used[tc] = true
		}
	}
	for _, sc := range source.Columns {
		if _, ok := assigned[sc]; ok {
			continue
		}
		if _, overridden := transform.TargetColumn(sc.Name); overridden {
			continue
		}
		if tc := target.Column(sc.Name); tc != nil && !used[tc] {
			assigned[sc] = tc
			used[tc] = true
		}
	}
	for _, sc := range source.Columns {
		if tc, ok := assigned[sc]; ok {
			p.Columns = append(p.Columns, ColumnPair{Source: sc, Target: tc})
		}
	}
	return p
}

func (p *Pairing) TargetFor(source *schema.Column) *schema.Column {
	for _, cp := range p.Columns {
		if cp.Source == source {
			return cp.Target
		}
	}
	return nil
}

func (p *Pairing) SourceFor(target *schema.Column) *schema.Column {
	for _, cp := range p.Columns {
		if cp.Target == target {
			return cp.Source
		}
	}
	return nil
}

// KeyPairs returns the mapped primary key columns in source key order. The second
// result lists source key columns without a target counterpart.
func (p *Pairing) KeyPairs() ([]ColumnPair, []string) {
	var pairs []ColumnPair
	var unmapped []string
	for _, sc := range p.Source.PrimaryKeys() {
		if tc := p.TargetFor(sc); tc != nil {
			pairs = append(pairs, ColumnPair{Source: sc, Target: tc})
		} else {
			unmapped = append(unmapped, sc.Name)
		}
	}
	return pairs, unmapped
}

// TargetKeyOrder returns the target columns mapped from the source key, in source
// key order. ok is false unless they are exactly the target's primary key columns,
// since a target keyed differently cannot be merged or addressed by DELETE/UPDATE.
func (p *Pairing) TargetKeyOrder() (cols []*schema.Column, ok bool) {
	pairs, unmapped := p.KeyPairs()
	if len(unmapped) > 0 {
		return nil, false
	}
	targetKey := p.Target.PrimaryKeys()
	if len(pairs) != len(targetKey) {
		return nil, false
	}
	inKey := make(map[*schema.Column]bool, len(targetKey))
	for _, c := range targetKey {
		inKey[c] = true
	}
	for _, kp := range pairs {
		if !inKey[kp.Target] {
			return nil, false
		}
		cols = append(cols, kp.Target)
	}
	return cols, true
}

// ValuePairs returns the mapped non-key columns.
func (p *Pairing) ValuePairs() []ColumnPair {
	var pairs []ColumnPair
	for _, cp := range p.Columns {
		if !cp.Source.IsPK {
			pairs = append(pairs, cp)
		}
	}
	return pairs
}

// TargetRow re-keys a source row by target column names, dropping unmapped columns.
func (p *Pairing) TargetRow(source schema.Row) schema.Row {
	row := make(schema.Row, len(p.Columns))
	for _, cp := range p.Columns {
		if v, ok := source.Get(cp.Source.Name); ok {
			row[cp.Target.Name] = v
		}
	}
	return row
}

func (p *Pairing) String() string {
	var sb strings.Builder
	sb.WriteString(p.Source.FullyQualifiedName())
	sb.WriteString(" -> ")
	sb.WriteString(p.Target.FullyQualifiedName())
	return sb.String()
}
