package engine

import (
	"fmt"

	"db-compare/internal/compare"
	"db-compare/internal/mapping"
	"db-compare/internal/schema"
)

// Outcome classifies one primary key seen during the merge.
type Outcome int

const (
	Matched Outcome = iota
	Changed
	SourceOnly
	TargetOnly
)

func (o Outcome) String() string {
	switch o {
	case Matched:
		return "matched"
	case Changed:
		return "changed"
	case SourceOnly:
		return "missing"
	case TargetOnly:
		return "extra"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// DiffWriter receives the statements needed to bring the target in line.
// *diff.Emitter implements it.
type DiffWriter interface {
	Insert(p *mapping.Pairing, src schema.Row) error
	Update(p *mapping.Pairing, tgt schema.Row, delta compare.Delta) error
	Delete(p *mapping.Pairing, tgt schema.Row) error
}

// TableError is a fatal failure while comparing one table.
type TableError struct {
	Table string
	Err   error
}

func (e *TableError) Error() string {
	return fmt.Sprintf("compare table %s: %v", e.Table, e.Err)
}

func (e *TableError) Unwrap() error {
	return e.Err
}
