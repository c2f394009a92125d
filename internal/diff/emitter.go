package diff

import (
	"fmt"
	"io"
	"sync"

	"db-compare/internal/compare"
	"db-compare/internal/mapping"
	"db-compare/internal/platform"
	"db-compare/internal/schema"
)

// Emitter appends reconciliation statements for the target engine to a writer.
// With no writer every call is a no-op. Writes from concurrent tables are serialised.
type Emitter struct {
	mu         sync.Mutex
	w          io.Writer
	target     platform.Adapter
	statements int64
}

func NewEmitter(w io.Writer, target platform.Adapter) *Emitter {
	return &Emitter{w: w, target: target}
}

func (e *Emitter) Enabled() bool {
	return e != nil && e.w != nil
}

// Statements is the number of statements written so far.
func (e *Emitter) Statements() int64 {
	if e == nil {
		return 0
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.statements
}

// Insert writes the source row into the target table through the column mapping.
func (e *Emitter) Insert(p *mapping.Pairing, src schema.Row) error {
	if !e.Enabled() {
		return nil
	}
	return e.write(e.target.BuildInsert(p.Target, p.TargetRow(src)))
}

// Update sets the delta columns on the target row, identified by its current key.
func (e *Emitter) Update(p *mapping.Pairing, tgt schema.Row, delta compare.Delta) error {
	if !e.Enabled() || delta.Empty() {
		return nil
	}
	pks := p.Target.PrimaryKeys()
	row := delta.Row()
	for _, c := range pks {
		v, _ := tgt.Get(c.Name)
		row[c.Name] = v
	}
	return e.write(e.target.BuildUpdate(p.Target, pks, delta.Columns(), row))
}

// Delete removes the target row by its current key.
func (e *Emitter) Delete(p *mapping.Pairing, tgt schema.Row) error {
	if !e.Enabled() {
		return nil
	}
	return e.write(e.target.BuildDelete(p.Target, p.Target.PrimaryKeys(), tgt))
}

func (e *Emitter) write(stmt string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, err := io.WriteString(e.w, stmt+"\n"); err != nil {
		return fmt.Errorf("write diff statement: %w", err)
	}
	e.statements++
	return nil
}
