package testutil

import (
	"context"
	"errors"
	"strings"
	"sync"

	"db-compare/internal/dialect"
	"db-compare/internal/dml"
	"db-compare/internal/platform"
	"db-compare/internal/schema"
)

// ErrInjected is returned by a FakeAdapter configured to fail.
var ErrInjected = errors.New("injected failure")

const selectPrefix = "SELECT * FROM "

// FakeAdapter is an in-memory platform.Adapter. Rows are served in the order given,
// so fixtures must already be sorted by primary key. DML text comes from the real
// builder of the named dialect.
type FakeAdapter struct {
	mu      sync.Mutex
	name    string
	builder *dml.Builder
	tables  map[string]*schema.Table
	rows    map[string][]schema.Row
	order   []string

	// FailQuery makes Query fail for the named table.
	FailQuery string
	// FailAfter makes iteration fail once this many rows were read (0 disables).
	FailAfter int
	// FailMetadata makes TableMetadata fail.
	FailMetadata bool

	opened int
	closed int
}

func NewFakeAdapter(name string) *FakeAdapter {
	return &FakeAdapter{
		name:    name,
		builder: dml.New(dialect.GetDialect(name)),
		tables:  make(map[string]*schema.Table),
		rows:    make(map[string][]schema.Row),
	}
}

// AddTable registers t with its rows.
func (f *FakeAdapter) AddTable(t *schema.Table, rows ...schema.Row) *FakeAdapter {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := strings.ToUpper(t.Name)
	if _, ok := f.tables[key]; !ok {
		f.order = append(f.order, t.Name)
	}
	f.tables[key] = t
	f.rows[key] = rows
	return f
}

// Open and Closed count the result sets handed out and released.
func (f *FakeAdapter) Open() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.opened
}

func (f *FakeAdapter) Closed() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func (f *FakeAdapter) Name() string {
	return f.name
}

func (f *FakeAdapter) TableMetadata(ctx context.Context, catalog, schemaName, name string) (*schema.Table, error) {
	if f.FailMetadata {
		return nil, ErrInjected
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tables[strings.ToUpper(name)], nil
}

func (f *FakeAdapter) ListTables(ctx context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.order...), nil
}

func (f *FakeAdapter) QuoteIdentifier(name string) string {
	return f.builder.Dialect().QuoteIdentifier(name)
}

// BuildOrderedSelect ignores keys; fixture rows are served in the order given.
func (f *FakeAdapter) BuildOrderedSelect(t *schema.Table, keys ...*schema.Column) string {
	return selectPrefix + t.Name
}

func (f *FakeAdapter) BuildInsert(t *schema.Table, row schema.Row) string {
	return f.builder.Insert(t, row)
}

func (f *FakeAdapter) BuildUpdate(t *schema.Table, pkCols, changed []*schema.Column, row schema.Row) string {
	return f.builder.Update(t, pkCols, changed, row)
}

func (f *FakeAdapter) BuildDelete(t *schema.Table, pkCols []*schema.Column, row schema.Row) string {
	return f.builder.Delete(t, pkCols, row)
}

func (f *FakeAdapter) Query(ctx context.Context, query string) (platform.RowIterator, error) {
	name := strings.TrimPrefix(query, selectPrefix)
	if f.FailQuery != "" && strings.EqualFold(f.FailQuery, name) {
		return nil, ErrInjected
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	rows, ok := f.rows[strings.ToUpper(name)]
	if !ok {
		return nil, errors.New("no such table: " + name)
	}
	f.opened++
	return &fakeRows{adapter: f, rows: rows, pos: -1, failAfter: f.FailAfter}, nil
}

type fakeRows struct {
	adapter   *FakeAdapter
	rows      []schema.Row
	pos       int
	failAfter int
	err       error
	closed    bool
}

func (r *fakeRows) Next() bool {
	if r.closed || r.err != nil {
		return false
	}
	if r.failAfter > 0 && r.pos+1 >= r.failAfter {
		r.err = ErrInjected
		return false
	}
	r.pos++
	return r.pos < len(r.rows)
}

func (r *fakeRows) MapScan(dest map[string]interface{}) error {
	for k, v := range r.rows[r.pos] {
		dest[k] = v
	}
	return nil
}

func (r *fakeRows) Err() error {
	return r.err
}

func (r *fakeRows) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	r.adapter.mu.Lock()
	r.adapter.closed++
	r.adapter.mu.Unlock()
	return nil
}
