package cursor

import (
	"context"
	"fmt"
	"io"
	"time"

	"db-compare/internal/platform"
	"db-compare/internal/schema"
)

// DefaultProgressInterval is the number of rows between progress notifications.
const DefaultProgressInterval = 10000

// Progress is handed to the observer while a table is being read.
type Progress struct {
	Table   string
	Rows    int64
	Elapsed time.Duration
}

type Option func(*Cursor)

// WithProgress calls fn every interval rows. A non-positive interval uses the default.
func WithProgress(interval int64, fn func(Progress)) Option {
	return func(c *Cursor) {
		if interval <= 0 {
			interval = DefaultProgressInterval
		}
		c.interval = interval
		c.onProgress = fn
	}
}

// WithKeyOrder orders the rows by keys instead of the table's own primary key.
func WithKeyOrder(keys []*schema.Column) Option {
	return func(c *Cursor) { c.keys = keys }
}

// Cursor streams the rows of one table in primary key order.
// It is forward-only and not safe for concurrent use.
type Cursor struct {
	table   *schema.Table
	rows    platform.RowIterator
	count   int64
	started time.Time
	done    bool
	closed  bool

	interval   int64
	onProgress func(Progress)
	keys       []*schema.Column
}

// Open runs the ordered select for table on adapter.
func Open(ctx context.Context, adapter platform.Adapter, table *schema.Table, opts ...Option) (*Cursor, error) {
	if err := table.Validate(); err != nil {
		return nil, err
	}
	c := &Cursor{table: table, interval: DefaultProgressInterval, started: time.Now()}
	for _, opt := range opts {
		opt(c)
	}

	query := adapter.BuildOrderedSelect(table, c.keys...)
	rows, err := adapter.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("open cursor on %s: %w", table.FullyQualifiedName(), err)
	}
	c.rows = rows
	return c, nil
}

// Next returns the next row, or io.EOF once the result set is exhausted.
func (c *Cursor) Next() (schema.Row, error) {
	if c.done || c.closed {
		return nil, io.EOF
	}
	if !c.rows.Next() {
		c.done = true
		if err := c.rows.Err(); err != nil {
			return nil, fmt.Errorf("read %s: %w", c.table.FullyQualifiedName(), err)
		}
		return nil, io.EOF
	}

	values := make(map[string]interface{}, len(c.table.Columns))
	if err := c.rows.MapScan(values); err != nil {
		return nil, fmt.Errorf("scan %s: %w", c.table.FullyQualifiedName(), err)
	}
	for name, v := range values {
		b, ok := v.([]byte)
		if !ok {
			continue
		}
		if col := c.table.Column(name); col == nil || col.Kind != schema.KindBinary {
			values[name] = string(b)
		}
	}

	c.count++
	if c.onProgress != nil && c.count%c.interval == 0 {
		c.onProgress(Progress{Table: c.table.Name, Rows: c.count, Elapsed: time.Since(c.started)})
	}
	return schema.Row(values), nil
}

// Count is the number of rows returned so far.
func (c *Cursor) Count() int64 {
	return c.count
}

func (c *Cursor) Table() *schema.Table {
	return c.table
}

// Close releases the result set. It is safe to call more than once.
func (c *Cursor) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	return c.rows.Close()
}
