package schema_test

import (
	"context"
	"regexp"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"db-compare/internal/dialect"
	"db-compare/internal/schema"
)

func TestListTables(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	d := dialect.GetDialect("postgres")
	mock.ExpectQuery(regexp.QuoteMeta(d.GetTablesQuery("public"))).
		WithArgs("public").
		WillReturnRows(sqlmock.NewRows([]string{"table_name"}).AddRow("items").AddRow("orders"))

	names, err := schema.ListTables(context.Background(), db, d, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"items", "orders"}, names)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadTable(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	d := dialect.GetDialect("mysql")
	mock.ExpectQuery(regexp.QuoteMeta(d.GetColumnsQuery("shop"))).
		WithArgs("shop", "order_line").
		WillReturnRows(sqlmock.NewRows([]string{"COLUMN_NAME", "COLUMN_TYPE", "IS_NULLABLE"}).
			AddRow("order_id", "int(11)", "NO").
			AddRow("line_no", "smallint", "NO").
			AddRow("sku", "char(12)", "NO").
			AddRow("price", "decimal(10,2)", "YES").
			AddRow("shipped_at", "datetime", "YES").
			AddRow("payload", "blob", "YES"))
	mock.ExpectQuery(regexp.QuoteMeta(d.GetPrimaryKeysQuery("shop"))).
		WithArgs("shop", "order_line").
		WillReturnRows(sqlmock.NewRows([]string{"COLUMN_NAME"}).AddRow("ORDER_ID").AddRow("line_no"))

	tbl, err := schema.LoadTable(context.Background(), db, d, "", "shop", "order_line")
	require.NoError(t, err)
	require.NotNil(t, tbl)

	assert.Equal(t, "shop.order_line", tbl.FullyQualifiedName())
	require.Len(t, tbl.Columns, 6)
	assert.Equal(t, schema.KindNumeric, tbl.Column("price").Kind)
	assert.True(t, tbl.Column("price").IsNullable)
	assert.Equal(t, schema.KindText, tbl.Column("SKU").Kind)
	assert.Equal(t, schema.KindTemporal, tbl.Column("shipped_at").Kind)
	assert.Equal(t, schema.KindBinary, tbl.Column("payload").Kind)

	pks := tbl.PrimaryKeys()
	require.Len(t, pks, 2)
	assert.Equal(t, "order_id", pks[0].Name)
	assert.Equal(t, "line_no", pks[1].Name)
	assert.NoError(t, tbl.Validate())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadTableAbsent(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	d := dialect.GetDialect("sqlserver")
	mock.ExpectQuery(regexp.QuoteMeta(d.GetColumnsQuery("dbo"))).
		WithArgs("dbo", "ghost").
		WillReturnRows(sqlmock.NewRows([]string{"COLUMN_NAME", "DATA_TYPE", "IS_NULLABLE"}))

	tbl, err := schema.LoadTable(context.Background(), db, d, "", "", "ghost")
	require.NoError(t, err)
	assert.Nil(t, tbl)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadTableWithoutPrimaryKey(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	d := dialect.GetDialect("postgres")
	mock.ExpectQuery(regexp.QuoteMeta(d.GetColumnsQuery("public"))).
		WithArgs("public", "log").
		WillReturnRows(sqlmock.NewRows([]string{"column_name", "udt_name", "is_nullable"}).AddRow("msg", "text", "YES"))
	mock.ExpectQuery(regexp.QuoteMeta(d.GetPrimaryKeysQuery("public"))).
		WithArgs("public", "log").
		WillReturnRows(sqlmock.NewRows([]string{"column_name"}))

	tbl, err := schema.LoadTable(context.Background(), db, d, "", "public", "log")
	require.NoError(t, err)
	require.NotNil(t, tbl)
	assert.False(t, tbl.HasPrimaryKey())
	assert.ErrorIs(t, tbl.Validate(), schema.ErrNoPrimaryKey)
}

func TestLoadTableQueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	d := dialect.GetDialect("oracle")
	mock.ExpectQuery(".*").WillReturnError(assert.AnError)

	_, err = schema.LoadTable(context.Background(), db, d, "", "scott", "EMP")
	assert.ErrorIs(t, err, assert.AnError)
}

func TestResolveName(t *testing.T) {
	names := []string{"ORDERS", "Items", "items"}

	got, ok := schema.ResolveName(names, "orders")
	assert.True(t, ok)
	assert.Equal(t, "ORDERS", got)

	got, ok = schema.ResolveName(names, "items")
	assert.True(t, ok)
	assert.Equal(t, "items", got)

	_, ok = schema.ResolveName(names, "missing")
	assert.False(t, ok)
}

func TestCache(t *testing.T) {
	c := schema.NewCache()
	var loads atomic.Int32
	load := func(ctx context.Context) (*schema.Table, error) {
		loads.Add(1)
		return &schema.Table{Name: "t"}, nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tbl, err := c.Get(context.Background(), schema.CacheKey("", "main", "t"), load)
			assert.NoError(t, err)
			assert.Equal(t, "t", tbl.Name)
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), loads.Load())

	// absent tables are remembered, errors are not
	absent := func(ctx context.Context) (*schema.Table, error) { loads.Add(1); return nil, nil }
	tbl, err := c.Get(context.Background(), "absent", absent)
	require.NoError(t, err)
	assert.Nil(t, tbl)
	_, _ = c.Get(context.Background(), "absent", absent)
	assert.Equal(t, int32(2), loads.Load())

	failing := func(ctx context.Context) (*schema.Table, error) { loads.Add(1); return nil, assert.AnError }
	_, err = c.Get(context.Background(), "broken", failing)
	assert.ErrorIs(t, err, assert.AnError)
	_, err = c.Get(context.Background(), "broken", failing)
	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, int32(4), loads.Load())

	c.Invalidate()
	_, _ = c.Get(context.Background(), schema.CacheKey("", "main", "t"), load)
	assert.Equal(t, int32(5), loads.Load())
}
