package diff_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"db-compare/internal/compare"
	"db-compare/internal/diff"
	"db-compare/internal/mapping"
	"db-compare/internal/schema"
	"db-compare/internal/testutil"
)

func itemPairing() (*mapping.Pairing, *testutil.FakeAdapter) {
	src := testutil.NewTable("item", "item_id int pk", "label varchar null")
	tgt := testutil.NewTable("store_item", "id int pk", "descr varchar null")
	tr := &mapping.Transform{TargetTable: "store_item", Columns: map[string]string{"item_id": "id", "label": "descr"}}
	return mapping.NewPairing(src, tgt, tr), testutil.NewFakeAdapter("mysql").AddTable(tgt)
}

func TestEmitterWritesTargetStatements(t *testing.T) {
	p, target := itemPairing()
	var buf bytes.Buffer
	e := diff.NewEmitter(&buf, target)
	require.True(t, e.Enabled())

	require.NoError(t, e.Insert(p, schema.Row{"item_id": int64(5), "label": "it's"}))
	delta := compare.Delta{{Column: p.Target.Column("descr"), Value: nil}}
	require.NoError(t, e.Update(p, schema.Row{"id": int64(6), "descr": "old"}, delta))
	require.NoError(t, e.Update(p, schema.Row{"id": int64(6)}, nil))
	require.NoError(t, e.Delete(p, schema.Row{"id": int64(7), "descr": "gone"}))

	assert.Equal(t, "INSERT INTO `store_item` (`id`, `descr`) VALUES (5, 'it''s');\n"+
		"UPDATE `store_item` SET `descr` = NULL WHERE `id` = 6;\n"+
		"DELETE FROM `store_item` WHERE `id` = 7;\n", buf.String())
	assert.EqualValues(t, 3, e.Statements())
}

func TestEmitterWithoutWriter(t *testing.T) {
	p, target := itemPairing()
	e := diff.NewEmitter(nil, target)
	assert.False(t, e.Enabled())
	assert.NoError(t, e.Insert(p, schema.Row{"item_id": int64(1)}))
	assert.NoError(t, e.Delete(p, schema.Row{"id": int64(1)}))
	assert.Zero(t, e.Statements())

	var nilEmitter *diff.Emitter
	assert.False(t, nilEmitter.Enabled())
	assert.Zero(t, nilEmitter.Statements())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestEmitterWriteError(t *testing.T) {
	p, target := itemPairing()
	err := diff.NewEmitter(failingWriter{}, target).Delete(p, schema.Row{"id": int64(1)})
	assert.ErrorContains(t, err, "disk full")
}

func TestEmitterConcurrentWrites(t *testing.T) {
	p, target := itemPairing()
	var buf bytes.Buffer
	e := diff.NewEmitter(&buf, target)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			for j := int64(0); j < 50; j++ {
				assert.NoError(t, e.Delete(p, schema.Row{"id": id*100 + j}))
			}
		}(int64(i))
	}
	wg.Wait()

	out := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	assert.Len(t, out, 400)
	for _, line := range out {
		assert.True(t, strings.HasPrefix(line, "DELETE FROM `store_item` WHERE `id` = "), line)
	}
}

func TestOpenSinkEmpty(t *testing.T) {
	s, err := diff.OpenSink(context.Background(), "  ")
	require.NoError(t, err)
	assert.Nil(t, s)
	assert.NoError(t, s.Close())
}

func TestOpenSinkLocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "diff.sql")
	s, err := diff.OpenSink(context.Background(), path)
	require.NoError(t, err)
	_, err = s.Write([]byte("DELETE FROM t;\n"))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "DELETE FROM t;\n", string(data))
	assert.Equal(t, path, s.Location())
}

func TestOpenSinkCompressed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "diff.sql.zst")
	s, err := diff.OpenSink(context.Background(), path)
	require.NoError(t, err)
	_, err = s.Write([]byte("INSERT INTO t VALUES (1);\n"))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	dec, err := zstd.NewReader(f)
	require.NoError(t, err)
	defer dec.Close()
	var out bytes.Buffer
	_, err = out.ReadFrom(dec)
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO t VALUES (1);\n", out.String())
}

func TestOpenSinkFileBlob(t *testing.T) {
	dir := filepath.ToSlash(t.TempDir())
	s, err := diff.OpenSink(context.Background(), "file://"+dir+"/reports/diff.sql")
	require.NoError(t, err)
	_, err = s.Write([]byte("UPDATE t SET a = 1;\n"))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	data, err := os.ReadFile(filepath.Join(dir, "reports", "diff.sql"))
	require.NoError(t, err)
	assert.Equal(t, "UPDATE t SET a = 1;\n", string(data))
}

func TestOpenSinkRejectsBucketWithoutKey(t *testing.T) {
	_, err := diff.OpenSink(context.Background(), "s3://bucket")
	assert.ErrorContains(t, err, "does not name an object")
}
