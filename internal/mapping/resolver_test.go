package mapping

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"db-compare/internal/testutil"
)

func TestResolve(t *testing.T) {
	src := testutil.NewFakeAdapter("mysql").
		AddTable(testutil.NewTable("orders", "id int pk", "total decimal")).
		AddTable(testutil.NewTable("audit", "msg varchar")).
		AddTable(testutil.NewTable("lonely", "id int pk")).
		AddTable(testutil.NewTable("item", "item_id int pk", "name varchar")).
		AddTable(testutil.NewTable("nokey_target", "id int pk")).
		AddTable(testutil.NewTable("split", "region varchar pk", "id int pk"))
	tgt := testutil.NewFakeAdapter("postgres").
		AddTable(testutil.NewTable("orders", "id int pk", "total decimal")).
		AddTable(testutil.NewTable("audit", "msg varchar")).
		AddTable(testutil.NewTable("store_item", "id int pk", "name varchar")).
		AddTable(testutil.NewTable("nokey_target", "id int")).
		AddTable(testutil.NewTable("split", "id int pk"))

	core, logs := observer.New(zap.WarnLevel)
	r := &Resolver{
		Source:          src,
		Target:          tgt,
		SourceNodeGroup: "corp",
		TargetNodeGroup: "store",
		Transforms: StaticTransforms{{
			SourceTable: "item",
			TargetTable: "store_item",
			Columns:     map[string]string{"item_id": "id"},
		}},
		Logger: zap.New(core),
	}

	candidates := []string{"orders", "audit", "lonely", "item", "nokey_target", "split", "ghost"}
	pairings, err := r.Resolve(context.Background(), candidates, nil, nil)
	require.NoError(t, err)
	require.Len(t, pairings, 2)
	assert.Equal(t, "orders -> orders", pairings[0].String())
	assert.Equal(t, "item -> store_item", pairings[1].String())
	assert.NotNil(t, pairings[1].Transform)

	skipped := logs.FilterMessage("Skipping table").All()
	require.Len(t, skipped, 5)
	var tables []string
	for _, e := range skipped {
		tables = append(tables, e.ContextMap()["table"].(string))
	}
	assert.Equal(t, []string{"audit", "lonely", "nokey_target", "split", "ghost"}, tables)
}

func TestResolveMetadataErrorIsFatal(t *testing.T) {
	src := testutil.NewFakeAdapter("mysql").AddTable(testutil.NewTable("orders", "id int pk"))
	tgt := testutil.NewFakeAdapter("mysql")
	tgt.FailMetadata = true

	r := &Resolver{Source: src, Target: tgt}
	_, err := r.Resolve(context.Background(), []string{"orders"}, nil, nil)
	assert.ErrorIs(t, err, testutil.ErrInjected)
}

func TestResolveCancelled(t *testing.T) {
	src := testutil.NewFakeAdapter("mysql").AddTable(testutil.NewTable("orders", "id int pk"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := &Resolver{Source: src, Target: src}
	_, err := r.Resolve(ctx, []string{"orders"}, nil, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestResolveTargetKeyShape(t *testing.T) {
	src := testutil.NewFakeAdapter("sqlite").
		AddTable(testutil.NewTable("swapped", "a int pk", "b int pk", "v varchar")).
		AddTable(testutil.NewTable("surrogate", "code varchar pk", "v varchar"))
	tgt := testutil.NewFakeAdapter("sqlite").
		AddTable(testutil.NewTable("swapped", "b int pk", "a int pk", "v varchar")).
		AddTable(testutil.NewTable("surrogate", "id int pk", "code varchar", "v varchar"))

	core, logs := observer.New(zap.WarnLevel)
	r := &Resolver{Source: src, Target: tgt, Logger: zap.New(core)}
	pairings, err := r.Resolve(context.Background(), []string{"swapped", "surrogate"}, nil, nil)
	require.NoError(t, err)
	require.Len(t, pairings, 1)
	assert.Equal(t, "swapped -> swapped", pairings[0].String())

	skipped := logs.FilterMessage("Skipping table").All()
	require.Len(t, skipped, 1)
	assert.Equal(t, "surrogate", skipped[0].ContextMap()["table"])
	assert.Contains(t, skipped[0].ContextMap()["reason"], "does not match the mapped source key")
}
