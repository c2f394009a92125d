package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"db-compare/internal/schema"
	"db-compare/internal/testutil"
)

func TestStaticTransforms(t *testing.T) {
	transforms := StaticTransforms{
		{SourceNodeGroup: "corp", TargetNodeGroup: "store", SourceTable: "item", TargetTable: "store_item"},
		{SourceTable: "ITEM", TargetTable: "any_item"},
		{SourceTable: "price"},
	}

	got := transforms.FindTransform("corp", "store", "item")
	require.NotNil(t, got)
	assert.Equal(t, "store_item", got.TargetTable)

	got = transforms.FindTransform("corp", "region", "Item")
	require.NotNil(t, got)
	assert.Equal(t, "any_item", got.TargetTable)

	assert.Nil(t, transforms.FindTransform("corp", "store", "price"))
	assert.Nil(t, transforms.FindTransform("corp", "store", "customer"))
}

func TestTransformValidate(t *testing.T) {
	ok := Transform{SourceTable: "item", Columns: map[string]string{"item_id": "id", "descr": "description"}}
	assert.NoError(t, ok.Validate())

	dup := Transform{SourceTable: "item", Columns: map[string]string{"item_id": "id", "ITEM_ID ": "item_no"}}
	err := dup.Validate()
	assert.ErrorIs(t, err, ErrAmbiguousColumn)
	assert.ErrorContains(t, err, "transform item")

	assert.ErrorIs(t, StaticTransforms{ok, dup}.Validate(), ErrAmbiguousColumn)
	assert.NoError(t, StaticTransforms{ok}.Validate())
}

func TestTargetKeyOrder(t *testing.T) {
	src := testutil.NewTable("t", "a int pk", "b int pk", "v varchar")
	reordered := testutil.NewTable("t", "b int pk", "a int pk", "v varchar")

	cols, ok := NewPairing(src, reordered, nil).TargetKeyOrder()
	require.True(t, ok)
	require.Len(t, cols, 2)
	assert.Equal(t, "a", cols[0].Name)
	assert.Equal(t, "b", cols[1].Name)

	surrogate := testutil.NewTable("t", "id int pk", "a int", "b int", "v varchar")
	_, ok = NewPairing(src, surrogate, nil).TargetKeyOrder()
	assert.False(t, ok)

	wider := testutil.NewTable("t", "a int pk", "b int pk", "c int pk")
	_, ok = NewPairing(src, wider, nil).TargetKeyOrder()
	assert.False(t, ok)
}

func TestNewPairingByName(t *testing.T) {
	src := testutil.NewTable("orders", "id int pk", "Status varchar", "legacy_flag int")
	tgt := testutil.NewTable("ORDERS", "ID int pk", "STATUS varchar", "note varchar null")

	p := NewPairing(src, tgt, nil)
	require.Len(t, p.Columns, 2)
	assert.Equal(t, "ID", p.TargetFor(src.Column("id")).Name)
	assert.Equal(t, "STATUS", p.TargetFor(src.Column("status")).Name)
	assert.Nil(t, p.TargetFor(src.Column("legacy_flag")))
	assert.Equal(t, "Status", p.SourceFor(tgt.Column("STATUS")).Name)
	assert.Equal(t, "orders -> ORDERS", p.String())

	keys, unmapped := p.KeyPairs()
	assert.Len(t, keys, 1)
	assert.Empty(t, unmapped)
	assert.Len(t, p.ValuePairs(), 1)
}

func TestNewPairingOverrides(t *testing.T) {
	src := testutil.NewTable("item", "item_id int pk", "name varchar", "descr varchar")
	tgt := testutil.NewTable("store_item", "id int pk", "name varchar", "description varchar")
	tr := &Transform{SourceTable: "item", TargetTable: "store_item", Columns: map[string]string{
		"item_id": "id",
		"DESCR":   "description",
	}}

	p := NewPairing(src, tgt, tr)
	require.Len(t, p.Columns, 3)
	assert.Equal(t, "id", p.TargetFor(src.Column("item_id")).Name)
	assert.Equal(t, "description", p.TargetFor(src.Column("descr")).Name)
	assert.Equal(t, "name", p.TargetFor(src.Column("name")).Name)

	row := p.TargetRow(schema.Row{"item_id": int64(4), "name": "bolt", "descr": nil})
	assert.Equal(t, schema.Row{"id": int64(4), "name": "bolt", "description": nil}, row)
}

func TestNewPairingTargetColumnUsedOnce(t *testing.T) {
	src := testutil.NewTable("t", "id int pk", "a varchar", "b varchar")
	tgt := testutil.NewTable("t", "id int pk", "a varchar")
	tr := &Transform{Columns: map[string]string{"b": "a"}}

	p := NewPairing(src, tgt, tr)
	assert.Equal(t, "a", p.TargetFor(src.Column("b")).Name)
	assert.Nil(t, p.TargetFor(src.Column("a")))
}

func TestKeyPairsUnmapped(t *testing.T) {
	src := testutil.NewTable("t", "region varchar pk", "id int pk")
	tgt := testutil.NewTable("t", "id int pk")

	keys, unmapped := NewPairing(src, tgt, nil).KeyPairs()
	assert.Len(t, keys, 1)
	assert.Equal(t, []string{"region"}, unmapped)
}
