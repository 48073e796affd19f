package protoshape

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getmockd/mocktools/pkg/shape"
	"github.com/getmockd/mocktools/pkg/synth"
)

func loadShop(t *testing.T) *Schema {
	t.Helper()
	s, err := Load(filepath.Join("testdata", "shop.proto"))
	require.NoError(t, err)
	return s
}

func TestNames(t *testing.T) {
	assert.Equal(t, []string{
		"shop.v1.Category",
		"shop.v1.Money",
		"shop.v1.Order",
		"shop.v1.Order.LineItem",
	}, loadShop(t).Names())
}

func TestSource_ShortName(t *testing.T) {
	s := loadShop(t)

	src, err := s.Source("LineItem")
	require.NoError(t, err)
	assert.Equal(t, "shop.v1.Order.LineItem", src.Name())

	src, err = s.Source("")
	require.NoError(t, err)
	assert.Equal(t, "shop.v1.Category", src.Name())

	_, err = s.Source("Refund")
	assert.ErrorIs(t, err, shape.ErrUnknownType)
}

func TestSynthesize_Validates(t *testing.T) {
	s := loadShop(t)
	for _, name := range s.Names() {
		t.Run(name, func(t *testing.T) {
			src, err := s.Source(name)
			require.NoError(t, err)

			d := shape.Infer(name, src)
			values, err := synth.Synthesize(d, synth.Config{Length: 25}.WithSeed(3))
			require.NoError(t, err)

			for i, v := range values {
				assert.NoError(t, src.Validate(v), "value %d", i)
				assert.NoError(t, synth.Conforms(d, v), "value %d", i)
			}
		})
	}
}

func TestResolve_Order(t *testing.T) {
	src, err := loadShop(t).Source("shop.v1.Order")
	require.NoError(t, err)

	d, err := src.Resolve()
	require.NoError(t, err)
	require.NoError(t, shape.Validate(d))

	union, ok := shape.Deref(d).(*shape.Union)
	require.True(t, ok)
	require.Len(t, union.Variants, 3)

	first := union.Variants[0].(*shape.Object)
	field := func(name string) shape.Field {
		f, ok := first.Field(name)
		require.True(t, ok, name)
		return f
	}

	assert.Equal(t, shape.TypeDate, field("createdAt").Shape.(*shape.Primitive).Type)
	assert.True(t, field("createdAt").Optional)
	assert.Equal(t, "duration", field("ttl").Shape.(*shape.Primitive).Format)
	assert.Equal(t, shape.TypeString, field("note").Shape.(*shape.Primitive).Type)
	assert.True(t, field("priority").Optional)
	assert.False(t, field("id").Optional)
	assert.Equal(t, "byte", field("signature").Shape.(*shape.Primitive).Format)
	assert.Equal(t, "integer", field("flags").Shape.(*shape.Mapped).KeyFormat)
	assert.Len(t, field("status").Shape.(*shape.Enum).Values, 3)
	assert.False(t, field("cardToken").Optional)

	_, hasCash := first.Field("cash")
	assert.False(t, hasCash)
	_, hasCash = union.Variants[2].(*shape.Object).Field("cash")
	assert.True(t, hasCash)
}

func TestResolve_Recursive(t *testing.T) {
	src, err := loadShop(t).Source("Category")
	require.NoError(t, err)

	d, err := src.Resolve()
	require.NoError(t, err)
	obj := shape.Deref(d).(*shape.Object)

	children, _ := obj.Field("children")
	parent, _ := obj.Field("parent")
	assert.Same(t, d, children.Shape.(*shape.VariadicArray).Tail)
	assert.Same(t, d, parent.Shape)
}

func TestParse_Proto2(t *testing.T) {
	s, err := Parse(map[string]string{
		"legacy.proto": `
syntax = "proto2";
package legacy;
message Item {
  required string code = 1;
  optional int32 rank = 2;
}`,
	})
	require.NoError(t, err)

	src, err := s.Source("legacy.Item")
	require.NoError(t, err)
	d, err := src.Resolve()
	require.NoError(t, err)

	obj := shape.Deref(d).(*shape.Object)
	code, _ := obj.Field("code")
	rank, _ := obj.Field("rank")
	assert.False(t, code.Optional)
	assert.True(t, rank.Optional)

	assert.Error(t, src.Validate(map[string]any{"rank": 1}))
	assert.NoError(t, src.Validate(map[string]any{"code": "x"}))
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse(nil)
	assert.ErrorIs(t, err, ErrNoProtoFiles)

	_, err = Parse(map[string]string{"bad.proto": "syntax = \"proto3\"; message {"})
	assert.Error(t, err)
}
