package synth

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getmockd/mocktools/pkg/shape"
)

func TestRecord_OrderAndMarshal(t *testing.T) {
	rec := NewRecord()
	rec.Set("zeta", 1)
	rec.Set("alpha", "a")
	rec.Set("gone", Absent)
	rec.Set("nested", Present([]any{true}))

	assert.Equal(t, []string{"zeta", "alpha", "gone", "nested"}, rec.Keys())
	assert.Equal(t, 4, rec.Len())
	assert.False(t, rec.Has("gone"))
	assert.True(t, rec.Has("nested"))
	assert.True(t, rec.Get("missing").IsAbsent())

	data, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.Equal(t, `{"zeta":1,"alpha":"a","nested":[true]}`, string(data))
}

func TestRecord_Nil(t *testing.T) {
	var rec *Record
	assert.True(t, rec.Get("x").IsAbsent())
	assert.Zero(t, rec.Len())
	assert.Nil(t, rec.Keys())
}

func TestOptional(t *testing.T) {
	assert.True(t, Absent.IsAbsent())
	assert.Equal(t, "<absent>", Absent.String())

	v, ok := Present(7).Get()
	assert.True(t, ok)
	assert.Equal(t, 7, v)

	data, err := json.Marshal(Absent)
	require.NoError(t, err)
	assert.Equal(t, "null", string(data))
}

func TestPlain(t *testing.T) {
	rec := NewRecord()
	rec.Set("when", time.Date(2020, 5, 17, 10, 0, 0, 0, time.UTC))
	rec.Set("skip", Absent)
	rec.Set("list", []any{Absent, Present("x")})

	got := Plain(rec)
	assert.Equal(t, map[string]any{
		"when": "2020-05-17T10:00:00Z",
		"list": []any{nil, "x"},
	}, got)
}

func TestJSONValue(t *testing.T) {
	rec := NewRecord()
	rec.Set("n", int64(12))
	rec.Set("f", 1.5)

	got, err := JSONValue(rec)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"n": json.Number("12"), "f": json.Number("1.5")}, got)
}

func TestConforms(t *testing.T) {
	d := shape.ObjectOf(
		shape.Required("name", shape.Length(1, 5)),
		shape.Optional("age", shape.Range(shape.TypeInteger, 0, 120)),
		shape.Required("ghost", shape.Undefined()),
		shape.Required("tags", shape.MapOf(shape.Boolean())),
		shape.Required("kind", shape.EnumOf("a", 2)),
		shape.Required("at", shape.Date()),
	)

	good := map[string]any{
		"name": "bob",
		"age":  json.Number("41"),
		"tags": map[string]any{"x": true},
		"kind": float64(2),
		"at":   "2021-01-01T00:00:00Z",
	}
	require.NoError(t, Conforms(d, good))

	tests := []struct {
		name     string
		mutate   func(map[string]any)
		wantPath string
	}{
		{"too long", func(m map[string]any) { m["name"] = "bobbobbob" }, "$.name"},
		{"fractional integer", func(m map[string]any) { m["age"] = 1.5 }, "$.age"},
		{"out of range", func(m map[string]any) { m["age"] = 200 }, "$.age"},
		{"undefined present", func(m map[string]any) { m["ghost"] = "boo" }, "$.ghost"},
		{"map value", func(m map[string]any) { m["tags"] = map[string]any{"x": "yes"} }, `$.tags["x"]`},
		{"enum", func(m map[string]any) { m["kind"] = "b" }, "$.kind"},
		{"bad date", func(m map[string]any) { m["at"] = "yesterday" }, "$.at"},
		{"missing required", func(m map[string]any) { delete(m, "name") }, "$.name"},
		{"unexpected field", func(m map[string]any) { m["extra"] = 1 }, "$.extra"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := map[string]any{}
			for k, e := range good {
				v[k] = e
			}
			tt.mutate(v)

			err := Conforms(d, v)
			var mismatch *MismatchError
			require.ErrorAs(t, err, &mismatch)
			assert.Equal(t, tt.wantPath, mismatch.Path)
		})
	}
}

func TestConforms_MapKeyBounds(t *testing.T) {
	maxKeys := 2
	d := &shape.Mapped{Value: shape.Boolean(), MinKeys: 1, MaxKeys: &maxKeys}

	assert.NoError(t, Conforms(d, map[string]any{"a": true}))

	var mismatch *MismatchError
	require.ErrorAs(t, Conforms(d, map[string]any{}), &mismatch)
	assert.Equal(t, "0 keys", mismatch.Got)
	require.ErrorAs(t, Conforms(d, map[string]any{"a": true, "b": false, "c": true}), &mismatch)
	assert.Equal(t, "3 keys", mismatch.Got)
}

func TestConforms_GeneratedValues(t *testing.T) {
	d := shape.ObjectOf(
		shape.Required("id", shape.Format(shape.TypeString, "uuid")),
		shape.Optional("score", shape.Number()),
		shape.Required("pair", shape.TupleOf(shape.Integer(), shape.Null())),
		shape.Required("labels", shape.MapOf(shape.String())),
		shape.Required("choice", shape.OneOf(shape.Boolean(), shape.Date())),
	)

	values, err := Synthesize(d, Config{Length: 25}.WithSeed(7))
	require.NoError(t, err)
	for _, v := range values {
		require.NoError(t, Conforms(d, v))
		require.NoError(t, Conforms(d, Plain(v)))
	}
}

func TestSource_Deterministic(t *testing.T) {
	seed := uint64(99)
	a, b := NewSource(&seed), NewSource(&seed)
	for range 10 {
		assert.Equal(t, a.UUID(), b.UUID())
		assert.Equal(t, a.Between(-5, 5), b.Between(-5, 5))
	}
	assert.True(t, a.Seeded())
	assert.False(t, NewSource(nil).Seeded())
	assert.Equal(t, int64(3), a.Int64Range(3, 3))
	assert.Equal(t, "", a.Pick(nil))
}
