package synth

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getmockd/mocktools/pkg/shape"
)

func TestSynthesize_String(t *testing.T) {
	values, err := Synthesize(shape.String(), Config{Length: 10})
	require.NoError(t, err)
	require.Len(t, values, 10)
	for _, v := range values {
		assert.IsType(t, "", v)
	}
}

func TestSynthesize_Tuple(t *testing.T) {
	d := shape.TupleOf(shape.String(), shape.Number(), shape.Boolean())

	values, err := Synthesize(d, Config{Length: 10})
	require.NoError(t, err)
	require.Len(t, values, 10)
	for _, v := range values {
		arr, ok := v.([]any)
		require.True(t, ok)
		require.Len(t, arr, 3)
		assert.IsType(t, "", arr[0])
		assert.IsType(t, float64(0), arr[1])
		assert.IsType(t, true, arr[2])
	}
}

func TestSynthesize_Variadic(t *testing.T) {
	d := shape.Variadic(
		[]shape.Descriptor{shape.Boolean(), shape.Boolean(), shape.Boolean()},
		shape.Boolean(),
	)

	values, err := Synthesize(d, Config{Length: 10})
	require.NoError(t, err)
	require.Len(t, values, 10)
	for _, v := range values {
		arr := v.([]any)
		assert.GreaterOrEqual(t, len(arr), 3)
		assert.LessOrEqual(t, len(arr), 3+DefaultMaxTail)
		for _, e := range arr {
			assert.IsType(t, true, e)
		}
	}
}

func TestSynthesize_VariadicTailBounds(t *testing.T) {
	maxTail := 4
	d := &shape.VariadicArray{Tail: shape.Integer(), MinTail: 2, MaxTail: &maxTail}

	values, err := Synthesize(d, Config{Length: 50, MaxTail: 100})
	require.NoError(t, err)
	for _, v := range values {
		n := len(v.([]any))
		assert.GreaterOrEqual(t, n, 2)
		assert.LessOrEqual(t, n, 4)
	}
}

func TestSynthesize_Date(t *testing.T) {
	values, err := Synthesize(shape.Date(), Config{Length: 10})
	require.NoError(t, err)
	for _, v := range values {
		ts, ok := v.(time.Time)
		require.True(t, ok)
		assert.False(t, ts.Before(DefaultDateFrom))
		assert.True(t, ts.Before(DefaultDateTo))
	}
}

func TestSynthesize_ObjectUndefinedField(t *testing.T) {
	d := shape.ObjectOf(shape.Required("unknownKey", shape.Undefined()))

	values, err := Synthesize(d, Config{Length: 10})
	require.NoError(t, err)
	for _, v := range values {
		rec, ok := v.(*Record)
		require.True(t, ok)
		assert.True(t, rec.Get("unknownKey").IsAbsent())
		assert.False(t, rec.Has("unknownKey"))
	}
}

func TestSynthesize_Mapped(t *testing.T) {
	values, err := Synthesize(shape.MapOf(shape.Boolean()), Config{Length: 10})
	require.NoError(t, err)
	for _, v := range values {
		m, ok := v.(map[string]any)
		require.True(t, ok)
		assert.LessOrEqual(t, len(m), DefaultMapKeys)
		for _, e := range m {
			assert.IsType(t, true, e)
		}
	}
}

func TestSynthesize_Inferred(t *testing.T) {
	calls := 0
	src := shape.ResolverFunc(func() (shape.Descriptor, error) {
		calls++
		return shape.ObjectOf(shape.Required("item", shape.String())), nil
	})

	values, err := Synthesize(shape.Infer("Item", src), Config{Length: 5})
	require.NoError(t, err)
	require.Len(t, values, 5)
	assert.Equal(t, 1, calls)
	for _, v := range values {
		rec := v.(*Record)
		item, ok := rec.Get("item").Get()
		require.True(t, ok)
		assert.IsType(t, "", item)
	}
}

func TestSynthesize_InferredError(t *testing.T) {
	boom := errors.New("boom")
	src := shape.ResolverFunc(func() (shape.Descriptor, error) { return nil, boom })

	_, err := Synthesize(shape.Infer("Broken", src), Config{Length: 1})
	require.Error(t, err)

	var resolveErr *ResolveError
	require.ErrorAs(t, err, &resolveErr)
	assert.Equal(t, "Broken", resolveErr.Name)
	assert.ErrorIs(t, err, boom)
}

func TestSynthesize_ZeroLength(t *testing.T) {
	values, err := Synthesize(nil, Config{})
	require.NoError(t, err)
	assert.NotNil(t, values)
	assert.Empty(t, values)
}

func TestSynthesize_InvalidConfig(t *testing.T) {
	rate := 1.5
	tests := []struct {
		name string
		cfg  Config
	}{
		{"negative length", Config{Length: -1}},
		{"negative depth", Config{Length: 1, Depth: -1}},
		{"absent rate above one", Config{Length: 1, AbsentRate: &rate}},
		{"inverted dates", Config{Length: 1, DateFrom: DefaultDateTo, DateTo: DefaultDateFrom}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Synthesize(shape.String(), tt.cfg)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

type foreign struct{}

func (foreign) Kind() shape.Kind { return shape.Kind(99) }

func TestSynthesize_Unsupported(t *testing.T) {
	tests := []struct {
		name     string
		shape    shape.Descriptor
		wantPath string
	}{
		{"nil", nil, "$[0]"},
		{"foreign", foreign{}, "$[0]"},
		{"nested foreign", shape.TupleOf(shape.String(), foreign{}), "$[0][1]"},
		{"unresolved ref", shape.NewRef("Missing"), "$[0]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Synthesize(tt.shape, Config{Length: 2})
			var unsupported *UnsupportedShapeError
			require.ErrorAs(t, err, &unsupported)
			assert.Equal(t, tt.wantPath, unsupported.Path)
		})
	}
}

func TestSynthesize_SeededIsReproducible(t *testing.T) {
	d := shape.ObjectOf(
		shape.Required("id", shape.Format(shape.TypeString, "uuid")),
		shape.Required("email", shape.String()),
		shape.Optional("age", shape.Range(shape.TypeInteger, 18, 99)),
		shape.Required("tags", shape.ArrayOf(shape.String())),
		shape.Required("createdAt", shape.Date()),
	)
	cfg := Config{Length: 20}.WithSeed(42)

	first, err := Synthesize(d, cfg)
	require.NoError(t, err)
	second, err := Synthesize(d, cfg)
	require.NoError(t, err)
	assert.Equal(t, Plain(first), Plain(second))

	other, err := Synthesize(d, Config{Length: 20}.WithSeed(43))
	require.NoError(t, err)
	assert.NotEqual(t, Plain(first), Plain(other))
}

func TestSynthesize_RecursionCutoff(t *testing.T) {
	node := shape.NewRef("Node")
	node.Target = shape.ObjectOf(
		shape.Required("value", shape.Integer()),
		shape.Optional("next", node),
		shape.Required("children", shape.ArrayOf(node)),
	)

	rate := 0.0
	values, err := Synthesize(node, Config{Length: 3, Depth: 2, AbsentRate: &rate})
	require.NoError(t, err)

	for _, v := range values {
		assert.LessOrEqual(t, nesting(v.(*Record)), 2)
		assert.NoError(t, Conforms(node, v))
	}
}

func TestSynthesize_MutualRecursionThroughRequiredField(t *testing.T) {
	user, post := shape.NewRef("User"), shape.NewRef("Post")
	user.Target = shape.ObjectOf(
		shape.Required("name", shape.String()),
		shape.Required("posts", shape.ArrayOf(post)),
	)
	post.Target = shape.ObjectOf(
		shape.Required("title", shape.String()),
		shape.Required("author", user),
	)

	for _, depth := range []int{1, 2, 3} {
		values, err := Synthesize(user, Config{Length: 50, Depth: depth}.WithSeed(1))
		require.NoError(t, err)
		for i, v := range values {
			require.NoError(t, Conforms(user, v), "depth %d value %d", depth, i)
		}
	}
}

func TestSynthesize_CutoffPrefersOpenUnionVariant(t *testing.T) {
	node := shape.NewRef("Node")
	node.Target = shape.ObjectOf(
		shape.Required("next", shape.OneOf(node, shape.Null())),
	)

	values, err := Synthesize(node, Config{Length: 20, Depth: 2})
	require.NoError(t, err)
	for _, v := range values {
		require.NoError(t, Conforms(node, v))
	}
}

func TestSynthesize_DepthOneDisablesRecursion(t *testing.T) {
	node := shape.NewRef("Node")
	node.Target = shape.ObjectOf(
		shape.Optional("next", node),
		shape.Required("children", shape.ArrayOf(node)),
	)
	rate := 0.0

	values, err := Synthesize(node, Config{Length: 5, Depth: 1, AbsentRate: &rate})
	require.NoError(t, err)
	for _, v := range values {
		assert.Equal(t, 1, nesting(v.(*Record)))
	}

	values, err = Synthesize(node, Config{Length: 5, AbsentRate: &rate}.WithSeed(3))
	require.NoError(t, err)
	explicit, err := Synthesize(node, Config{Length: 5, Depth: DefaultDepth, AbsentRate: &rate}.WithSeed(3))
	require.NoError(t, err)
	assert.Equal(t, Plain(explicit), Plain(values))
}

func TestSynthesize_MapKeySpaceTooSmall(t *testing.T) {
	d := &shape.Mapped{Value: shape.Integer(), KeyFormat: "boolean", MinKeys: 3}

	_, err := Synthesize(d, Config{Length: 1})
	var unsupported *UnsupportedShapeError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, "$[0]", unsupported.Path)

	d.MinKeys = 2
	values, err := Synthesize(d, Config{Length: 5, MapKeys: 2}.WithSeed(5))
	require.NoError(t, err)
	for _, v := range values {
		assert.Len(t, v.(map[string]any), 2)
		assert.NoError(t, Conforms(d, v))
	}
}

func nesting(r *Record) int {
	deepest := 0
	if next, ok := r.Get("next").Get(); ok {
		deepest = nesting(next.(*Record))
	}
	children, _ := r.Get("children").Get()
	for _, c := range children.([]any) {
		deepest = max(deepest, nesting(c.(*Record)))
	}
	return deepest + 1
}

func TestSynthesize_AbsentRate(t *testing.T) {
	d := shape.ObjectOf(shape.Optional("maybe", shape.Boolean()))

	never := 0.0
	values, err := Synthesize(d, Config{Length: 20, AbsentRate: &never})
	require.NoError(t, err)
	for _, v := range values {
		assert.True(t, v.(*Record).Has("maybe"))
	}

	always := 1.0
	values, err = Synthesize(d, Config{Length: 20, AbsentRate: &always})
	require.NoError(t, err)
	for _, v := range values {
		assert.False(t, v.(*Record).Has("maybe"))
	}
}

func TestSynthesize_EnumAndUnion(t *testing.T) {
	enum := shape.EnumOf("red", "green", 3)
	values, err := Synthesize(enum, Config{Length: 30})
	require.NoError(t, err)
	for _, v := range values {
		assert.Contains(t, enum.Values, v)
	}

	union := shape.OneOf(shape.String(), shape.Null())
	values, err = Synthesize(union, Config{Length: 30})
	require.NoError(t, err)
	for _, v := range values {
		if v != nil {
			assert.IsType(t, "", v)
		}
	}
}

func TestSynthesize_Bounds(t *testing.T) {
	d := shape.TupleOf(
		shape.Range(shape.TypeInteger, 5, 7),
		shape.Range(shape.TypeNumber, -1, 1),
		shape.Length(3, 4),
	)

	values, err := Synthesize(d, Config{Length: 50})
	require.NoError(t, err)
	for _, v := range values {
		arr := v.([]any)
		assert.GreaterOrEqual(t, arr[0].(int64), int64(5))
		assert.LessOrEqual(t, arr[0].(int64), int64(7))
		assert.GreaterOrEqual(t, arr[1].(float64), -1.0)
		assert.LessOrEqual(t, arr[1].(float64), 1.0)
		assert.GreaterOrEqual(t, len(arr[2].(string)), 3)
		assert.LessOrEqual(t, len(arr[2].(string)), 4)
	}
}

func TestSynthesize_FieldNameHints(t *testing.T) {
	d := shape.ObjectOf(shape.Required("email", shape.String()))

	values, err := Synthesize(d, Config{Length: 5})
	require.NoError(t, err)
	for _, v := range values {
		email, _ := v.(*Record).Get("email").Get()
		assert.Contains(t, email, "@")
	}
}

func TestWithGenerator(t *testing.T) {
	s := New(WithGenerator(shape.TypeString, GeneratorFunc(func(*Source, Request) (any, error) {
		return "fixed", nil
	})))

	values, err := s.Synthesize(shape.ArrayOf(shape.String()), Config{Length: 3, MaxTail: 2})
	require.NoError(t, err)
	for _, v := range values {
		for _, e := range v.([]any) {
			assert.Equal(t, "fixed", e)
		}
	}
}

func TestWithGenerator_Error(t *testing.T) {
	boom := errors.New("no strings today")
	s := New(WithGenerator(shape.TypeString, GeneratorFunc(func(*Source, Request) (any, error) {
		return nil, boom
	})))

	_, err := s.Synthesize(shape.String(), Config{Length: 1})
	assert.ErrorIs(t, err, boom)
}
