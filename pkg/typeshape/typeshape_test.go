package typeshape

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getmockd/mocktools/pkg/shape"
	"github.com/getmockd/mocktools/pkg/synth"
)

type Audit struct {
	CreatedAt time.Time `json:"createdAt"`
	UpdatedBy string    `json:"updatedBy,omitempty"`
}

type User struct {
	Audit
	ID       string            `json:"id" mock:"format=uuid"`
	Email    string            `json:"email"`
	Nickname *string           `json:"nickname"`
	Age      uint8             `json:"age"`
	Score    float64           `json:"score" mock:"optional"`
	Ghost    string            `json:"ghost" mock:"undefined"`
	Tags     []string          `json:"tags"`
	Point    [2]int32          `json:"point"`
	Labels   map[string]bool   `json:"labels"`
	Avatar   []byte            `json:"avatar"`
	Internal string            `json:"-"`
	Skipped  string            `mock:"-"`
	Extra    map[string]string `json:"extra,omitempty"`
}

type Tree struct {
	Value    int     `json:"value"`
	Left     *Tree   `json:"left"`
	Children []*Tree `json:"children"`
}

func TestOf_User(t *testing.T) {
	d, err := Of[User]()
	require.NoError(t, err)
	require.NoError(t, shape.Validate(d))

	obj := shape.Deref(d).(*shape.Object)
	var names []string
	for _, f := range obj.Fields {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{
		"createdAt", "updatedBy", "id", "email", "nickname", "age", "score",
		"ghost", "tags", "point", "labels", "avatar", "extra",
	}, names)

	field := func(name string) shape.Field {
		f, ok := obj.Field(name)
		require.True(t, ok, name)
		return f
	}
	assert.Equal(t, shape.TypeDate, field("createdAt").Shape.(*shape.Primitive).Type)
	assert.True(t, field("updatedBy").Optional)
	assert.Equal(t, "uuid", field("id").Shape.(*shape.Primitive).Format)
	assert.True(t, field("nickname").Optional)
	assert.Equal(t, 255.0, *field("age").Shape.(*shape.Primitive).Maximum)
	assert.True(t, field("score").Optional)
	assert.Equal(t, shape.TypeUndefined, field("ghost").Shape.(*shape.Primitive).Type)
	assert.Len(t, field("point").Shape.(*shape.Tuple).Elements, 2)
	assert.IsType(t, &shape.Mapped{}, field("labels").Shape)
	assert.Equal(t, "byte", field("avatar").Shape.(*shape.Primitive).Format)
}

func TestMock_User(t *testing.T) {
	users, err := Mock[User](nil, synth.Config{Length: 15}.WithSeed(21))
	require.NoError(t, err)
	require.Len(t, users, 15)

	for _, u := range users {
		assert.Len(t, u.ID, 36)
		assert.Contains(t, u.Email, "@")
		assert.Empty(t, u.Ghost)
		assert.Empty(t, u.Internal)
		assert.Empty(t, u.Skipped)
		assert.False(t, u.CreatedAt.IsZero())
		assert.NotNil(t, u.Tags)
	}
}

func TestMock_Recursive(t *testing.T) {
	rate := 0.0
	s := synth.New()
	trees, err := Mock[Tree](s, synth.Config{Length: 5, Depth: 2, AbsentRate: &rate})
	require.NoError(t, err)

	for _, tree := range trees {
		require.NotNil(t, tree.Left)
		assert.Nil(t, tree.Left.Left)
		assert.Empty(t, tree.Left.Children)
	}
}

func TestMock_Primitive(t *testing.T) {
	values, err := Mock[int16](nil, synth.Config{Length: 20})
	require.NoError(t, err)
	assert.Len(t, values, 20)

	words, err := Mock[[]string](nil, synth.Config{Length: 3})
	require.NoError(t, err)
	assert.Len(t, words, 3)
}

func TestFromType_Unsupported(t *testing.T) {
	tests := []struct {
		name     string
		typ      reflect.Type
		wantPath string
	}{
		{"channel", reflect.TypeFor[chan int](), "$"},
		{"func field", reflect.TypeFor[struct {
			Fn func() `json:"fn"`
		}](), "$.fn"},
		{"interface", reflect.TypeFor[[]any](), "$[*]"},
		{"int keys", reflect.TypeFor[map[int]string](), "$"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromType(tt.typ)
			var unsupported *UnsupportedTypeError
			require.ErrorAs(t, err, &unsupported)
			assert.Equal(t, tt.wantPath, unsupported.Path)
		})
	}
}

func TestFromType_FormatOnNonString(t *testing.T) {
	_, err := FromType(reflect.TypeFor[struct {
		N int `mock:"format=email"`
	}]())
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "needs a string field"))
}

func TestInfer(t *testing.T) {
	inferred := Infer[Tree]()
	assert.Equal(t, "typeshape.Tree", inferred.Name)

	values, err := synth.Synthesize(inferred, synth.Config{Length: 3})
	require.NoError(t, err)
	for _, v := range values {
		assert.NoError(t, synth.Conforms(inferred, v))
	}
}

type Dash struct {
	Value string `json:"-,"`
	Gone  string `json:"-"`
}

func TestOf_DashName(t *testing.T) {
	d, err := Of[Dash]()
	require.NoError(t, err)

	obj := shape.Deref(d).(*shape.Object)
	require.Len(t, obj.Fields, 1)
	assert.Equal(t, "-", obj.Fields[0].Name)
}

type Chain struct {
	*Chain
	Name string `json:"name"`
}

type Outer struct {
	Inner
	ID int `json:"id"`
}

type Inner struct {
	*Outer
	Label string `json:"label"`
}

func TestOf_EmbeddedCycle(t *testing.T) {
	d, err := Of[Chain]()
	require.NoError(t, err)
	obj := shape.Deref(d).(*shape.Object)
	require.Len(t, obj.Fields, 1)
	assert.Equal(t, "name", obj.Fields[0].Name)

	d, err = Of[Outer]()
	require.NoError(t, err)
	obj = shape.Deref(d).(*shape.Object)
	var names []string
	for _, f := range obj.Fields {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"label", "id"}, names)
}
