package frontend

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getmockd/mocktools/pkg/shape"
	"github.com/getmockd/mocktools/pkg/synth"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		path string
		want Kind
	}{
		{"user.json", KindJSONSchema},
		{"api.YAML", KindOpenAPI},
		{"api.yml", KindOpenAPI},
		{"shop.proto", KindProto},
		{"schema.graphqls", KindGraphQL},
		{"schema.gql", KindGraphQL},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := Detect(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := Detect("notes.txt")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestParseKind(t *testing.T) {
	kind, err := ParseKind("Proto")
	require.NoError(t, err)
	assert.Equal(t, KindProto, kind)

	kind, err = ParseKind("")
	require.NoError(t, err)
	assert.Empty(t, kind)

	_, err = ParseKind("avro")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestLoad(t *testing.T) {
	tests := []struct {
		path     string
		kind     Kind
		typeName string
	}{
		{filepath.Join("..", "jsonshape", "testdata", "user.json"), KindJSONSchema, "User"},
		{filepath.Join("..", "openapishape", "testdata", "petstore.yaml"), KindOpenAPI, "Pet"},
		{filepath.Join("..", "protoshape", "testdata", "shop.proto"), KindProto, "Order"},
		{filepath.Join("..", "gqlshape", "testdata", "blog.graphqls"), KindGraphQL, "PostInput"},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			schema, err := Load(tt.path, "")
			require.NoError(t, err)
			assert.Equal(t, tt.kind, schema.Kind())
			assert.NotEmpty(t, schema.Names())

			src, err := schema.Source(tt.typeName)
			require.NoError(t, err)

			values, err := synth.Synthesize(shape.Infer(src.Name(), src), synth.Config{Length: 5}.WithSeed(1))
			require.NoError(t, err)
			for _, v := range values {
				assert.NoError(t, src.Validate(v))
			}

			_, err = schema.Source("NoSuchType")
			assert.ErrorIs(t, err, ErrUnknownType)
		})
	}
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load("schema.avsc", "")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = Load("schema.json", Kind("avro"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = Load(filepath.Join(t.TempDir(), "missing.json"), "")
	assert.Error(t, err)
}
