// Package frontend loads schema files of any supported kind and hands out
// their named types as shape resolvers.
package frontend

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/getmockd/mocktools/pkg/gqlshape"
	"github.com/getmockd/mocktools/pkg/jsonshape"
	"github.com/getmockd/mocktools/pkg/openapishape"
	"github.com/getmockd/mocktools/pkg/protoshape"
	"github.com/getmockd/mocktools/pkg/shape"
)

// Errors returned by Load and Schema.Source.
var (
	ErrUnsupportedFormat = errors.New("unsupported schema format")
	ErrUnknownType       = shape.ErrUnknownType
)

// Kind names a schema language.
type Kind string

// Schema kinds.
const (
	KindJSONSchema Kind = "jsonschema"
	KindOpenAPI    Kind = "openapi"
	KindProto      Kind = "proto"
	KindGraphQL    Kind = "graphql"
)

// Kinds lists the supported kinds.
func Kinds() []Kind {
	return []Kind{KindJSONSchema, KindOpenAPI, KindProto, KindGraphQL}
}

var extensions = map[string]Kind{
	".json":     KindJSONSchema,
	".yaml":     KindOpenAPI,
	".yml":      KindOpenAPI,
	".proto":    KindProto,
	".graphql":  KindGraphQL,
	".graphqls": KindGraphQL,
	".gql":      KindGraphQL,
}

// Source is one named type of a schema.
type Source interface {
	shape.Resolver
	Name() string
	// Validate checks a synthesized value with the schema's own library.
	Validate(v any) error
}

// Schema is a loaded schema file.
type Schema interface {
	Kind() Kind
	Names() []string
	// Source returns the named type; the empty name selects the default.
	Source(name string) (Source, error)
}

// Detect returns the kind implied by the file extension of path.
func Detect(path string) (Kind, error) {
	kind, ok := extensions[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	return kind, nil
}

// Load loads the schema at path. An empty kind is detected from the
// extension.
func Load(path string, kind Kind) (Schema, error) {
	if kind == "" {
		var err error
		if kind, err = Detect(path); err != nil {
			return nil, err
		}
	}

	switch kind {
	case KindJSONSchema:
		s, err := jsonshape.Load(path)
		if err != nil {
			return nil, err
		}
		return jsonSchema{s}, nil
	case KindOpenAPI:
		s, err := openapishape.Load(path)
		if err != nil {
			return nil, err
		}
		return openAPISchema{s}, nil
	case KindProto:
		s, err := protoshape.Load(path)
		if err != nil {
			return nil, err
		}
		return protoSchema{s}, nil
	case KindGraphQL:
		s, err := gqlshape.Load(path)
		if err != nil {
			return nil, err
		}
		return graphQLSchema{s}, nil
	}
	return nil, fmt.Errorf("%w: kind %q (want one of %v)", ErrUnsupportedFormat, kind, Kinds())
}

// ParseKind validates a kind name. The empty string means auto-detect.
func ParseKind(s string) (Kind, error) {
	kind := Kind(strings.ToLower(s))
	if kind == "" || slices.Contains(Kinds(), kind) {
		return kind, nil
	}
	return "", fmt.Errorf("%w: kind %q (want one of %v)", ErrUnsupportedFormat, s, Kinds())
}

type jsonSchema struct{ *jsonshape.Schema }

func (jsonSchema) Kind() Kind { return KindJSONSchema }

func (s jsonSchema) Source(name string) (Source, error) {
	src, err := s.Schema.Source(name)
	if err != nil {
		return nil, err
	}
	return src, nil
}

type openAPISchema struct{ *openapishape.Document }

func (openAPISchema) Kind() Kind { return KindOpenAPI }

func (s openAPISchema) Source(name string) (Source, error) {
	src, err := s.Document.Source(name)
	if err != nil {
		return nil, err
	}
	return src, nil
}

type protoSchema struct{ *protoshape.Schema }

func (protoSchema) Kind() Kind { return KindProto }

func (s protoSchema) Source(name string) (Source, error) {
	src, err := s.Schema.Source(name)
	if err != nil {
		return nil, err
	}
	return src, nil
}

type graphQLSchema struct{ *gqlshape.Schema }

func (graphQLSchema) Kind() Kind { return KindGraphQL }

func (s graphQLSchema) Source(name string) (Source, error) {
	src, err := s.Schema.Source(name)
	if err != nil {
		return nil, err
	}
	return src, nil
}
