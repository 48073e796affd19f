// Package protoshape resolves Protocol Buffers messages into shape
// descriptors. Files are compiled with bufbuf/protocompile; synthesized
// values are validated by decoding their JSON form with protojson into a
// dynamicpb message.
package protoshape

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bufbuild/protocompile"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/dynamicpb"

	"github.com/getmockd/mocktools/pkg/shape"
)

// ErrNoProtoFiles is returned when no files are given to compile.
var ErrNoProtoFiles = errors.New("no proto files provided")

// Schema is a set of compiled .proto files.
type Schema struct {
	messages map[string]protoreflect.MessageDescriptor
}

// Load compiles the .proto file at path. Imports are searched in the file's
// directory and then in importPaths; google/protobuf imports are built in.
func Load(path string, importPaths ...string) (*Schema, error) {
	resolver := &protocompile.SourceResolver{
		ImportPaths: append([]string{filepath.Dir(path)}, importPaths...),
	}
	return compile(resolver, filepath.Base(path))
}

// Parse compiles in-memory sources keyed by file name.
func Parse(sources map[string]string) (*Schema, error) {
	names := make([]string, 0, len(sources))
	for name := range sources {
		names = append(names, name)
	}
	slices.Sort(names)
	resolver := &protocompile.SourceResolver{
		Accessor: protocompile.SourceAccessorFromMap(sources),
	}
	return compile(resolver, names...)
}

func compile(resolver protocompile.Resolver, files ...string) (*Schema, error) {
	if len(files) == 0 {
		return nil, ErrNoProtoFiles
	}
	compiler := protocompile.Compiler{
		Resolver: protocompile.WithStandardImports(resolver),
	}
	compiled, err := compiler.Compile(context.Background(), files...)
	if err != nil {
		return nil, fmt.Errorf("compile proto: %w", err)
	}

	s := &Schema{messages: map[string]protoreflect.MessageDescriptor{}}
	for _, file := range compiled {
		s.collect(file.Messages())
	}
	return s, nil
}

func (s *Schema) collect(msgs protoreflect.MessageDescriptors) {
	for i := 0; i < msgs.Len(); i++ {
		md := msgs.Get(i)
		if md.IsMapEntry() {
			continue
		}
		s.messages[string(md.FullName())] = md
		s.collect(md.Messages())
	}
}

// Names returns the full names of all messages, sorted.
func (s *Schema) Names() []string {
	names := make([]string, 0, len(s.messages))
	for name := range s.messages {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Source returns a message by full name, or by short name when that is
// unambiguous. The empty name selects the first message in sorted order.
func (s *Schema) Source(name string) (*Source, error) {
	if name == "" {
		names := s.Names()
		if len(names) == 0 {
			return nil, fmt.Errorf("%w: no messages defined", shape.ErrUnknownType)
		}
		name = names[0]
	}
	if md, ok := s.messages[name]; ok {
		return &Source{md: md}, nil
	}

	var match protoreflect.MessageDescriptor
	for full, md := range s.messages {
		if !strings.HasSuffix(full, "."+name) {
			continue
		}
		if match != nil {
			return nil, fmt.Errorf("%w: %s is ambiguous", shape.ErrUnknownType, name)
		}
		match = md
	}
	if match == nil {
		return nil, fmt.Errorf("%w: %s", shape.ErrUnknownType, name)
	}
	return &Source{md: match}, nil
}

// Source is one message type. It implements shape.Resolver.
type Source struct {
	md protoreflect.MessageDescriptor
}

// Name returns the message full name.
func (s *Source) Name() string { return string(s.md.FullName()) }

// Descriptor returns the underlying message descriptor.
func (s *Source) Descriptor() protoreflect.MessageDescriptor { return s.md }

// Resolve translates the message into a descriptor.
func (s *Source) Resolve() (shape.Descriptor, error) {
	c := &converter{refs: map[protoreflect.FullName]*shape.Ref{}}
	root := shape.NewRef(string(s.md.FullName()))
	c.refs[s.md.FullName()] = root
	d, err := c.message(s.md)
	if err != nil {
		return nil, err
	}
	root.Target = d
	return root, nil
}

// Validate decodes the JSON form of v into a dynamic message.
func (s *Source) Validate(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode value: %w", err)
	}
	msg := dynamicpb.NewMessage(s.md)
	if err := protojson.Unmarshal(data, msg); err != nil {
		return fmt.Errorf("%s: %w", s.Name(), err)
	}
	return nil
}
