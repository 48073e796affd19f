// Package jsonshape resolves JSON Schema documents into shape descriptors.
//
// Schemas are compiled with santhosh-tekuri/jsonschema (Draft 2020-12 unless
// the document declares $schema). The compiled schema serves two purposes:
// its keywords are translated into a shape.Descriptor for the synthesizer,
// and it validates the synthesized values afterwards.
//
//	schema, err := jsonshape.Load("user.json")
//	src, err := schema.Source("User") // #/$defs/User
//	values, err := synth.Synthesize(shape.Infer(src.Name(), src), synth.Config{Length: 10})
//	for _, v := range values {
//	    err = src.Validate(v)
//	}
package jsonshape
