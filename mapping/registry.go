// Copyright (c) 2023 EMBL-European Bioinformatics Institute
//
// Permission is hereby granted, free of charge, to any person obtaining a copy of
// this software and associated documentation files (the "Software"), to deal in
// the Software without restriction, including without limitation the rights to
// use, copy, modify, merge, publish, distribute, sublicense, and/or sell copies
// of the Software, and to permit persons to whom the Software is furnished to do
// so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package mapping

import (
	"fmt"
	"strconv"

	"github.com/ebi-ait/ingest-archiver/dsp"
	"github.com/ebi-ait/ingest-archiver/ontology"
)

// A PostProcessor turns a resolved source value (nil if the path was empty or
// missing) and any literal arguments from the specification into a target
// value.
type PostProcessor func(value any, args ...any) (any, error)

// names of the built-in post-processors
const (
	ToAttribute          = "attribute"
	ToFixedAttribute     = "fixed_attribute"
	Fixed                = "fixed"
	Prefix               = "prefix"
	Default              = "default"
	BooleanEnum          = "boolean_enum"
	BooleanEnumAttribute = "boolean_enum_attribute"
	First                = "first"
	ToOntologyAttribute  = "ontology_attribute"
	ToString             = "string"
)

// A Registry maps names to post-processors.
type Registry struct {
	processors map[string]PostProcessor
}

// creates a registry holding the built-in post-processors, with ontology terms
// resolved by the given resolver (which may be nil if no specification uses
// ontology_attribute)
func NewRegistry(resolver ontology.Resolver) *Registry {
	r := &Registry{processors: make(map[string]PostProcessor)}
	r.Register(ToAttribute, toAttribute)
	r.Register(ToFixedAttribute, toFixedAttribute)
	r.Register(Fixed, fixed)
	r.Register(Prefix, prefix)
	r.Register(Default, defaultIfEmpty)
	r.Register(BooleanEnum, booleanEnum)
	r.Register(BooleanEnumAttribute, booleanEnumAttribute)
	r.Register(First, first)
	r.Register(ToString, toString)
	r.Register(ToOntologyAttribute, func(value any, args ...any) (any, error) {
		return toOntologyAttribute(resolver, value)
	})
	return r
}

// registers (or replaces) a named post-processor
func (r *Registry) Register(name string, fn PostProcessor) {
	r.processors[name] = fn
}

// returns the named post-processor, if it exists
func (r *Registry) Get(name string) (PostProcessor, bool) {
	fn, found := r.processors[name]
	return fn, found
}

func (r *Registry) lookup(fn any) (PostProcessor, error) {
	switch f := fn.(type) {
	case nil:
		return nil, nil
	case string:
		if processor, found := r.Get(f); found {
			return processor, nil
		}
		return nil, fmt.Errorf("unknown post-processor '%s'", f)
	case PostProcessor:
		return f, nil
	case func(any, ...any) (any, error):
		return f, nil
	default:
		return nil, fmt.Errorf("invalid post-processor %T", fn)
	}
}

//-----------------------
// Built-in processors
//-----------------------

// returns true if the value is nil or an empty string/list/object
func isEmpty(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case []any:
		return len(v) == 0
	case map[string]any:
		return len(v) == 0
	}
	return false
}

// renders a scalar as a string ("" for nil)
func Stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	default:
		return fmt.Sprint(v)
	}
}

// wraps a scalar as an attribute; an optional argument is used in place of an
// empty value
func toAttribute(value any, args ...any) (any, error) {
	if isEmpty(value) && len(args) > 0 {
		value = args[0]
	}
	if value == nil {
		return nil, nil
	}
	return []dsp.AttributeValue{{Value: value, Terms: []dsp.Term{}}}, nil
}

func toFixedAttribute(value any, args ...any) (any, error) {
	if len(args) != 1 {
		return nil, &InvalidValueError{Processor: ToFixedAttribute, Value: args}
	}
	return []dsp.AttributeValue{{Value: args[0], Terms: []dsp.Term{}}}, nil
}

func fixed(value any, args ...any) (any, error) {
	if len(args) != 1 {
		return nil, &InvalidValueError{Processor: Fixed, Value: args}
	}
	return args[0], nil
}

func prefix(value any, args ...any) (any, error) {
	if isEmpty(value) {
		return nil, &RequiredValueError{Processor: Prefix}
	}
	p := ""
	if len(args) > 0 {
		p = Stringify(args[0])
	}
	return p + Stringify(value), nil
}

func defaultIfEmpty(value any, args ...any) (any, error) {
	if len(args) != 1 {
		return nil, &InvalidValueError{Processor: Default, Value: args}
	}
	if isEmpty(value) {
		return args[0], nil
	}
	return value, nil
}

func booleanEnum(value any, args ...any) (any, error) {
	if len(args) != 2 {
		return nil, &InvalidValueError{Processor: BooleanEnum, Value: args}
	}
	b, ok := value.(bool)
	if !ok {
		if value == nil {
			return nil, &RequiredValueError{Processor: BooleanEnum}
		}
		return nil, &InvalidValueError{Processor: BooleanEnum, Value: value}
	}
	if b {
		return args[0], nil
	}
	return args[1], nil
}

// maps a boolean onto one of two values like boolean_enum and wraps the result
// as an attribute
func booleanEnumAttribute(value any, args ...any) (any, error) {
	choice, err := booleanEnum(value, args...)
	if err != nil {
		return nil, err
	}
	return toAttribute(choice)
}

// returns the first element of a list, optionally resolving a path within it
func first(value any, args ...any) (any, error) {
	list, ok := value.([]any)
	if !ok {
		if value == nil {
			return nil, nil
		}
		return nil, &InvalidValueError{Processor: First, Value: value}
	}
	if len(list) == 0 {
		return nil, nil
	}
	if len(args) > 0 {
		path, ok := args[0].(string)
		if !ok {
			return nil, &InvalidValueError{Processor: First, Value: args[0]}
		}
		return Resolve(list[0], path), nil
	}
	return list[0], nil
}

func toString(value any, args ...any) (any, error) {
	return Stringify(value), nil
}

// wraps an HCA ontology object ({"text": ..., "ontology": ...}) as an attribute
// carrying the resolved term URL
func toOntologyAttribute(resolver ontology.Resolver, value any) (any, error) {
	if value == nil {
		return nil, nil
	}
	object, ok := value.(map[string]any)
	if !ok {
		return nil, &InvalidValueError{Processor: ToOntologyAttribute, Value: value}
	}
	attribute := dsp.AttributeValue{
		Value: Stringify(object["text"]),
		Terms: []dsp.Term{},
	}
	if curie := Stringify(object["ontology"]); curie != "" {
		if resolver == nil {
			return nil, &TermResolutionError{Curie: curie, Err: fmt.Errorf("no ontology resolver")}
		}
		url, err := resolver.ExpandCurie(curie)
		if err != nil {
			return nil, &TermResolutionError{Curie: curie, Err: err}
		}
		attribute.Terms = append(attribute.Terms, dsp.Term{Url: url})
	}
	return []dsp.AttributeValue{attribute}, nil
}
