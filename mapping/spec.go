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

// Package mapping implements a small interpreter for declarative mapping
// specifications: trees that mirror the shape of a target document and whose
// leaves name a path into a source record plus an optional post-processor.
package mapping

import (
	"maps"
	"slices"
	"strconv"
	"strings"
)

// Node is an element of a mapping specification tree: an Object, a Leaf, an
// ArrayNode or a SingleNode.
type Node interface {
	isNode()
}

// Object is a plain nested object; each key is evaluated independently.
type Object map[string]Node

// Leaf maps a source path through an optional post-processor. Func is nil, the
// name of a post-processor in the Registry, or a PostProcessor value. An empty
// Path calls the post-processor with a nil value.
type Leaf struct {
	Path string
	Func any
	Args []any
}

// ArrayNode applies Template to every element of the list found at Path,
// producing one target object per source element ("$array").
type ArrayNode struct {
	Path     string
	Template Object
}

// SingleNode applies Template once to the record found at Path (the current
// record if Path is empty), yielding exactly one object ("$object").
type SingleNode struct {
	Path     string
	Template Object
}

func (Object) isNode()     {}
func (Leaf) isNode()       {}
func (ArrayNode) isNode()  {}
func (SingleNode) isNode() {}

// creates a leaf node
func Field(path string, fn any, args ...any) Leaf {
	return Leaf{Path: path, Func: fn, Args: args}
}

// creates an "$array" node
func Array(path string, template Object) ArrayNode {
	return ArrayNode{Path: path, Template: template}
}

// creates an "$object" node
func Single(path string, template Object) SingleNode {
	return SingleNode{Path: path, Template: template}
}

// Spec is a complete mapping specification. If On is set, paths are resolved
// against the named top-level field of the source ("$on").
type Spec struct {
	On     string
	Fields Object
}

// Resolves a dotted path against a JSON-shaped record by literal field and
// index traversal. Any missing segment yields nil.
func Resolve(source any, path string) any {
	if path == "" {
		return source
	}
	current := source
	for _, segment := range strings.Split(path, ".") {
		switch node := current.(type) {
		case map[string]any:
			value, found := node[segment]
			if !found {
				return nil
			}
			current = value
		case []any:
			index, err := strconv.Atoi(segment)
			if err != nil || index < 0 || index >= len(node) {
				return nil
			}
			current = node[index]
		default:
			return nil
		}
	}
	return current
}

// Evaluates the specification against the source record, returning the
// resulting document tree. Keys whose evaluated value is nil are omitted.
func Evaluate(source map[string]any, spec Spec, registry *Registry) (map[string]any, error) {
	var root any = source
	if spec.On != "" {
		root = source[spec.On]
	}
	return evaluateObject(root, spec.Fields, registry, "")
}

func evaluateObject(source any, object Object, registry *Registry, parent string) (map[string]any, error) {
	result := make(map[string]any)
	for _, key := range slices.Sorted(maps.Keys(object)) {
		field := key
		if parent != "" {
			field = parent + "." + key
		}
		value, err := evaluateNode(source, object[key], registry, field)
		if err != nil {
			return nil, err
		}
		if value != nil {
			result[key] = value
		}
	}
	return result, nil
}

func evaluateNode(source any, node Node, registry *Registry, field string) (any, error) {
	switch n := node.(type) {
	case Object:
		return evaluateObject(source, n, registry, field)
	case Leaf:
		return evaluateLeaf(source, n, registry, field)
	case ArrayNode:
		switch items := Resolve(source, n.Path).(type) {
		case nil:
			return nil, nil
		case []any:
			results := make([]any, len(items))
			for i, item := range items {
				result, err := evaluateObject(item, n.Template, registry,
					field+"."+strconv.Itoa(i))
				if err != nil {
					return nil, err
				}
				results[i] = result
			}
			return results, nil
		default:
			return nil, &NotAListError{Field: field, Path: n.Path}
		}
	case SingleNode:
		return evaluateObject(Resolve(source, n.Path), n.Template, registry, field)
	default:
		return nil, &InvalidSpecError{Field: field, Message: "unrecognized node type"}
	}
}

func evaluateLeaf(source any, leaf Leaf, registry *Registry, field string) (any, error) {
	var value any
	if leaf.Path != "" {
		value = Resolve(source, leaf.Path)
	}
	fn, err := registry.lookup(leaf.Func)
	if err != nil {
		return nil, &InvalidSpecError{Field: field, Message: err.Error()}
	}
	if fn == nil {
		return value, nil
	}
	result, err := fn(value, leaf.Args...)
	if err != nil {
		return nil, &PostProcessError{Field: field, Path: leaf.Path, Err: err}
	}
	return result, nil
}
