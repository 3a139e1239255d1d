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

package converter

import (
	"maps"
	"reflect"
	"slices"
	"strconv"
	"strings"
)

// the delimiter joining path segments in flattened keys
const Delimiter = "__"

// Flattened is a single-level view of a nested record: a mapping from
// delimiter-joined paths to scalar leaf values that remembers the order in
// which the paths were first seen.
type Flattened struct {
	keys   []string
	values map[string]any
}

// returns the flattened keys in traversal order
func (f *Flattened) Keys() []string {
	return slices.Clone(f.keys)
}

// returns the value stored under the given key, if any
func (f *Flattened) Get(key string) (any, bool) {
	value, found := f.values[key]
	return value, found
}

// returns the number of leaves
func (f *Flattened) Len() int {
	return len(f.keys)
}

func (f *Flattened) set(key string, value any) {
	if _, found := f.values[key]; !found {
		f.keys = append(f.keys, key)
	}
	f.values[key] = value
}

// Removes every key containing one of the given substrings. Matching is a
// plain case-sensitive substring test, not a path-segment match: "__ontology_label"
// drops every label leaf whatever its prefix.
func (f *Flattened) RemoveKeysContaining(substrings []string) {
	if len(substrings) == 0 {
		return
	}
	kept := f.keys[:0]
	for _, key := range f.keys {
		excluded := false
		for _, substring := range substrings {
			if strings.Contains(key, substring) {
				excluded = true
				break
			}
		}
		if excluded {
			delete(f.values, key)
		} else {
			kept = append(kept, key)
		}
	}
	f.keys = kept
}

// Flattens a nested record. Object keys are visited in sorted order and list
// elements in index order, so the result is deterministic. Empty objects and
// lists produce no entries. Besides decoded JSON, any slice, array or
// string-keyed map (e.g. []string or []map[string]any) is traversed.
func Flatten(record map[string]any, delimiter string) *Flattened {
	f := &Flattened{values: make(map[string]any)}
	flattenObject(f, record, "", delimiter)
	return f
}

func flattenObject(f *Flattened, object map[string]any, parent, delimiter string) {
	for _, key := range slices.Sorted(maps.Keys(object)) {
		flattenValue(f, object[key], joinPath(parent, key, delimiter), delimiter)
	}
}

func flattenValue(f *Flattened, value any, path, delimiter string) {
	switch v := value.(type) {
	case map[string]any:
		flattenObject(f, v, path, delimiter)
	case []any:
		for i, element := range v {
			flattenValue(f, element, joinPath(path, strconv.Itoa(i), delimiter), delimiter)
		}
	case nil:
		f.set(path, v)
	default:
		rv := reflect.ValueOf(v)
		switch {
		case rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array:
			for i := 0; i < rv.Len(); i++ {
				flattenValue(f, rv.Index(i).Interface(), joinPath(path, strconv.Itoa(i), delimiter), delimiter)
			}
		case rv.Kind() == reflect.Map && rv.Type().Key().Kind() == reflect.String:
			object := make(map[string]any, rv.Len())
			iter := rv.MapRange()
			for iter.Next() {
				object[iter.Key().String()] = iter.Value().Interface()
			}
			flattenObject(f, object, path, delimiter)
		default:
			f.set(path, v)
		}
	}
}

func joinPath(parent, segment, delimiter string) string {
	if parent == "" {
		return segment
	}
	return parent + delimiter + segment
}

// returns a shallow copy of the record without the given top-level keys
func ExcludeSubtrees(record map[string]any, keys []string) map[string]any {
	filtered := make(map[string]any, len(record))
	for key, value := range record {
		if !slices.Contains(keys, key) {
			filtered[key] = value
		}
	}
	return filtered
}

// Drops the given top-level sub-trees, flattens what remains, and removes
// every flattened key containing one of the given substrings.
func FlattenFiltered(record map[string]any, delimiter string, subtrees, substrings []string) *Flattened {
	flattened := Flatten(ExcludeSubtrees(record, subtrees), delimiter)
	flattened.RemoveKeysContaining(substrings)
	return flattened
}
