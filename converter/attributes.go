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
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ebi-ait/ingest-archiver/dsp"
	"github.com/ebi-ait/ingest-archiver/mapping"
	"github.com/ebi-ait/ingest-archiver/ontology"
)

// default markers for content keys and HCA ontology leaves
const (
	ContentPrefix  = "content" + Delimiter
	OntologyMarker = Delimiter + "ontology"
	TextMarker     = Delimiter + "text"
)

// Extracts the generic attributes of a flattened record. Every key containing
// contentPrefix that was not consumed by the field mapper becomes an attribute
// named after the key with contentPrefix removed. A key containing
// the ontology marker is paired with its text sibling: the text is the value
// and the CURIE is expanded into a term. Text siblings never produce
// attributes of their own, and an ontology key whose text sibling was consumed
// produces none at all. Returns the attributes and the set of keys they
// were built from.
func ExtractAttributes(flattened *Flattened, consumed map[string]bool,
	contentPrefix string, resolver ontology.Resolver) (dsp.Attributes, map[string]bool, error) {
	attributes := make(dsp.Attributes)
	used := make(map[string]bool)
	for _, key := range flattened.Keys() {
		if consumed[key] || !strings.Contains(key, contentPrefix) {
			continue
		}
		value, _ := flattened.Get(key)
		if strings.Contains(key, OntologyMarker) {
			textKey := strings.Replace(key, OntologyMarker, TextMarker, 1)
			name := strings.Replace(withoutPrefix(textKey, contentPrefix), TextMarker, "", 1)
			used[key] = true
			if consumed[textKey] {
				// the field mapper owns the text, so the code has no attribute
				continue
			}
			text, found := flattened.Get(textKey)
			if !found {
				// an ontology code without text: the attribute is kept empty
				// and the code is not resolved
				attributes[name] = append(attributes[name], dsp.AttributeValue{Value: "", Terms: []dsp.Term{}})
				continue
			}
			used[textKey] = true
			curie := mapping.Stringify(value)
			if resolver == nil {
				return nil, nil, &MissingCollaboratorError{Name: "ontology resolver"}
			}
			url, err := resolver.ExpandCurie(curie)
			if err != nil {
				return nil, nil, &OntologyResolutionError{Curie: curie, Path: key, Err: err}
			}
			attributes.Add(name, text, dsp.Term{Url: url})
		} else if !strings.Contains(key, TextMarker) {
			used[key] = true
			attributes.Add(withoutPrefix(key, contentPrefix), value)
		}
	}
	return attributes, used, nil
}

// removes the first occurrence of the content prefix from a key, so that
// "biomaterial__content__organ" becomes "biomaterial__organ"
func withoutPrefix(key, prefix string) string {
	return strings.Replace(key, prefix, "", 1)
}

// Builds "HCA <Field> UUID" attributes for the linked entities of a source
// record: every top-level object carrying a uuid.uuid identity yields one
// value, and every non-empty list of such objects yields a single attribute
// "HCA <Field> UUIDs" whose value joins the identities with ", ". The
// top-level "uuid" field (the record's own identity) is skipped.
func RelationAttributes(record map[string]any) dsp.Attributes {
	attributes := make(dsp.Attributes)
	title := cases.Title(language.English)
	for _, key := range slices.Sorted(maps.Keys(record)) {
		if key == "uuid" {
			continue
		}
		name := "HCA " + title.String(strings.ReplaceAll(key, "_", " "))
		switch value := record[key].(type) {
		case map[string]any:
			if id, found := entityUuid(value); found {
				attributes.Add(name+" UUID", id)
			}
		case []any:
			ids := make([]string, 0, len(value))
			for _, element := range value {
				object, ok := element.(map[string]any)
				if !ok {
					ids = nil
					break
				}
				id, found := entityUuid(object)
				if !found {
					ids = nil
					break
				}
				ids = append(ids, id)
			}
			if len(ids) > 0 {
				attributes.Add(name+" UUIDs", strings.Join(ids, ", "))
			}
		}
	}
	return attributes
}

// returns the uuid.uuid identity of an entity, if present
func entityUuid(entity map[string]any) (string, bool) {
	identity, ok := entity["uuid"].(map[string]any)
	if !ok {
		return "", false
	}
	id, ok := identity["uuid"].(string)
	return id, ok && id != ""
}

// adds every value of the given attributes to dst
func mergeAttributes(dst, src dsp.Attributes) {
	for _, name := range slices.Sorted(maps.Keys(src)) {
		dst[name] = append(dst[name], src[name]...)
	}
}
