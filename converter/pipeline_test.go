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
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ebi-ait/ingest-archiver/archivertest"
	"github.com/ebi-ait/ingest-archiver/dsp"
)

// collects every scalar leaf reachable from a value, rendered as a string
func leaves(value any) []string {
	switch v := value.(type) {
	case map[string]any:
		var result []string
		for _, child := range v {
			result = append(result, leaves(child)...)
		}
		return result
	case []any:
		var result []string
		for _, child := range v {
			result = append(result, leaves(child)...)
		}
		return result
	default:
		return []string{fmt.Sprint(v)}
	}
}

func TestFlatten(t *testing.T) {
	assert := assert.New(t)
	record := archivertest.Record(`{
	  "a": {"b": 1, "c": [true, {"d": "x"}]},
	  "e": "y",
	  "empty": {},
	  "none": []
	}`)
	flattened := Flatten(record, Delimiter)
	assert.Equal([]string{"a__b", "a__c__0", "a__c__1__d", "e"}, flattened.Keys())
	value, found := flattened.Get("a__c__1__d")
	assert.True(found)
	assert.Equal("x", value)
	value, _ = flattened.Get("a__b")
	assert.Equal(float64(1), value)
	_, found = flattened.Get("empty")
	assert.False(found)

	// deterministic across runs
	for i := 0; i < 10; i++ {
		assert.Equal(flattened.Keys(), Flatten(record, Delimiter).Keys())
	}
}

func TestFlattenIsLossless(t *testing.T) {
	assert := assert.New(t)
	for _, record := range []map[string]any{
		archivertest.ProjectSource(),
		archivertest.SampleSource(),
		archivertest.AssaySource(false),
	} {
		flattened := Flatten(record, Delimiter)
		values := make([]string, 0, flattened.Len())
		for _, key := range flattened.Keys() {
			value, _ := flattened.Get(key)
			values = append(values, fmt.Sprint(value))
		}
		assert.ElementsMatch(leaves(record), values)
	}
}

func TestFlattenTypedCollections(t *testing.T) {
	assert := assert.New(t)
	record := map[string]any{
		"a": []string{"x", "y"},
		"b": []map[string]any{{"c": 1}},
		"d": map[string]string{"e": "z"},
		"f": []int{},
	}
	flattened := Flatten(record, Delimiter)
	assert.Equal([]string{"a__0", "a__1", "b__0__c", "d__e"}, flattened.Keys())
	value, _ := flattened.Get("a__1")
	assert.Equal("y", value)
	value, _ = flattened.Get("b__0__c")
	assert.Equal(1, value)
	value, _ = flattened.Get("d__e")
	assert.Equal("z", value)
}

func TestExclusion(t *testing.T) {
	assert := assert.New(t)
	record := archivertest.Record(`{
	  "keep": {"organ": {"text": "kidney", "ontology_label": "kidney"}},
	  "other": {"x": {"ontology_label": "dropped"}},
	  "subtree": {"y": 1}
	}`)
	flattened := FlattenFiltered(record, Delimiter, []string{"subtree"}, []string{"__ontology_label"})
	// substring matching drops label leaves whatever their prefix
	assert.Equal([]string{"keep__organ__text"}, flattened.Keys())

	// the source record is untouched
	assert.Contains(record, "subtree")
	filtered := ExcludeSubtrees(record, []string{"keep", "absent"})
	assert.Equal([]string{"other/x/ontology_label", "subtree/y"}, Flatten(filtered, "/").Keys())
}

func TestMapFields(t *testing.T) {
	assert := assert.New(t)
	flattened := Flatten(archivertest.Record(`{"uuid": {"uuid": "u-1"}}`), Delimiter)
	extracted, consumed := MapFields(flattened, []FieldMap{
		{Source: "uuid__uuid", Target: "alias"},
		{Source: "content__title", Target: "title"},
	})
	assert.Equal(map[string]any{"alias": "u-1", "title": ""}, extracted)
	assert.Equal(map[string]bool{"uuid__uuid": true}, consumed)
}

func TestOntologyPairing(t *testing.T) {
	assert := assert.New(t)
	resolver := &archivertest.Resolver{}
	flattened := Flatten(archivertest.Record(`{"a__ontology": "EFO:1", "a__text": "foo"}`), Delimiter)
	attributes, _, err := ExtractAttributes(flattened, nil, "", resolver)
	assert.Nil(err)
	assert.Equal(dsp.Attributes{
		"a": {{Value: "foo", Terms: []dsp.Term{{Url: archivertest.TermURL("EFO:1")}}}},
	}, attributes)
	assert.Equal([]string{"EFO:1"}, resolver.Calls())
}

func TestMissingOntologySibling(t *testing.T) {
	assert := assert.New(t)
	resolver := &archivertest.Resolver{}
	flattened := Flatten(archivertest.Record(`{"a__ontology": "EFO:1"}`), Delimiter)
	attributes, _, err := ExtractAttributes(flattened, nil, "", resolver)
	assert.Nil(err)
	assert.Equal(dsp.Attributes{"a": {{Value: "", Terms: []dsp.Term{}}}}, attributes)
	assert.Empty(resolver.Calls())
}

func TestExtractAttributesFailsOnUnknownCurie(t *testing.T) {
	assert := assert.New(t)
	resolver := &archivertest.Resolver{Unknown: map[string]bool{"EFO:1": true}}
	flattened := Flatten(archivertest.Record(
		`{"content": {"a": {"ontology": "EFO:1", "text": "foo"}}}`), Delimiter)
	_, _, err := ExtractAttributes(flattened, nil, ContentPrefix, resolver)
	var ontologyErr *OntologyResolutionError
	assert.True(errors.As(err, &ontologyErr))
	assert.Equal("EFO:1", ontologyErr.Curie)
	assert.Equal("content__a__ontology", ontologyErr.Path)
}

func TestExtractAttributesOnlyUsesContent(t *testing.T) {
	assert := assert.New(t)
	flattened := Flatten(archivertest.Record(`{
	  "submissionDate": "2019-05-16",
	  "biomaterial": {"content": {"organ": {"ontology": "UBERON:1", "text": "kidney"}, "name": "x"}}
	}`), Delimiter)
	attributes, used, err := ExtractAttributes(flattened, nil, ContentPrefix, &archivertest.Resolver{})
	assert.Nil(err)
	assert.Equal(dsp.Attributes{
		"biomaterial__name":  {{Value: "x", Terms: []dsp.Term{}}},
		"biomaterial__organ": {{Value: "kidney", Terms: []dsp.Term{{Url: archivertest.TermURL("UBERON:1")}}}},
	}, attributes)
	assert.Equal(map[string]bool{
		"biomaterial__content__name":            true,
		"biomaterial__content__organ__ontology": true,
		"biomaterial__content__organ__text":     true,
	}, used)
}

func TestFieldsAndAttributesAreDisjoint(t *testing.T) {
	assert := assert.New(t)
	for _, config := range []Config{sampleConfig(), projectConfig(), sequencingRunConfig()} {
		for _, record := range []map[string]any{
			archivertest.ProjectSource(),
			archivertest.SampleSource(),
			archivertest.AssaySource(false),
		} {
			flattened := FlattenFiltered(record, Delimiter, config.ExcludeData, config.ExcludeFields)
			_, consumed := MapFields(flattened, config.FieldMapping)
			_, used, err := ExtractAttributes(flattened, consumed, config.ContentPrefix, &archivertest.Resolver{})
			assert.Nil(err)
			for key := range used {
				assert.False(consumed[key], key)
			}
		}
	}

	// a mapped text leaf leaves its ontology code without an attribute
	flattened := Flatten(archivertest.Record(`{
	  "content": {"species": {"ontology": "NCBITaxon:9606", "text": "Homo sapiens"}}
	}`), Delimiter)
	fields, consumed := MapFields(flattened, []FieldMap{{Source: "content__species__text", Target: "taxon"}})
	assert.Equal("Homo sapiens", fields["taxon"])
	resolver := &archivertest.Resolver{}
	attributes, used, err := ExtractAttributes(flattened, consumed, ContentPrefix, resolver)
	assert.Nil(err)
	assert.Equal(map[string]bool{"content__species__ontology": true}, used)
	for key := range used {
		assert.False(consumed[key], key)
	}
	assert.Empty(attributes)
	assert.Empty(resolver.Calls())
}

func TestRenameAttribute(t *testing.T) {
	assert := assert.New(t)
	assert.Equal("Biomaterial Core - Biomaterial Name",
		RenameAttribute("content__biomaterial_core__biomaterial_name", Delimiter,
			RenameOptions{StripPrefix: true}))
	assert.Equal("Project Core - Project Short Name",
		RenameAttribute("project_core__project_short_name", Delimiter, RenameOptions{}))
	assert.Equal("biomaterial core - biomaterial name",
		RenameAttribute("content__biomaterial_core__biomaterial_name", Delimiter,
			RenameOptions{StripPrefix: true, Lowercase: true}))
	// names without the delimiter pass through unchanged
	assert.Equal("HCA Project UUID", RenameAttribute("HCA Project UUID", Delimiter,
		RenameOptions{StripPrefix: true}))
	assert.Equal("library_strategy", RenameAttribute("library_strategy", Delimiter, RenameOptions{}))
}

func TestRenameAttributesMergesCollisions(t *testing.T) {
	assert := assert.New(t)
	attributes := dsp.Attributes{}
	attributes.Add("a__organ", "kidney")
	attributes.Add("b__organ", "liver")
	renamed := RenameAttributes(attributes, Delimiter, RenameOptions{StripPrefix: true})
	assert.Equal(dsp.Attributes{"Organ": {
		{Value: "kidney", Terms: []dsp.Term{}},
		{Value: "liver", Terms: []dsp.Term{}},
	}}, renamed)
}

func TestRelationAttributes(t *testing.T) {
	assert := assert.New(t)
	attributes := RelationAttributes(archivertest.AssaySource(false))
	assert.Equal(archivertest.ProcessUuid, attributes.First("HCA Process UUID"))
	assert.Equal(archivertest.LibraryPrepUuid, attributes.First("HCA Library Preparation Protocol UUID"))
	assert.Equal(archivertest.SequencingProtocolUuid, attributes.First("HCA Sequencing Protocol UUID"))
	assert.Equal(archivertest.SpecimenUuid, attributes.First("HCA Input Biomaterials UUIDs"))
	assert.Equal("c1d2e3f4-a5b6-4c7d-8e9f-0a1b2c3d4e5f, d1e2f3a4-b5c6-4d7e-8f90-1a2b3c4d5e6f",
		attributes.First("HCA Files UUIDs"))
	_, found := attributes["HCA Manifest Id UUID"]
	assert.False(found)

	// a record's own identity is not a relation
	assert.Empty(RelationAttributes(archivertest.ProjectSource()))
}
