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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ebi-ait/ingest-archiver/archivertest"
	"github.com/ebi-ait/ingest-archiver/dsp"
)

var source = archivertest.Record(`{
  "project": {
    "uuid": {"uuid": "p-1"},
    "content": {
      "project_core": {"project_title": "Kidney", "project_short_name": ""},
      "paired": true,
      "organ": {"text": "kidney", "ontology": "UBERON:0002113"},
      "samples": [
        {"uuid": {"uuid": "s-1"}, "name": "first"},
        {"uuid": {"uuid": "s-2"}, "name": "second"}
      ]
    }
  }
}`)

func TestResolve(t *testing.T) {
	assert := assert.New(t)
	assert.Equal("Kidney", Resolve(source, "project.content.project_core.project_title"))
	assert.Equal("s-2", Resolve(source, "project.content.samples.1.uuid.uuid"))
	assert.Nil(Resolve(source, "project.content.samples.2.uuid"))
	assert.Nil(Resolve(source, "project.content.samples.x"))
	assert.Nil(Resolve(source, "project.missing.field"))
	assert.Nil(Resolve(source, "project.content.project_core.project_title.deeper"))
	assert.Equal(source, Resolve(source, ""))
}

func TestEvaluateOnDirective(t *testing.T) {
	assert := assert.New(t)
	spec := Spec{
		On: "project",
		Fields: Object{
			"alias": Field("uuid.uuid", Prefix, "study_"),
			"title": Field("content.project_core.project_title", nil),
			"nested": Object{
				"flag": Field("content.paired", BooleanEnum, "PAIRED", "SINGLE"),
			},
		},
	}
	result, err := Evaluate(source, spec, NewRegistry(nil))
	assert.Nil(err)
	assert.Equal("study_p-1", result["alias"])
	assert.Equal("Kidney", result["title"])
	assert.Equal(map[string]any{"flag": "PAIRED"}, result["nested"])
}

func TestEvaluateConstantInjection(t *testing.T) {
	assert := assert.New(t)
	spec := Spec{Fields: Object{
		"library_strategy": Field("", ToFixedAttribute, "OTHER"),
		"ref":              Single("", Object{"alias": Field("", Fixed, dsp.StudyAliasPlaceholder)}),
	}}
	for _, record := range []map[string]any{source, {}} {
		result, err := Evaluate(record, spec, NewRegistry(nil))
		assert.Nil(err)
		assert.Equal([]dsp.AttributeValue{{Value: "OTHER", Terms: []dsp.Term{}}},
			result["library_strategy"])
		assert.Equal(map[string]any{"alias": dsp.StudyAliasPlaceholder}, result["ref"])
	}
}

func TestEvaluateArray(t *testing.T) {
	assert := assert.New(t)
	spec := Spec{On: "project", Fields: Object{
		"sampleUses": Array("content.samples", Object{
			"sampleRef": Object{"alias": Field("uuid.uuid", Prefix, "sample_")},
		}),
		"missing": Array("content.nothing", Object{"x": Field("y", nil)}),
	}}
	result, err := Evaluate(source, spec, NewRegistry(nil))
	assert.Nil(err)
	assert.Equal([]any{
		map[string]any{"sampleRef": map[string]any{"alias": "sample_s-1"}},
		map[string]any{"sampleRef": map[string]any{"alias": "sample_s-2"}},
	}, result["sampleUses"])
	_, found := result["missing"]
	assert.False(found)

	spec = Spec{On: "project", Fields: Object{
		"bad": Array("content.project_core", Object{"x": Field("y", nil)}),
	}}
	_, err = Evaluate(source, spec, NewRegistry(nil))
	var notAList *NotAListError
	assert.True(errors.As(err, &notAList))
	assert.Equal("bad", notAList.Field)
}

func TestEvaluateMissingValues(t *testing.T) {
	assert := assert.New(t)
	spec := Spec{On: "project", Fields: Object{
		"shortName":   Field("content.project_core.project_short_name", Default, "unspecified"),
		"missing":     Field("content.absent", ToAttribute),
		"description": Field("content.absent", Default, ""),
		"model":       Field("content.absent", ToAttribute, "unspecified"),
	}}
	result, err := Evaluate(source, spec, NewRegistry(nil))
	assert.Nil(err)
	assert.Equal("unspecified", result["shortName"])
	assert.Equal("", result["description"])
	assert.Equal([]dsp.AttributeValue{{Value: "unspecified", Terms: []dsp.Term{}}}, result["model"])
	_, found := result["missing"]
	assert.False(found)

	// prefix requires a value
	spec = Spec{On: "project", Fields: Object{"alias": Field("content.absent", Prefix, "x_")}}
	_, err = Evaluate(source, spec, NewRegistry(nil))
	var required *RequiredValueError
	assert.True(errors.As(err, &required))
	var postProcess *PostProcessError
	assert.True(errors.As(err, &postProcess))
	assert.Equal("alias", postProcess.Field)
}

func TestEvaluateFirst(t *testing.T) {
	assert := assert.New(t)
	spec := Spec{On: "project", Fields: Object{
		"first":     Field("content.samples", First, "name"),
		"firstItem": Field("content.samples", First),
		"none":      Field("content.absent", First),
	}}
	result, err := Evaluate(source, spec, NewRegistry(nil))
	assert.Nil(err)
	assert.Equal("first", result["first"])
	assert.Equal("s-1", Resolve(result["firstItem"], "uuid.uuid"))
	_, found := result["none"]
	assert.False(found)
}

func TestEvaluateOntologyAttribute(t *testing.T) {
	assert := assert.New(t)
	resolver := &archivertest.Resolver{}
	spec := Spec{On: "project", Fields: Object{
		"organ": Field("content.organ", ToOntologyAttribute),
	}}
	result, err := Evaluate(source, spec, NewRegistry(resolver))
	assert.Nil(err)
	assert.Equal([]dsp.AttributeValue{{
		Value: "kidney",
		Terms: []dsp.Term{{Url: archivertest.TermURL("UBERON:0002113")}},
	}}, result["organ"])

	resolver = &archivertest.Resolver{Unknown: map[string]bool{"UBERON:0002113": true}}
	_, err = Evaluate(source, spec, NewRegistry(resolver))
	var termErr *TermResolutionError
	assert.True(errors.As(err, &termErr))
	assert.Equal("UBERON:0002113", termErr.Curie)
}

func TestEvaluateFunctionValues(t *testing.T) {
	assert := assert.New(t)
	shout := func(value any, args ...any) (any, error) {
		return Stringify(value) + "!", nil
	}
	spec := Spec{On: "project", Fields: Object{
		"title": Field("content.project_core.project_title", shout),
		"typed": Field("content.project_core.project_title", PostProcessor(shout)),
	}}
	result, err := Evaluate(source, spec, NewRegistry(nil))
	assert.Nil(err)
	assert.Equal("Kidney!", result["title"])
	assert.Equal("Kidney!", result["typed"])

	spec = Spec{Fields: Object{"x": Field("", "no_such_processor")}}
	_, err = Evaluate(source, spec, NewRegistry(nil))
	var invalid *InvalidSpecError
	assert.True(errors.As(err, &invalid))
}

func TestBooleanEnumRejectsNonBooleans(t *testing.T) {
	assert := assert.New(t)
	_, err := booleanEnum("yes", "PAIRED", "SINGLE")
	assert.IsType(&InvalidValueError{}, err)
	_, err = booleanEnum(nil, "PAIRED", "SINGLE")
	assert.IsType(&RequiredValueError{}, err)
	value, err := booleanEnum(false, "PAIRED", "SINGLE")
	assert.Nil(err)
	assert.Equal("SINGLE", value)
}

func TestBooleanEnumAttribute(t *testing.T) {
	assert := assert.New(t)
	spec := Spec{Fields: Object{
		"layout": Field("content.paired", BooleanEnumAttribute, "PAIRED", "SINGLE"),
	}}
	result, err := Evaluate(map[string]any{"content": map[string]any{"paired": false}}, spec, NewRegistry(nil))
	assert.Nil(err)
	assert.Equal([]dsp.AttributeValue{{Value: "SINGLE", Terms: []dsp.Term{}}}, result["layout"])

	_, err = booleanEnumAttribute(nil, "PAIRED", "SINGLE")
	assert.IsType(&RequiredValueError{}, err)
	_, err = booleanEnumAttribute("yes", "PAIRED", "SINGLE")
	assert.IsType(&InvalidValueError{}, err)
}

func TestStringify(t *testing.T) {
	assert := assert.New(t)
	assert.Equal("9606", Stringify(float64(9606)))
	assert.Equal("0.5", Stringify(0.5))
	assert.Equal("true", Stringify(true))
	assert.Equal("", Stringify(nil))
	assert.Equal("abc", Stringify("abc"))
}
