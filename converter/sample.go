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
	"github.com/ebi-ait/ingest-archiver/dsp"
	"github.com/ebi-ait/ingest-archiver/mapping"
)

var sampleFieldMapping = []FieldMap{
	{Source: "biomaterial__uuid__uuid", Target: "alias"},
	{Source: "biomaterial__content__biomaterial_core__biomaterial_name", Target: "title"},
	{Source: "biomaterial__content__biomaterial_core__biomaterial_description", Target: "description"},
	{Source: "biomaterial__content__biomaterial_core__ncbi_taxon_id__0", Target: "taxonId"},
	{Source: "biomaterial__submissionDate", Target: "releaseDate"},
}

// NCBI taxonomy identifiers of the species archived by HCA
var taxa = map[string]string{
	"9606":  "Homo sapiens",
	"10090": "Mus musculus",
}

// the value of the "Project" attribute of every sample
const sampleProjectLabel = "Human Cell Atlas"

func sampleConfig() Config {
	return Config{
		FieldMapping:       sampleFieldMapping,
		// the project is referenced by relation attributes only
		ExcludeData:        []string{"project"},
		ExcludeFields:      DefaultExcludeFields,
		ContentPrefix:      ContentPrefix,
		Rename:             RenameOptions{StripPrefix: true},
		RelationAttributes: true,
		Build:              buildSample,
	}
}

func buildSample(in BuildInput, doc *dsp.Document) error {
	doc.ReleaseDate = dateOnly(mapping.Stringify(in.Extracted["releaseDate"]))

	taxonId := mapping.Stringify(in.Extracted["taxonId"])
	if taxonId == "" {
		return &MalformedInputError{Path: "biomaterial.content.biomaterial_core.ncbi_taxon_id"}
	}
	taxon, found := taxa[taxonId]
	if !found {
		return &TaxonomyResolutionError{TaxonId: taxonId}
	}
	doc.TaxonId, doc.Taxon = taxonId, taxon

	biomaterial, ok := in.Source["biomaterial"].(map[string]any)
	if !ok {
		return &MalformedInputError{Path: "biomaterial"}
	}
	if in.Collaborators.ConcreteTypes == nil {
		return &MissingCollaboratorError{Name: "concrete type resolver"}
	}
	concreteType, err := in.Collaborators.ConcreteTypes.ConcreteEntityType(biomaterial)
	if err != nil {
		return &ConcreteTypeError{Err: err}
	}
	doc.Attributes.Add("Biomaterial Type", concreteType)
	doc.Attributes.Add("Project", sampleProjectLabel)
	doc.SampleRelationships = []dsp.SampleRelationship{}
	return nil
}
