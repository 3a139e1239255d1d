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

// Package dsp defines the documents accepted by the Data Submission Portal (DSP),
// the target schema for converted HCA metadata.
package dsp

import (
	"encoding/json"
)

// placeholder aliases for references to entities converted separately; the
// archiver replaces them once all entities in a manifest have been converted
const (
	ProjectAliasPlaceholder = "__PROJECT_ALIAS__"
	StudyAliasPlaceholder   = "__STUDY_ALIAS__"
	SampleAliasPlaceholder  = "__SAMPLE_ALIAS__"
	AssayAliasPlaceholder   = "__ASSAY_ALIAS__"
)

// a resolvable reference to an ontology term
type Term struct {
	Url string `json:"url"`
}

// a single value of a named attribute, optionally annotated with ontology terms
type AttributeValue struct {
	Value any    `json:"value"`
	Terms []Term `json:"terms"`
}

// marshals the attribute value, rendering missing terms as an empty list
func (v AttributeValue) MarshalJSON() ([]byte, error) {
	type attributeValue AttributeValue
	if v.Terms == nil {
		v.Terms = []Term{}
	}
	return json.Marshal(attributeValue(v))
}

// the generic attributes of a document, keyed by display name
type Attributes map[string][]AttributeValue

// appends a value (with any given ontology terms) to the named attribute
func (a Attributes) Add(name string, value any, terms ...Term) {
	if terms == nil {
		terms = []Term{}
	}
	a[name] = append(a[name], AttributeValue{Value: value, Terms: terms})
}

// returns the first value of the named attribute, or nil if there is none
func (a Attributes) First(name string) any {
	if values := a[name]; len(values) > 0 {
		return values[0].Value
	}
	return nil
}

// a reference to another DSP entity by alias
type Ref struct {
	Alias string `json:"alias"`
}

// a data file belonging to a sequencing run
type File struct {
	Name           string `json:"name"`
	Type           string `json:"type"`
	ChecksumMethod string `json:"checksum_method,omitempty"`
	Checksum       string `json:"checksum,omitempty"`
}

// a use of a sample by a sequencing experiment
type SampleUse struct {
	SampleRef Ref `json:"sampleRef"`
}

// a relationship between two samples (unused by HCA conversions, which
// always emit an empty list)
type SampleRelationship struct {
	Alias              string `json:"alias"`
	RelationshipNature string `json:"relationshipNature"`
}

// a person responsible for a project
type Contact struct {
	FirstName      string   `json:"firstName,omitempty"`
	MiddleInitials string   `json:"middleInitials,omitempty"`
	LastName       string   `json:"lastName,omitempty"`
	Email          string   `json:"email,omitempty"`
	Affiliation    string   `json:"affiliation,omitempty"`
	Address        string   `json:"address,omitempty"`
	Orcid          string   `json:"orcid,omitempty"`
	Roles          []string `json:"roles,omitempty"`
}

// a publication describing a project
type Publication struct {
	Authors      string `json:"authors,omitempty"`
	ArticleTitle string `json:"articleTitle,omitempty"`
	Doi          string `json:"doi,omitempty"`
	PubmedId     string `json:"pubmedId,omitempty"`
}

// a funding source for a project
type Funding struct {
	GrantId      string `json:"grantId,omitempty"`
	GrantTitle   string `json:"grantTitle,omitempty"`
	Organization string `json:"organization,omitempty"`
}

// a converted DSP document; the fields present depend on the entity type
type Document struct {
	Alias               string               `json:"alias"`
	Title               string               `json:"title"`
	Description         string               `json:"description"`
	Attributes          Attributes           `json:"attributes"`
	TaxonId             string               `json:"taxonId,omitempty"`
	Taxon               string               `json:"taxon,omitempty"`
	ReleaseDate         string               `json:"releaseDate,omitempty"`
	SampleRelationships []SampleRelationship `json:"sampleRelationships,omitempty"`
	Files               []File               `json:"files,omitempty"`
	StudyRef            *Ref                 `json:"studyRef,omitempty"`
	ProjectRef          *Ref                 `json:"projectRef,omitempty"`
	SampleUses          []SampleUse          `json:"sampleUses,omitempty"`
	AssayRefs           []Ref                `json:"assayRefs,omitempty"`
	Contacts            []Contact            `json:"contacts,omitempty"`
	Publications        []Publication        `json:"publications,omitempty"`
	Fundings            []Funding            `json:"fundings,omitempty"`
}

// creates a Document from a generic JSON-shaped tree (as produced by the
// declarative mapper)
func DocumentFromMap(m map[string]any) (Document, error) {
	var doc Document
	bytes, err := json.Marshal(m)
	if err != nil {
		return doc, err
	}
	err = json.Unmarshal(bytes, &doc)
	if doc.Attributes == nil {
		doc.Attributes = make(Attributes)
	}
	return doc, err
}
