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
	"slices"
	"strings"

	"github.com/ebi-ait/ingest-archiver/dsp"
	"github.com/ebi-ait/ingest-archiver/mapping"
)

var projectFieldMapping = []FieldMap{
	{Source: "uuid__uuid", Target: "alias"},
	{Source: "content__project_core__project_title", Target: "title"},
	{Source: "content__project_core__project_description", Target: "description"},
	{Source: "submissionDate", Target: "releaseDate"},
}

func projectConfig() Config {
	return Config{
		FieldMapping: projectFieldMapping,
		// contributors, publications and funders become structured fields
		ExcludeFields: append(slices.Clone(DefaultExcludeFields),
			"content__contributors", "content__publications", "content__funders"),
		ContentPrefix:      ContentPrefix,
		RelationAttributes: true,
		Build:              buildProject,
	}
}

func buildProject(in BuildInput, doc *dsp.Document) error {
	doc.ReleaseDate = dateOnly(mapping.Stringify(in.Extracted["releaseDate"]))
	content, ok := in.Source["content"].(map[string]any)
	if !ok {
		return &MalformedInputError{Path: "content"}
	}
	for _, contributor := range objects(content["contributors"]) {
		doc.Contacts = append(doc.Contacts, contact(contributor))
	}
	for _, publication := range objects(content["publications"]) {
		doc.Publications = append(doc.Publications, dsp.Publication{
			Authors:      joinStrings(publication["authors"], ", "),
			ArticleTitle: mapping.Stringify(publication["title"]),
			Doi:          mapping.Stringify(publication["doi"]),
			PubmedId:     mapping.Stringify(publication["pmid"]),
		})
	}
	for _, funder := range objects(content["funders"]) {
		doc.Fundings = append(doc.Fundings, dsp.Funding{
			GrantId:      mapping.Stringify(funder["grant_id"]),
			GrantTitle:   mapping.Stringify(funder["grant_title"]),
			Organization: mapping.Stringify(funder["organization"]),
		})
	}
	return nil
}

// creates a contact from an HCA contributor, whose name has the form
// "first,middle,last" (the middle initials may be absent)
func contact(contributor map[string]any) dsp.Contact {
	c := dsp.Contact{
		Email:       mapping.Stringify(contributor["email"]),
		Affiliation: mapping.Stringify(contributor["institution"]),
		Address:     mapping.Stringify(contributor["address"]),
		Orcid:       mapping.Stringify(contributor["orcid_id"]),
	}
	names := strings.Split(mapping.Stringify(contributor["name"]), ",")
	switch len(names) {
	case 1:
		c.LastName = strings.TrimSpace(names[0])
	case 2:
		c.FirstName, c.LastName = strings.TrimSpace(names[0]), strings.TrimSpace(names[1])
	default:
		c.FirstName = strings.TrimSpace(names[0])
		c.MiddleInitials = strings.TrimSpace(names[1])
		c.LastName = strings.TrimSpace(names[len(names)-1])
	}
	if role, ok := contributor["project_role"].(map[string]any); ok {
		if text := mapping.Stringify(role["text"]); text != "" {
			c.Roles = []string{text}
		}
	}
	return c
}

// returns the objects in a list, skipping any other elements
func objects(value any) []map[string]any {
	list, _ := value.([]any)
	result := make([]map[string]any, 0, len(list))
	for _, element := range list {
		if object, ok := element.(map[string]any); ok {
			result = append(result, object)
		}
	}
	return result
}

// joins a list of scalars (or renders a single scalar)
func joinStrings(value any, separator string) string {
	list, ok := value.([]any)
	if !ok {
		return mapping.Stringify(value)
	}
	strs := make([]string, len(list))
	for i, element := range list {
		strs[i] = mapping.Stringify(element)
	}
	return strings.Join(strs, separator)
}
