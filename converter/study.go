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

// the study type of every HCA study
const studyType = "Transcriptome Analysis"

func studyConfig() Config {
	return Config{Spec: studySpec}
}

// studies are derived from the HCA project found under "project"
func studySpec(config Config) mapping.Spec {
	return mapping.Spec{
		On: "project",
		Fields: mapping.Object{
			"alias":       mapping.Field("uuid.uuid", mapping.Prefix, config.AliasPrefix),
			"title":       mapping.Field("content.project_core.project_title", mapping.Default, ""),
			"description": mapping.Field("content.project_core.project_description", mapping.Default, ""),
			"attributes": mapping.Object{
				"HCA Project UUID":   mapping.Field("uuid.uuid", mapping.ToAttribute),
				"Project Short Name": mapping.Field("content.project_core.project_short_name", mapping.ToAttribute),
				"study_type":         mapping.Field("", mapping.ToFixedAttribute, studyType),
				"study_abstract":     mapping.Field("content.project_core.project_description", mapping.ToAttribute),
			},
			"projectRef": mapping.Single("", mapping.Object{
				"alias": mapping.Field("", mapping.Fixed, dsp.ProjectAliasPlaceholder),
			}),
		},
	}
}
