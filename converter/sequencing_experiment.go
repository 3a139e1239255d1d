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

func sequencingExperimentConfig() Config {
	return Config{Spec: sequencingExperimentSpec}
}

// sequencing experiments are derived from an assay process together with its
// protocols and input biomaterials
func sequencingExperimentSpec(config Config) mapping.Spec {
	return mapping.Spec{
		Fields: mapping.Object{
			"alias":       mapping.Field("process.uuid.uuid", mapping.Prefix, config.AliasPrefix),
			"title":       mapping.Field("input_biomaterials", mapping.First, "content.biomaterial_core.biomaterial_id"),
			"description": mapping.Field("process.content.process_core.process_description", mapping.Default, ""),
			"attributes": mapping.Object{
				"HCA Process UUID":                      mapping.Field("process.uuid.uuid", mapping.ToAttribute),
				"HCA Library Preparation Protocol UUID": mapping.Field("library_preparation_protocol.uuid.uuid", mapping.ToAttribute),
				"HCA Sequencing Protocol UUID":          mapping.Field("sequencing_protocol.uuid.uuid", mapping.ToAttribute),
				"library_strategy":                      mapping.Field("", mapping.ToFixedAttribute, "OTHER"),
				"library_source":                        mapping.Field("", mapping.ToFixedAttribute, "TRANSCRIPTOMIC SINGLE CELL"),
				"library_selection":                     mapping.Field("", mapping.ToFixedAttribute, "OTHER"),
				"library_layout":                        mapping.Field("sequencing_protocol.content.paired_end", mapping.BooleanEnumAttribute, "PAIRED", "SINGLE"),
				"platform_type":                         mapping.Field("", mapping.ToFixedAttribute, "ILLUMINA"),
				"instrument_model": mapping.Field("sequencing_protocol.content.instrument_manufacturer_model.text",
					mapping.ToAttribute, "unspecified"),
				"library_construction_method": mapping.Field("library_preparation_protocol.content.library_construction_method",
					mapping.ToOntologyAttribute),
			},
			"studyRef": mapping.Single("", mapping.Object{
				"alias": mapping.Field("", mapping.Fixed, dsp.StudyAliasPlaceholder),
			}),
			"sampleUses": mapping.Array("input_biomaterials", mapping.Object{
				"sampleRef": mapping.Object{
					"alias": mapping.Field("uuid.uuid", mapping.Prefix, dsp.SampleAliasPlaceholder),
				},
			}),
		},
	}
}

