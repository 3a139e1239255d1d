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
	"fmt"

	"github.com/ebi-ait/ingest-archiver/dsp"
	"github.com/ebi-ait/ingest-archiver/mapping"
)

var sequencingRunFieldMapping = []FieldMap{
	{Source: "process__uuid__uuid", Target: "alias"},
	{Source: "process__content__process_core__process_id", Target: "title"},
	{Source: "process__content__process_core__process_description", Target: "description"},
}

// HCA file formats and the DSP file types they're archived as
var fileTypes = map[string]string{
	"fastq.gz": "fastq",
	"fastq":    "fastq",
	"bam":      "bam",
	"cram":     "cram",
}

func sequencingRunConfig() Config {
	return Config{
		FieldMapping: sequencingRunFieldMapping,
		ExcludeData: []string{
			"library_preparation_protocol",
			"sequencing_protocol",
			"files",
			"input_biomaterials",
			"manifest_id",
		},
		ExcludeFields:      DefaultExcludeFields,
		ContentPrefix:      ContentPrefix,
		Rename:             RenameOptions{StripPrefix: true},
		RelationAttributes: true,
		Build:              buildSequencingRun,
	}
}

func buildSequencingRun(in BuildInput, doc *dsp.Document) error {
	protocol, ok := in.Source["library_preparation_protocol"].(map[string]any)
	if !ok {
		return &MalformedInputError{Path: "library_preparation_protocol"}
	}
	if in.Collaborators.Is10x == nil {
		return &MissingCollaboratorError{Name: "10x protocol predicate"}
	}
	if in.Collaborators.Is10x(protocol) {
		// 10x runs are archived as a single BAM file named after the manifest
		manifestId := mapping.Stringify(in.Source["manifest_id"])
		if manifestId == "" {
			return &MalformedInputError{Path: "manifest_id"}
		}
		doc.Files = []dsp.File{{Name: manifestId + ".bam", Type: "bam"}}
	} else {
		files, ok := in.Source["files"].([]any)
		if !ok {
			return &MalformedInputError{Path: "files"}
		}
		doc.Files = make([]dsp.File, 0, len(files))
		for i, f := range files {
			record, ok := f.(map[string]any)
			if !ok {
				return &MalformedInputError{Path: fmt.Sprintf("files.%d", i), Message: "not an object"}
			}
			file, err := sequencingFile(record, fmt.Sprintf("files.%d", i))
			if err != nil {
				return err
			}
			doc.Files = append(doc.Files, file)
		}
	}
	doc.AssayRefs = []dsp.Ref{{Alias: dsp.AssayAliasPlaceholder}}
	return nil
}

// creates a DSP file from an HCA sequence file record
func sequencingFile(record map[string]any, path string) (dsp.File, error) {
	flattened := Flatten(record, Delimiter)
	name, found := flattened.Get("content__file_core__file_name")
	if !found {
		return dsp.File{}, &MalformedInputError{Path: path + ".content.file_core.file_name"}
	}
	format, found := flattened.Get("content__file_core__format")
	if !found {
		format, found = flattened.Get("content__file_core__file_format")
	}
	if !found {
		return dsp.File{}, &MalformedInputError{Path: path + ".content.file_core.format"}
	}
	fileType, found := fileTypes[mapping.Stringify(format)]
	if !found {
		return dsp.File{}, &FormatResolutionError{
			File:   mapping.Stringify(name),
			Format: mapping.Stringify(format),
		}
	}
	file := dsp.File{Name: mapping.Stringify(name), Type: fileType}
	if checksum, found := flattened.Get("checksums__md5"); found {
		file.ChecksumMethod = "MD5"
		file.Checksum = mapping.Stringify(checksum)
	}
	return file, nil
}
