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

// Package protocols classifies HCA protocol records.
package protocols

import (
	"strings"
)

// EFO terms for 10x Genomics library construction methods
var tenXTerms = map[string]bool{
	"EFO:0008995": true, // 10X sequencing
	"EFO:0009310": true, // 10X v2 sequencing
	"EFO:0009899": true, // 10X 3' v2 sequencing
	"EFO:0009900": true, // 10X 5' v2 sequencing
	"EFO:0009901": true, // 10X 3' v1 sequencing
	"EFO:0009922": true, // 10X 3' v3 sequencing
	"EFO:0030003": true, // 10X 3' transcription profiling
	"EFO:0030004": true, // 10X 5' transcription profiling
}

// Returns true if the given library preparation protocol uses 10x chemistry,
// i.e. if its library construction method is a known 10x term or its text
// mentions 10x.
func Is10x(libraryPreparationProtocol map[string]any) bool {
	content, _ := libraryPreparationProtocol["content"].(map[string]any)
	method, _ := content["library_construction_method"].(map[string]any)
	if method == nil {
		// older schema versions carry the method as plain text
		text, _ := content["library_construction_approach"].(string)
		return mentions10x(text)
	}
	if curie, _ := method["ontology"].(string); tenXTerms[curie] {
		return true
	}
	text, _ := method["text"].(string)
	return mentions10x(text)
}

func mentions10x(text string) bool {
	return strings.Contains(strings.ToLower(text), "10x")
}
