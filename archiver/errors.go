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

package archiver

import (
	"fmt"

	"github.com/ebi-ait/ingest-archiver/converter"
)

// indicates that a bundle manifest lacks an entity needed for archiving
type IncompleteManifestError struct {
	Id, Missing string
}

func (e IncompleteManifestError) Error() string {
	return fmt.Sprintf("Bundle manifest %s has no %s", e.Id, e.Missing)
}

// indicates that a placeholder reference could not be resolved to the alias
// of a converted entity
type UnresolvedReferenceError struct {
	Type converter.EntityType
	Id   string
}

func (e UnresolvedReferenceError) Error() string {
	return fmt.Sprintf("Unresolved reference to %s %s", e.Type, e.Id)
}

// indicates that a report could not be read
type InvalidReportError struct {
	Message string
}

func (e InvalidReportError) Error() string {
	return fmt.Sprintf("Invalid archive report: %s", e.Message)
}
