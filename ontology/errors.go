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

package ontology

import (
	"fmt"
)

// indicates that a string is not a compact identifier
type MalformedCurieError struct {
	Curie string
}

func (e MalformedCurieError) Error() string {
	return fmt.Sprintf("'%s' is not a valid CURIE (expected PREFIX:ID)", e.Curie)
}

// indicates that the ontology service knows no term for a CURIE
type UnresolvedCurieError struct {
	Curie string
}

func (e UnresolvedCurieError) Error() string {
	return fmt.Sprintf("No ontology term was found for '%s'", e.Curie)
}

// indicates that the ontology service is currently unavailable
type UnavailableError struct {
	URL string
}

func (e UnavailableError) Error() string {
	return fmt.Sprintf("Cannot reach ontology service at %s: unavailable", e.URL)
}

// indicates that the ontology service URL is invalid
type InvalidURLError struct {
	URL string
}

func (e InvalidURLError) Error() string {
	return fmt.Sprintf("Invalid ontology service URL: '%s'", e.URL)
}
