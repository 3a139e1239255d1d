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

package ingest

import (
	"fmt"
)

// indicates that the Ingest API is currently unavailable
type UnavailableError struct {
	URL string
}

func (e UnavailableError) Error() string {
	return fmt.Sprintf("Cannot reach the Ingest API at %s: unavailable", e.URL)
}

// indicates that a requested resource does not exist
type NotFoundError struct {
	Resource string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("The resource '%s' was not found", e.Resource)
}

// indicates that the Ingest API returned an unexpected status
type ResponseError struct {
	Resource string
	Status   int
	Message  string
}

func (e ResponseError) Error() string {
	return fmt.Sprintf("An error occurred with the Ingest API (%d) for '%s': %s",
		e.Status, e.Resource, e.Message)
}

// indicates that a base URL is not a valid http(s) URL
type InvalidURLError struct {
	URL string
}

func (e InvalidURLError) Error() string {
	return fmt.Sprintf("Invalid Ingest API URL: '%s'", e.URL)
}

// indicates that an entity has no schema (content.describedBy) from which its
// concrete type could be determined
type MissingSchemaError struct {
	Uuid string
}

func (e MissingSchemaError) Error() string {
	if e.Uuid != "" {
		return fmt.Sprintf("Entity %s has no schema (content.describedBy)", e.Uuid)
	}
	return "Entity has no schema (content.describedBy)"
}
