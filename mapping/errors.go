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

package mapping

import (
	"fmt"
)

// indicates that a mapping specification is itself invalid
type InvalidSpecError struct {
	Field, Message string
}

func (e InvalidSpecError) Error() string {
	return fmt.Sprintf("Invalid mapping specification for field '%s': %s", e.Field, e.Message)
}

// indicates that an "$array" node was applied to a source value that is not a list
type NotAListError struct {
	Field, Path string
}

func (e NotAListError) Error() string {
	return fmt.Sprintf("Cannot map field '%s': source path '%s' is not a list", e.Field, e.Path)
}

// wraps an error returned by a post-processor
type PostProcessError struct {
	Field, Path string
	Err         error
}

func (e PostProcessError) Error() string {
	return fmt.Sprintf("Cannot map field '%s' (source path '%s'): %s", e.Field, e.Path, e.Err.Error())
}

func (e PostProcessError) Unwrap() error {
	return e.Err
}

// returned by post-processors that require a non-empty input
type RequiredValueError struct {
	Processor string
}

func (e RequiredValueError) Error() string {
	return fmt.Sprintf("Post-processor '%s' requires a value, but none was found", e.Processor)
}

// returned by post-processors given a value (or argument) of the wrong type
type InvalidValueError struct {
	Processor string
	Value     any
}

func (e InvalidValueError) Error() string {
	return fmt.Sprintf("Post-processor '%s' cannot handle value %v (%T)", e.Processor, e.Value, e.Value)
}

// returned when an ontology term cannot be resolved to a URL
type TermResolutionError struct {
	Curie string
	Err   error
}

func (e TermResolutionError) Error() string {
	return fmt.Sprintf("Could not resolve ontology term '%s': %s", e.Curie, e.Err.Error())
}

func (e TermResolutionError) Unwrap() error {
	return e.Err
}
