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
	"errors"
	"fmt"

	"github.com/ebi-ait/ingest-archiver/mapping"
)

// codes identifying the kind of a ConversionError
const (
	CodeMalformedInput         = "MalformedInput"
	CodeTaxonomyResolution     = "TaxonomyResolution"
	CodeFormatResolution       = "FormatResolution"
	CodeOntologyResolution     = "OntologyResolution"
	CodeConcreteTypeResolution = "ConcreteTypeResolution"
	CodeMissingCollaborator    = "MissingCollaborator"
	CodeInvalidMapping         = "InvalidMapping"
)

// This error type is returned by every failed conversion. It wraps the error
// of the stage that failed (available via errors.As) and carries the original
// source record.
type ConversionError struct {
	Code    string
	Message string
	Details any
	Err     error
}

func (e ConversionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e ConversionError) Unwrap() error {
	return e.Err
}

// indicates that a source path required by the conversion is absent or unusable
type MalformedInputError struct {
	Path    string
	Message string
}

func (e MalformedInputError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("Malformed input at '%s': %s", e.Path, e.Message)
	}
	return fmt.Sprintf("Malformed input: required field '%s' is missing", e.Path)
}

// indicates that a taxonomy identifier has no known taxon name
type TaxonomyResolutionError struct {
	TaxonId string
}

func (e TaxonomyResolutionError) Error() string {
	return fmt.Sprintf("Unknown NCBI taxonomy identifier: '%s'", e.TaxonId)
}

// indicates that a file format has no known DSP file type
type FormatResolutionError struct {
	File, Format string
}

func (e FormatResolutionError) Error() string {
	return fmt.Sprintf("Unknown format '%s' for file '%s'", e.Format, e.File)
}

// indicates that the ontology resolver rejected a CURIE
type OntologyResolutionError struct {
	Curie, Path string
	Err         error
}

func (e OntologyResolutionError) Error() string {
	return fmt.Sprintf("Could not resolve ontology term '%s' (at '%s'): %s", e.Curie, e.Path, e.Err.Error())
}

func (e OntologyResolutionError) Unwrap() error {
	return e.Err
}

// indicates that the concrete type of an entity could not be determined
type ConcreteTypeError struct {
	Err error
}

func (e ConcreteTypeError) Error() string {
	return fmt.Sprintf("Could not determine concrete entity type: %s", e.Err.Error())
}

func (e ConcreteTypeError) Unwrap() error {
	return e.Err
}

// indicates that a collaborator needed by a conversion was not supplied
type MissingCollaboratorError struct {
	Name string
}

func (e MissingCollaboratorError) Error() string {
	return fmt.Sprintf("No %s was provided to the converter", e.Name)
}

// indicates that an entity type has no converter
type UnknownEntityTypeError struct {
	EntityType string
}

func (e UnknownEntityTypeError) Error() string {
	return fmt.Sprintf("Unknown entity type: '%s'", e.EntityType)
}

// maps declarative mapper failures onto the converter's error kinds
func normalizeError(err error) error {
	var termErr *mapping.TermResolutionError
	var required *mapping.RequiredValueError
	var postProcess *mapping.PostProcessError
	switch {
	case errors.As(err, &termErr):
		path := ""
		if errors.As(err, &postProcess) {
			path = postProcess.Path
		}
		return &OntologyResolutionError{Curie: termErr.Curie, Path: path, Err: termErr.Err}
	case errors.As(err, &required):
		path := ""
		if errors.As(err, &postProcess) {
			path = postProcess.Path
		}
		return &MalformedInputError{Path: path, Message: required.Error()}
	}
	return err
}

// returns the code corresponding to the given (normalized) error
func errorCode(err error) string {
	var malformed *MalformedInputError
	var taxonomy *TaxonomyResolutionError
	var format *FormatResolutionError
	var ontologyErr *OntologyResolutionError
	var concrete *ConcreteTypeError
	var missing *MissingCollaboratorError
	switch {
	case errors.As(err, &malformed):
		return CodeMalformedInput
	case errors.As(err, &taxonomy):
		return CodeTaxonomyResolution
	case errors.As(err, &format):
		return CodeFormatResolution
	case errors.As(err, &ontologyErr):
		return CodeOntologyResolution
	case errors.As(err, &concrete):
		return CodeConcreteTypeResolution
	case errors.As(err, &missing):
		return CodeMissingCollaborator
	}
	return CodeInvalidMapping
}

// wraps a stage failure into a ConversionError carrying the source record
func newConversionError(entity EntityType, record map[string]any, err error) *ConversionError {
	err = normalizeError(err)
	return &ConversionError{
		Code:    errorCode(err),
		Message: fmt.Sprintf("An error occurred converting a %s: %s", entity, err.Error()),
		Details: record,
		Err:     err,
	}
}
