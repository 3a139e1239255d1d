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

// Package converter turns HCA metadata records into DSP documents.
//
// Each entity type is converted either by the generic pipeline (flatten and
// filter, map fields, extract attributes, run the entity's build step, rename
// attributes, apply the alias prefix) or by evaluating a declarative mapping
// specification. Conversions are pure functions of the source record, the
// entity's configuration and the collaborators; a Converter may be shared by
// any number of goroutines.
package converter

import (
	"strings"

	"github.com/ebi-ait/ingest-archiver/dsp"
	"github.com/ebi-ait/ingest-archiver/mapping"
	"github.com/ebi-ait/ingest-archiver/ontology"
)

// EntityType identifies a DSP entity type produced by the converter.
type EntityType string

const (
	Project              EntityType = "project"
	Study                EntityType = "study"
	Sample               EntityType = "sample"
	SequencingExperiment EntityType = "sequencingExperiment"
	SequencingRun        EntityType = "sequencingRun"
)

// all entity types, in the order in which a manifest's entities are converted
var EntityTypes = []EntityType{Project, Study, Sample, SequencingExperiment, SequencingRun}

// parses an entity type name
func ParseEntityType(name string) (EntityType, error) {
	for _, entityType := range EntityTypes {
		if string(entityType) == name {
			return entityType, nil
		}
	}
	return "", &UnknownEntityTypeError{EntityType: name}
}

// a ConcreteTypeResolver reports the concrete subtype of an HCA entity
// (e.g. "specimen_from_organism" for a biomaterial)
type ConcreteTypeResolver interface {
	ConcreteEntityType(entity map[string]any) (string, error)
}

// a TenXPredicate reports whether a library preparation protocol uses 10x
// chemistry
type TenXPredicate func(libraryPreparationProtocol map[string]any) bool

// the external services a conversion may consult
type Collaborators struct {
	Ontology      ontology.Resolver
	ConcreteTypes ConcreteTypeResolver
	Is10x         TenXPredicate
}

// the input to an entity-specific build step
type BuildInput struct {
	// the source record being converted
	Source map[string]any
	// the filtered, flattened source record
	Flattened *Flattened
	// the output of the field mapper, keyed by target field
	Extracted     map[string]any
	Collaborators Collaborators
}

// a BuildFunc enriches a document produced by the generic pipeline
type BuildFunc func(in BuildInput, doc *dsp.Document) error

// a SpecFunc produces the declarative mapping specification for an entity
// type, given the entity's configuration
type SpecFunc func(config Config) mapping.Spec

// Config describes how one entity type is converted. A Config is a value: the
// converter never modifies it.
type Config struct {
	// flattened source keys copied to target fields; the targets "alias",
	// "title" and "description" populate the document directly
	FieldMapping []FieldMap
	// top-level sub-trees dropped before flattening
	ExcludeData []string
	// substrings identifying flattened keys dropped after flattening
	ExcludeFields []string
	// the substring identifying flattened keys that become attributes
	ContentPrefix string
	Rename        RenameOptions
	// prepended to the base alias
	AliasPrefix string
	// if true, "HCA <Field> UUID" attributes are added for linked entities
	RelationAttributes bool
	// the entity-specific build step of the generic pipeline
	Build BuildFunc
	// if non-nil, the entity is converted declaratively and every generic
	// pipeline setting above except AliasPrefix is ignored
	Spec SpecFunc
}

// flattened keys dropped from every generic conversion
var DefaultExcludeFields = []string{
	"describedBy",
	"schema_type",
	"schema_version",
	"provenance",
	"__ontology_label",
	"updateDate",
}

// returns the default configuration for the given entity type
func DefaultConfig(entityType EntityType) (Config, error) {
	switch entityType {
	case Project:
		return projectConfig(), nil
	case Study:
		return studyConfig(), nil
	case Sample:
		return sampleConfig(), nil
	case SequencingExperiment:
		return sequencingExperimentConfig(), nil
	case SequencingRun:
		return sequencingRunConfig(), nil
	}
	return Config{}, &UnknownEntityTypeError{EntityType: string(entityType)}
}

// Converter converts source records of every entity type.
type Converter struct {
	collaborators Collaborators
	configs       map[EntityType]Config
	registry      *mapping.Registry
}

// an Option customizes a Converter
type Option func(*Converter)

// sets the alias prefix of an entity type
func WithAliasPrefix(entityType EntityType, prefix string) Option {
	return func(c *Converter) {
		if config, found := c.configs[entityType]; found {
			config.AliasPrefix = prefix
			c.configs[entityType] = config
		}
	}
}

// enables or disables "HCA <Field> UUID" attributes for every entity type
func WithRelationAttributes(enabled bool) Option {
	return func(c *Converter) {
		for entityType, config := range c.configs {
			config.RelationAttributes = enabled
			c.configs[entityType] = config
		}
	}
}

// replaces the configuration of an entity type
func WithConfig(entityType EntityType, config Config) Option {
	return func(c *Converter) {
		c.configs[entityType] = config
	}
}

// registers an additional named post-processor for declarative specifications
func WithPostProcessor(name string, fn mapping.PostProcessor) Option {
	return func(c *Converter) {
		c.registry.Register(name, fn)
	}
}

// creates a converter using the given collaborators and the default
// configuration of every entity type, modified by any given options
func New(collaborators Collaborators, options ...Option) *Converter {
	c := &Converter{
		collaborators: collaborators,
		configs:       make(map[EntityType]Config),
		registry:      mapping.NewRegistry(collaborators.Ontology),
	}
	for _, entityType := range EntityTypes {
		c.configs[entityType], _ = DefaultConfig(entityType)
	}
	for _, option := range options {
		option(c)
	}
	return c
}

// returns the configuration used for the given entity type
func (c *Converter) Config(entityType EntityType) (Config, bool) {
	config, found := c.configs[entityType]
	return config, found
}

// Converts a source record into a DSP document of the given entity type. Any
// failure is returned as a *ConversionError, and no partial document is
// returned with it.
func (c *Converter) Convert(entityType EntityType, record map[string]any) (dsp.Document, error) {
	config, found := c.configs[entityType]
	if !found {
		return dsp.Document{}, &UnknownEntityTypeError{EntityType: string(entityType)}
	}
	var doc dsp.Document
	var err error
	if config.Spec != nil {
		doc, err = convertDeclarative(config, c.registry, record)
	} else {
		doc, err = Convert(config, c.collaborators, record)
	}
	if err != nil {
		return dsp.Document{}, newConversionError(entityType, record, err)
	}
	return doc, nil
}

// Runs the generic conversion pipeline for the given configuration. Errors are
// returned as produced by the failing stage.
func Convert(config Config, collaborators Collaborators, record map[string]any) (dsp.Document, error) {
	flattened := FlattenFiltered(record, Delimiter, config.ExcludeData, config.ExcludeFields)
	extracted, consumed := MapFields(flattened, config.FieldMapping)
	attributes, _, err := ExtractAttributes(flattened, consumed, config.ContentPrefix, collaborators.Ontology)
	if err != nil {
		return dsp.Document{}, err
	}
	if config.RelationAttributes {
		mergeAttributes(attributes, RelationAttributes(record))
	}

	doc := dsp.Document{
		Alias:       mapping.Stringify(extracted["alias"]),
		Title:       mapping.Stringify(extracted["title"]),
		Description: mapping.Stringify(extracted["description"]),
		Attributes:  attributes,
	}
	if doc.Alias == "" {
		return dsp.Document{}, &MalformedInputError{Path: aliasSource(config)}
	}
	if config.Build != nil {
		in := BuildInput{
			Source:        record,
			Flattened:     flattened,
			Extracted:     extracted,
			Collaborators: collaborators,
		}
		if err := config.Build(in, &doc); err != nil {
			return dsp.Document{}, err
		}
	}
	doc.Attributes = RenameAttributes(doc.Attributes, Delimiter, config.Rename)
	doc.Alias = config.AliasPrefix + doc.Alias
	return doc, nil
}

// evaluates the declarative specification of an entity type
func convertDeclarative(config Config, registry *mapping.Registry, record map[string]any) (dsp.Document, error) {
	tree, err := mapping.Evaluate(record, config.Spec(config), registry)
	if err != nil {
		return dsp.Document{}, err
	}
	doc, err := dsp.DocumentFromMap(tree)
	if err != nil {
		return dsp.Document{}, &MalformedInputError{Path: "", Message: err.Error()}
	}
	if doc.Alias == "" {
		return dsp.Document{}, &MalformedInputError{Path: "alias"}
	}
	return doc, nil
}

// returns the source key of the alias field, as a dotted path
func aliasSource(config Config) string {
	for _, field := range config.FieldMapping {
		if field.Target == "alias" {
			return strings.ReplaceAll(field.Source, Delimiter, ".")
		}
	}
	return "alias"
}

// returns the date portion of an ISO 8601 date-time
func dateOnly(dateTime string) string {
	date, _, _ := strings.Cut(dateTime, "T")
	return date
}
