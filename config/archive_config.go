package config

import (
	"fmt"
	"slices"
)

// entity types that can be archived (and configured under "converters")
var entityTypes = []string{
	"project",
	"study",
	"sample",
	"sequencingExperiment",
	"sequencingRun",
}

// a type with parameters governing archive runs
type archiveConfig struct {
	// prefix applied to the aliases of all converted entities
	AliasPrefix string `json:"alias_prefix" yaml:"alias_prefix"`
	// directory to which reports are written
	OutputDirectory string `json:"output_dir" yaml:"output_dir"`
	// entity types that are not converted
	ExcludeTypes []string `json:"exclude_types" yaml:"exclude_types"`
	// number of entities converted concurrently
	Concurrency int `json:"concurrency" yaml:"concurrency"`
	// if true, converted entities carry "HCA <Field> UUID" attributes
	RelationAttributes bool `json:"relation_attributes" yaml:"relation_attributes"`
}

func (c archiveConfig) validate() error {
	if c.Concurrency <= 0 {
		return fmt.Errorf("Invalid archive concurrency: %d (must be positive)", c.Concurrency)
	}
	if c.OutputDirectory == "" {
		return fmt.Errorf("No archive output_dir was provided!")
	}
	for _, entityType := range c.ExcludeTypes {
		if !slices.Contains(entityTypes, entityType) {
			return fmt.Errorf("Invalid entity type in archive exclude_types: '%s'", entityType)
		}
	}
	return nil
}

// a type with per-entity-type converter parameters
type converterConfig struct {
	// prefix applied to the aliases of converted entities of this type,
	// overriding the archive-wide prefix
	AliasPrefix string `json:"alias_prefix" yaml:"alias_prefix"`
}

func (c converterConfig) validate(entityType string) error {
	if !slices.Contains(entityTypes, entityType) {
		return fmt.Errorf("Invalid entity type under converters: '%s'", entityType)
	}
	return nil
}

// returns the alias prefix for the given entity type
func AliasPrefix(entityType string) string {
	if converter, found := Converters[entityType]; found && converter.AliasPrefix != "" {
		return converter.AliasPrefix
	}
	return Archive.AliasPrefix
}
