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
	"encoding/json"
	"errors"
	"maps"
	"slices"
	"strings"

	"github.com/ebi-ait/ingest-archiver/converter"
	"github.com/ebi-ait/ingest-archiver/dsp"
)

// an error recorded against an entity that could not be converted or linked
type EntityError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// An Entity is a single converted (or unconvertible) DSP entity.
type Entity struct {
	Id   string               `json:"id"`
	Type converter.EntityType `json:"type"`
	// the id of the manifest from which the entity was first converted
	ManifestId string `json:"manifest_id,omitempty"`
	// the converted document, absent if conversion failed
	Document *dsp.Document `json:"document,omitempty"`
	// ids of the entities (by type) referenced by the document's placeholders
	Links  map[converter.EntityType]string `json:"links,omitempty"`
	Errors []EntityError                   `json:"errors,omitempty"`
}

// records the given error against the entity
func (e *Entity) addError(err error) {
	var conversionErr *converter.ConversionError
	if errors.As(err, &conversionErr) {
		e.Errors = append(e.Errors, EntityError{
			Code:    conversionErr.Code,
			Message: conversionErr.Message,
			Details: conversionErr.Details,
		})
	} else {
		e.Errors = append(e.Errors, EntityError{Code: "Error", Message: err.Error()})
	}
}

// An EntityMap holds converted entities by type and id.
type EntityMap struct {
	entities map[converter.EntityType]map[string]*Entity
}

func NewEntityMap() *EntityMap {
	return &EntityMap{
		entities: make(map[converter.EntityType]map[string]*Entity),
	}
}

// adds an entity to the map, returning false (and leaving the map unchanged)
// if an entity of the same type and id is already present
func (m *EntityMap) Add(entity *Entity) bool {
	byId, found := m.entities[entity.Type]
	if !found {
		byId = make(map[string]*Entity)
		m.entities[entity.Type] = byId
	}
	if _, found := byId[entity.Id]; found {
		return false
	}
	byId[entity.Id] = entity
	return true
}

// returns the entity with the given type and id
func (m *EntityMap) Get(entityType converter.EntityType, id string) (*Entity, bool) {
	entity, found := m.entities[entityType][id]
	return entity, found
}

// returns the entities of the given type, ordered by id
func (m *EntityMap) Entities(entityType converter.EntityType) []*Entity {
	byId := m.entities[entityType]
	entities := make([]*Entity, 0, len(byId))
	for _, id := range slices.Sorted(maps.Keys(byId)) {
		entities = append(entities, byId[id])
	}
	return entities
}

// returns all entities, ordered by type and then by id
func (m *EntityMap) All() []*Entity {
	entities := make([]*Entity, 0)
	for _, entityType := range converter.EntityTypes {
		entities = append(entities, m.Entities(entityType)...)
	}
	return entities
}

// returns the number of entities in the map
func (m *EntityMap) Len() int {
	n := 0
	for _, byId := range m.entities {
		n += len(byId)
	}
	return n
}

// returns the number of entities with errors
func (m *EntityMap) NumErrors() int {
	n := 0
	for _, entity := range m.All() {
		if len(entity.Errors) > 0 {
			n++
		}
	}
	return n
}

// returns the number of entities of each type present in the map
func (m *EntityMap) Summary() map[converter.EntityType]int {
	summary := make(map[converter.EntityType]int)
	for entityType, byId := range m.entities {
		if len(byId) > 0 {
			summary[entityType] = len(byId)
		}
	}
	return summary
}

// Replaces the placeholder aliases of every converted document with the
// aliases of the entities they refer to. References to a type absent from the
// map (e.g. one excluded from the run) are left in place; a reference to a
// missing or unconverted entity of a present type is recorded as an error.
func (m *EntityMap) LinkReferences() {
	for _, entity := range m.All() {
		doc := entity.Document
		if doc == nil {
			continue
		}
		if doc.ProjectRef != nil && doc.ProjectRef.Alias == dsp.ProjectAliasPlaceholder {
			m.link(entity, converter.Project, entity.Links[converter.Project], &doc.ProjectRef.Alias)
		}
		if doc.StudyRef != nil && doc.StudyRef.Alias == dsp.StudyAliasPlaceholder {
			m.link(entity, converter.Study, entity.Links[converter.Study], &doc.StudyRef.Alias)
		}
		for i := range doc.AssayRefs {
			if doc.AssayRefs[i].Alias == dsp.AssayAliasPlaceholder {
				m.link(entity, converter.SequencingExperiment, entity.Links[converter.SequencingExperiment],
					&doc.AssayRefs[i].Alias)
			}
		}
		for i := range doc.SampleUses {
			alias := doc.SampleUses[i].SampleRef.Alias
			if id, found := strings.CutPrefix(alias, dsp.SampleAliasPlaceholder); found {
				m.link(entity, converter.Sample, id, &doc.SampleUses[i].SampleRef.Alias)
			}
		}
	}
}

// replaces the given alias with that of the entity of the given type and id
func (m *EntityMap) link(entity *Entity, targetType converter.EntityType, id string, alias *string) {
	byId, present := m.entities[targetType]
	if !present || len(byId) == 0 {
		return
	}
	if target, found := byId[id]; found && target.Document != nil {
		*alias = target.Document.Alias
		return
	}
	entity.addError(&UnresolvedReferenceError{Type: targetType, Id: id})
}

// A Report describes the outcome of an archive run.
type Report struct {
	Summary   map[converter.EntityType]int                `json:"summary"`
	NumErrors int                                         `json:"num_errors"`
	Entities  map[converter.EntityType]map[string]*Entity `json:"entities"`
}

// returns a JSON-serializable report of the map's contents
func (m *EntityMap) Report() Report {
	entities := make(map[converter.EntityType]map[string]*Entity)
	for entityType, byId := range m.entities {
		if len(byId) > 0 {
			entities[entityType] = maps.Clone(byId)
		}
	}
	return Report{
		Summary:   m.Summary(),
		NumErrors: m.NumErrors(),
		Entities:  entities,
	}
}

// rebuilds an entity map from a report
func MapFromReport(report Report) (*EntityMap, error) {
	m := NewEntityMap()
	for entityType, byId := range report.Entities {
		if _, err := converter.ParseEntityType(string(entityType)); err != nil {
			return nil, &InvalidReportError{Message: err.Error()}
		}
		for id, entity := range byId {
			if entity == nil {
				return nil, &InvalidReportError{Message: "empty entity " + id}
			}
			entity.Id = id
			entity.Type = entityType
			m.Add(entity)
		}
	}
	return m, nil
}

// reads a report from its JSON representation
func ReadReport(data []byte) (Report, error) {
	var report Report
	if err := json.Unmarshal(data, &report); err != nil {
		return report, &InvalidReportError{Message: err.Error()}
	}
	if report.Entities == nil {
		return report, &InvalidReportError{Message: "no entities"}
	}
	return report, nil
}
