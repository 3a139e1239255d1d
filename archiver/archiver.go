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

// Package archiver converts the HCA metadata of bundle manifests into linked
// DSP documents.
package archiver

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/deliveryhero/pipeline/v2"

	"github.com/ebi-ait/ingest-archiver/converter"
)

// An Archiver converts manifests into an EntityMap.
type Archiver struct {
	// converts each entity
	Converter *converter.Converter
	// entity types that are not converted
	ExcludeTypes []converter.EntityType
	// number of manifests loaded and entities converted concurrently
	Concurrency int
}

func New(conv *converter.Converter, excludeTypes []converter.EntityType, concurrency int) *Archiver {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Archiver{
		Converter:    conv,
		ExcludeTypes: excludeTypes,
		Concurrency:  concurrency,
	}
}

// the conversion of a single entity from its source record
type job struct {
	entity *Entity
	source map[string]any
}

// Loads the manifests with the given IDs from the given source, concurrently.
// The manifests are returned in the order of their IDs. Loading stops at the
// first failure.
func (a *Archiver) Load(ctx context.Context, source Source, ids []string) ([]Manifest, error) {
	loadCtx, stop := context.WithCancel(ctx)
	defer stop()

	var mu sync.Mutex
	var loadErr error
	process := func(ctx context.Context, id string) (Manifest, error) {
		return LoadManifest(ctx, source, id)
	}
	cancel := func(id string, err error) {
		mu.Lock()
		defer mu.Unlock()
		if loadErr == nil {
			slog.Error(fmt.Sprintf("Couldn't load manifest %s: %s", id, err.Error()))
			loadErr = err
			stop()
		}
	}
	loaded := make(map[string]Manifest)
	output := pipeline.ProcessConcurrently(loadCtx, a.Concurrency,
		pipeline.NewProcessor(process, cancel), pipeline.Emit(ids...))
	for manifest := range output {
		loaded[manifest.Id] = manifest
	}

	if loadErr != nil {
		return nil, loadErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	manifests := make([]Manifest, 0, len(ids))
	for _, id := range ids {
		if manifest, found := loaded[id]; found {
			manifests = append(manifests, manifest)
		}
	}
	return manifests, nil
}

// Converts every entity of the given manifests, concurrently, and links the
// resulting documents. An entity listed by several manifests is converted
// once. Entities that fail to convert are kept in the map with their errors;
// only cancellation of the context aborts the run.
func (a *Archiver) Convert(ctx context.Context, manifests []Manifest) (*EntityMap, error) {
	entities := NewEntityMap()
	jobs := make([]job, 0)
	for _, manifest := range manifests {
		for _, j := range manifestJobs(manifest) {
			if slices.Contains(a.ExcludeTypes, j.entity.Type) {
				continue
			}
			if entities.Add(j.entity) {
				jobs = append(jobs, j)
			}
		}
	}
	slog.Info(fmt.Sprintf("Converting %d entities from %d manifests", len(jobs), len(manifests)))

	output := pipeline.ProcessConcurrently(ctx, a.Concurrency, convertEntity(a.Converter), pipeline.Emit(jobs...))
	for range output {
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entities.LinkReferences()
	return entities, nil
}

// a pipeline stage that converts an entity's source record, recording any
// failure against the entity
func convertEntity(conv *converter.Converter) pipeline.Processor[job, *Entity] {
	process := func(ctx context.Context, j job) (*Entity, error) {
		doc, err := conv.Convert(j.entity.Type, j.source)
		if err != nil {
			slog.Debug(fmt.Sprintf("Couldn't convert %s %s: %s", j.entity.Type, j.entity.Id, err.Error()))
			j.entity.addError(err)
		} else {
			j.entity.Document = &doc
		}
		return j.entity, nil
	}
	cancel := func(j job, err error) {
		slog.Info(fmt.Sprintf("Conversion of %s %s cancelled: %s", j.entity.Type, j.entity.Id, err.Error()))
	}
	return pipeline.NewProcessor(process, cancel)
}

// returns the conversion jobs for the entities of a manifest, with the links
// their placeholder references resolve to
func manifestJobs(m Manifest) []job {
	projectId := uuidOf(m.Project)
	processId := uuidOf(m.Process)
	jobs := []job{
		{
			entity: &Entity{Id: projectId, Type: converter.Project, ManifestId: m.Id},
			source: m.Project,
		},
		{
			entity: &Entity{
				Id:         projectId,
				Type:       converter.Study,
				ManifestId: m.Id,
				Links:      map[converter.EntityType]string{converter.Project: projectId},
			},
			source: map[string]any{"project": m.Project},
		},
	}
	for _, biomaterial := range m.Biomaterials {
		jobs = append(jobs, job{
			entity: &Entity{Id: uuidOf(biomaterial), Type: converter.Sample, ManifestId: m.Id},
			source: map[string]any{"biomaterial": biomaterial, "project": m.Project},
		})
	}
	assay := m.AssaySource()
	jobs = append(jobs,
		job{
			entity: &Entity{
				Id:         processId,
				Type:       converter.SequencingExperiment,
				ManifestId: m.Id,
				Links:      map[converter.EntityType]string{converter.Study: projectId},
			},
			source: assay,
		},
		job{
			entity: &Entity{
				Id:         processId,
				Type:       converter.SequencingRun,
				ManifestId: m.Id,
				Links:      map[converter.EntityType]string{converter.SequencingExperiment: processId},
			},
			source: assay,
		},
	)
	return jobs
}

// returns the uuid.uuid of an HCA entity, or an empty string if it has none
func uuidOf(entity map[string]any) string {
	identity, _ := entity["uuid"].(map[string]any)
	id, _ := identity["uuid"].(string)
	return id
}
