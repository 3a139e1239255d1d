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
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ebi-ait/ingest-archiver/archivertest"
	"github.com/ebi-ait/ingest-archiver/converter"
	"github.com/ebi-ait/ingest-archiver/dsp"
	"github.com/ebi-ait/ingest-archiver/ingest"
	"github.com/ebi-ait/ingest-archiver/protocols"
)

// an in-memory Source holding the canned HCA entities
type fakeSource struct {
	mu        sync.Mutex
	manifests map[string]ingest.BundleManifest
	entities  map[ingest.EntityKind]map[string]map[string]any
	requests  int
}

func (s *fakeSource) Manifest(ctx context.Context, id string) (ingest.BundleManifest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests++
	if manifest, found := s.manifests[id]; found {
		manifest.Id = id
		return manifest, nil
	}
	return ingest.BundleManifest{}, &ingest.NotFoundError{Resource: "/bundleManifests/" + id}
}

func (s *fakeSource) Entity(ctx context.Context, kind ingest.EntityKind, uuid string) (map[string]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests++
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if entity, found := s.entities[kind][uuid]; found {
		return entity, nil
	}
	return nil, &ingest.NotFoundError{Resource: fmt.Sprintf("/%s/%s", kind, uuid)}
}

// returns the canned sequence files, keyed by UUID
func files() map[string]map[string]any {
	records := archivertest.Record(`{"files":` + archivertest.FilesJSON + `}`)["files"].([]any)
	byUuid := make(map[string]map[string]any)
	for _, record := range records {
		file := record.(map[string]any)
		byUuid[uuidOf(file)] = file
	}
	return byUuid
}

// returns a bundle manifest listing every canned entity
func bundle() ingest.BundleManifest {
	fileMap := make(map[string][]string)
	for uuid := range files() {
		fileMap[uuid] = []string{uuid}
	}
	return ingest.BundleManifest{
		FileProjectMap:     map[string][]string{archivertest.ProjectUuid: {archivertest.ProjectUuid}},
		FileBiomaterialMap: map[string][]string{archivertest.SpecimenUuid: {archivertest.SpecimenUuid}},
		FileProcessMap:     map[string][]string{archivertest.ProcessUuid: {archivertest.ProcessUuid}},
		FileProtocolMap: map[string][]string{
			archivertest.LibraryPrepUuid:        {archivertest.LibraryPrepUuid},
			archivertest.SequencingProtocolUuid: {archivertest.SequencingProtocolUuid},
		},
		FileFilesMap: fileMap,
	}
}

// returns a source holding two manifests ("m1" and "m2") that list the same
// entities, and a manifest ("no-protocols") without protocols
func newSource() *fakeSource {
	incomplete := bundle()
	incomplete.FileProtocolMap = nil
	return &fakeSource{
		manifests: map[string]ingest.BundleManifest{
			"m1":           bundle(),
			"m2":           bundle(),
			"no-protocols": incomplete,
		},
		entities: map[ingest.EntityKind]map[string]map[string]any{
			ingest.Projects: {archivertest.ProjectUuid: archivertest.ProjectSource()},
			ingest.Biomaterials: {
				archivertest.SpecimenUuid: archivertest.Record(archivertest.SpecimenJSON),
			},
			ingest.Processes: {archivertest.ProcessUuid: archivertest.Record(archivertest.ProcessJSON)},
			ingest.Protocols: {
				archivertest.LibraryPrepUuid:        archivertest.Record(archivertest.LibraryPrepSmartSeqJSON),
				archivertest.SequencingProtocolUuid: archivertest.Record(archivertest.SequencingProtocolJSON),
			},
			ingest.Files: files(),
		},
	}
}

// returns an archiver whose converter uses test fixtures and the given options
func newArchiver(resolver *archivertest.Resolver, excludeTypes []converter.EntityType,
	options ...converter.Option) *Archiver {
	conv := converter.New(converter.Collaborators{
		Ontology:      resolver,
		ConcreteTypes: ingest.ConcreteTypes{},
		Is10x:         protocols.Is10x,
	}, options...)
	return New(conv, excludeTypes, 4)
}

// loads the given manifests from a fresh source
func loadManifests(t *testing.T, ids ...string) []Manifest {
	manifests, err := newArchiver(&archivertest.Resolver{}, nil).Load(context.Background(), newSource(), ids)
	assert.Nil(t, err)
	return manifests
}

func TestLoadManifest(t *testing.T) {
	assert := assert.New(t)
	manifest, err := LoadManifest(context.Background(), newSource(), "m1")
	assert.Nil(err)
	assert.Equal("m1", manifest.Id)
	assert.Equal(archivertest.ProjectUuid, uuidOf(manifest.Project))
	assert.Equal(archivertest.ProcessUuid, uuidOf(manifest.Process))
	assert.Equal(archivertest.LibraryPrepUuid, uuidOf(manifest.LibraryPreparationProtocol))
	assert.Equal(archivertest.SequencingProtocolUuid, uuidOf(manifest.SequencingProtocol))
	assert.Len(manifest.Biomaterials, 1)
	assert.Len(manifest.Files, 2)
	assert.Equal(manifest.Biomaterials, manifest.InputBiomaterials())

	source := manifest.AssaySource()
	assert.Equal("m1", source["manifest_id"])
	assert.Len(source["files"], 2)
}

func TestLoadIncompleteManifest(t *testing.T) {
	assert := assert.New(t)
	_, err := LoadManifest(context.Background(), newSource(), "no-protocols")
	if assert.IsType(&IncompleteManifestError{}, err) {
		assert.Equal(libraryPreparationProtocol, err.(*IncompleteManifestError).Missing)
	}
	_, err = LoadManifest(context.Background(), newSource(), "missing")
	assert.IsType(&ingest.NotFoundError{}, err)
}

func TestInputBiomaterialsPreferCellSuspensions(t *testing.T) {
	assert := assert.New(t)
	suspension := archivertest.Record(`{
	  "content": {"describedBy": "https://schema.humancellatlas.org/type/biomaterial/13.3.0/cell_suspension"},
	  "uuid": {"uuid": "cs-1"}
	}`)
	manifest := Manifest{
		Biomaterials: []map[string]any{archivertest.Record(archivertest.SpecimenJSON), suspension},
	}
	assert.Equal([]map[string]any{suspension}, manifest.InputBiomaterials())
}

func TestLoad(t *testing.T) {
	assert := assert.New(t)
	a := newArchiver(&archivertest.Resolver{}, nil)
	manifests, err := a.Load(context.Background(), newSource(), []string{"m2", "m1"})
	assert.Nil(err)
	if assert.Len(manifests, 2) {
		assert.Equal("m2", manifests[0].Id)
		assert.Equal("m1", manifests[1].Id)
	}

	_, err = a.Load(context.Background(), newSource(), []string{"m1", "missing", "m2"})
	assert.IsType(&ingest.NotFoundError{}, err)
}

func TestConvert(t *testing.T) {
	assert := assert.New(t)
	a := newArchiver(&archivertest.Resolver{}, nil,
		converter.WithAliasPrefix(converter.Sample, "sample_"))
	entities, err := a.Convert(context.Background(), loadManifests(t, "m1", "m2"))
	assert.Nil(err)

	// entities shared by both manifests are converted once
	assert.Equal(5, entities.Len())
	assert.Equal(0, entities.NumErrors())
	assert.Equal(map[converter.EntityType]int{
		converter.Project:              1,
		converter.Study:                1,
		converter.Sample:               1,
		converter.SequencingExperiment: 1,
		converter.SequencingRun:        1,
	}, entities.Summary())

	study, found := entities.Get(converter.Study, archivertest.ProjectUuid)
	assert.True(found)
	assert.Equal("m1", study.ManifestId)
	assert.Equal(archivertest.ProjectUuid, study.Document.ProjectRef.Alias)

	experiment, found := entities.Get(converter.SequencingExperiment, archivertest.ProcessUuid)
	assert.True(found)
	assert.Equal(archivertest.ProjectUuid, experiment.Document.StudyRef.Alias)
	assert.Equal([]dsp.SampleUse{{SampleRef: dsp.Ref{Alias: "sample_" + archivertest.SpecimenUuid}}},
		experiment.Document.SampleUses)

	run, found := entities.Get(converter.SequencingRun, archivertest.ProcessUuid)
	assert.True(found)
	assert.Equal([]dsp.Ref{{Alias: archivertest.ProcessUuid}}, run.Document.AssayRefs)
	assert.Len(run.Document.Files, 2)
}

func TestConvertExcludedTypes(t *testing.T) {
	assert := assert.New(t)
	a := newArchiver(&archivertest.Resolver{}, []converter.EntityType{converter.Study, converter.Project})
	entities, err := a.Convert(context.Background(), loadManifests(t, "m1"))
	assert.Nil(err)
	assert.Equal(3, entities.Len())
	_, found := entities.Get(converter.Study, archivertest.ProjectUuid)
	assert.False(found)

	// references to excluded types are left for resolution elsewhere
	experiment, _ := entities.Get(converter.SequencingExperiment, archivertest.ProcessUuid)
	assert.Equal(dsp.StudyAliasPlaceholder, experiment.Document.StudyRef.Alias)
	assert.Empty(experiment.Errors)
}

func TestConvertRecordsFailures(t *testing.T) {
	assert := assert.New(t)
	resolver := &archivertest.Resolver{Unknown: map[string]bool{"UBERON:0002113": true}}
	entities, err := newArchiver(resolver, nil).Convert(context.Background(), loadManifests(t, "m1"))
	assert.Nil(err)
	assert.Equal(5, entities.Len())
	assert.Equal(2, entities.NumErrors())

	sample, _ := entities.Get(converter.Sample, archivertest.SpecimenUuid)
	assert.Nil(sample.Document)
	if assert.Len(sample.Errors, 1) {
		assert.Equal(converter.CodeOntologyResolution, sample.Errors[0].Code)
	}

	// the experiment's reference to the failed sample can't be resolved
	experiment, _ := entities.Get(converter.SequencingExperiment, archivertest.ProcessUuid)
	assert.NotNil(experiment.Document)
	if assert.Len(experiment.Errors, 1) {
		assert.Contains(experiment.Errors[0].Message, archivertest.SpecimenUuid)
	}
}

func TestConvertCancelled(t *testing.T) {
	manifests := loadManifests(t, "m1")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newArchiver(&archivertest.Resolver{}, nil).Convert(ctx, manifests)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReportRoundTrip(t *testing.T) {
	assert := assert.New(t)
	resolver := &archivertest.Resolver{Unknown: map[string]bool{"UBERON:0002113": true}}
	entities, err := newArchiver(resolver, nil).Convert(context.Background(), loadManifests(t, "m1"))
	assert.Nil(err)

	report := entities.Report()
	assert.Equal(entities.Summary(), report.Summary)
	assert.Equal(2, report.NumErrors)
	data, err := json.Marshal(report)
	assert.Nil(err)

	read, err := ReadReport(data)
	assert.Nil(err)
	reloaded, err := MapFromReport(read)
	assert.Nil(err)
	assert.Equal(entities.Len(), reloaded.Len())
	assert.Equal(entities.NumErrors(), reloaded.NumErrors())
	for _, entity := range entities.All() {
		other, found := reloaded.Get(entity.Type, entity.Id)
		if assert.True(found) && entity.Document != nil {
			assert.Equal(entity.Document.Alias, other.Document.Alias)
		}
	}
}

func TestReadInvalidReport(t *testing.T) {
	assert := assert.New(t)
	_, err := ReadReport([]byte(`not json`))
	assert.IsType(&InvalidReportError{}, err)
	_, err = ReadReport([]byte(`{"summary": {}}`))
	assert.IsType(&InvalidReportError{}, err)

	report, err := ReadReport([]byte(`{"entities": {"dataset": {"x": {}}}}`))
	assert.Nil(err)
	_, err = MapFromReport(report)
	assert.IsType(&InvalidReportError{}, err)
}

func TestMain(m *testing.M) {
	archivertest.EnableDebugLogging()
	status := m.Run()
	os.Exit(status)
}
