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
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/ebi-ait/ingest-archiver/ingest"
)

// concrete protocol types that take part in an assay
const (
	libraryPreparationProtocol = "library_preparation_protocol"
	sequencingProtocol         = "sequencing_protocol"
	cellSuspension             = "cell_suspension"
)

// A Manifest holds the metadata entities of one assay, as listed by a bundle
// manifest.
type Manifest struct {
	Id                         string
	Project                    map[string]any
	Biomaterials               []map[string]any
	Process                    map[string]any
	LibraryPreparationProtocol map[string]any
	SequencingProtocol         map[string]any
	Files                      []map[string]any
}

// returns the biomaterials that are inputs to the manifest's assay: its cell
// suspensions if it has any, or else all of its biomaterials
func (m Manifest) InputBiomaterials() []map[string]any {
	inputs := make([]map[string]any, 0)
	for _, biomaterial := range m.Biomaterials {
		if concreteType, _ := ingest.ConcreteEntityType(biomaterial); concreteType == cellSuspension {
			inputs = append(inputs, biomaterial)
		}
	}
	if len(inputs) == 0 {
		return m.Biomaterials
	}
	return inputs
}

// returns the source record for the conversion of the manifest's assay into a
// sequencing experiment or run
func (m Manifest) AssaySource() map[string]any {
	inputs := make([]any, len(m.InputBiomaterials()))
	for i, biomaterial := range m.InputBiomaterials() {
		inputs[i] = biomaterial
	}
	files := make([]any, len(m.Files))
	for i, file := range m.Files {
		files[i] = file
	}
	return map[string]any{
		"process":                  m.Process,
		libraryPreparationProtocol: m.LibraryPreparationProtocol,
		sequencingProtocol:         m.SequencingProtocol,
		"input_biomaterials":       inputs,
		"files":                    files,
		"manifest_id":              m.Id,
	}
}

// A Source provides bundle manifests and the entities they list. It is
// satisfied by *ingest.Client.
type Source interface {
	Manifest(ctx context.Context, id string) (ingest.BundleManifest, error)
	Entity(ctx context.Context, kind ingest.EntityKind, uuid string) (map[string]any, error)
}

// loads the manifest with the given ID and all of the entities it lists
func LoadManifest(ctx context.Context, source Source, id string) (Manifest, error) {
	bundle, err := source.Manifest(ctx, id)
	if err != nil {
		return Manifest{}, err
	}
	manifest := Manifest{Id: id}

	projects, err := fetchEntities(ctx, source, ingest.Projects, bundle.FileProjectMap)
	if err != nil {
		return Manifest{}, err
	}
	if len(projects) == 0 {
		return Manifest{}, &IncompleteManifestError{Id: id, Missing: "project"}
	}
	manifest.Project = projects[0]

	if manifest.Biomaterials, err = fetchEntities(ctx, source, ingest.Biomaterials, bundle.FileBiomaterialMap); err != nil {
		return Manifest{}, err
	}

	// NOTE: a manifest may list several processes; the assay process is
	// taken to be the first one by UUID
	processes, err := fetchEntities(ctx, source, ingest.Processes, bundle.FileProcessMap)
	if err != nil {
		return Manifest{}, err
	}
	if len(processes) == 0 {
		return Manifest{}, &IncompleteManifestError{Id: id, Missing: "process"}
	}
	manifest.Process = processes[0]

	protocols, err := fetchEntities(ctx, source, ingest.Protocols, bundle.FileProtocolMap)
	if err != nil {
		return Manifest{}, err
	}
	for _, protocol := range protocols {
		concreteType, err := ingest.ConcreteEntityType(protocol)
		if err != nil {
			return Manifest{}, err
		}
		switch concreteType {
		case libraryPreparationProtocol:
			manifest.LibraryPreparationProtocol = protocol
		case sequencingProtocol:
			manifest.SequencingProtocol = protocol
		}
	}
	if manifest.LibraryPreparationProtocol == nil {
		return Manifest{}, &IncompleteManifestError{Id: id, Missing: libraryPreparationProtocol}
	}
	if manifest.SequencingProtocol == nil {
		return Manifest{}, &IncompleteManifestError{Id: id, Missing: sequencingProtocol}
	}

	if manifest.Files, err = fetchEntities(ctx, source, ingest.Files, bundle.FileFilesMap); err != nil {
		return Manifest{}, err
	}
	slog.Debug(fmt.Sprintf("Loaded manifest %s (%d biomaterials, %d files)", id,
		len(manifest.Biomaterials), len(manifest.Files)))
	return manifest, nil
}

// fetches the entities whose UUIDs key the given manifest map, in UUID order
func fetchEntities(ctx context.Context, source Source, kind ingest.EntityKind,
	uuids map[string][]string) ([]map[string]any, error) {
	entities := make([]map[string]any, 0, len(uuids))
	for _, uuid := range slices.Sorted(maps.Keys(uuids)) {
		entity, err := source.Entity(ctx, kind, uuid)
		if err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}
	return entities, nil
}
