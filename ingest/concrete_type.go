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
	"net/url"
	"path"
	"strings"
)

// ConcreteTypes determines the concrete type of an HCA entity from the last
// path segment of its schema URL, e.g.
// https://schema.humancellatlas.org/type/biomaterial/10.2.0/specimen_from_organism
// has the concrete type "specimen_from_organism".
type ConcreteTypes struct{}

func (ConcreteTypes) ConcreteEntityType(entity map[string]any) (string, error) {
	return ConcreteEntityType(entity)
}

// returns the concrete type of the given entity
func ConcreteEntityType(entity map[string]any) (string, error) {
	content, _ := entity["content"].(map[string]any)
	describedBy, _ := content["describedBy"].(string)
	if describedBy == "" {
		return "", &MissingSchemaError{Uuid: entityUuid(entity)}
	}
	schemaPath := describedBy
	if u, err := url.Parse(describedBy); err == nil && u.Path != "" {
		schemaPath = u.Path
	}
	concreteType := path.Base(strings.TrimSuffix(schemaPath, "/"))
	if concreteType == "." || concreteType == "/" {
		return "", &MissingSchemaError{Uuid: entityUuid(entity)}
	}
	return concreteType, nil
}

// returns the uuid.uuid of an entity, or an empty string if it has none
func entityUuid(entity map[string]any) string {
	identity, _ := entity["uuid"].(map[string]any)
	id, _ := identity["uuid"].(string)
	return id
}
