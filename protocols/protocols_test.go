package protocols

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ebi-ait/ingest-archiver/archivertest"
)

func TestIs10xTrue(t *testing.T) {
	assert := assert.New(t)
	assert.True(Is10x(archivertest.Record(archivertest.LibraryPrep10xJSON)))

	// recognized by term alone
	assert.True(Is10x(archivertest.Record(`{"content": {
	  "library_construction_method": {"text": "Chromium", "ontology": "EFO:0009922"}
	}}`)))
	// recognized by text alone
	assert.True(Is10x(archivertest.Record(`{"content": {
	  "library_construction_method": {"text": "10x 3' v3 sequencing"}
	}}`)))
	assert.True(Is10x(archivertest.Record(`{"content": {
	  "library_construction_approach": "10X v2 sequencing"
	}}`)))
}

func TestIs10xFalse(t *testing.T) {
	assert := assert.New(t)
	assert.False(Is10x(archivertest.Record(archivertest.LibraryPrepSmartSeqJSON)))
	assert.False(Is10x(archivertest.Record(`{}`)))
	assert.False(Is10x(archivertest.Record(`{"content": {}}`)))
}
