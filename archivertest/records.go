package archivertest

// canned HCA entities, as returned by the Ingest API

const ProjectUuid = "2a0faf83-e342-4b1c-bb9b-cf1d1147f3bb"

const ProjectJSON = `{
  "content": {
    "describedBy": "https://schema.humancellatlas.org/type/project/14.2.0/project",
    "schema_type": "project",
    "project_core": {
      "project_short_name": "HumanKidneyCells",
      "project_title": "A single-cell atlas of the human kidney",
      "project_description": "Single-cell RNA-seq of adult human kidney."
    },
    "contributors": [
      {
        "name": "Jane,M,Doe",
        "email": "jane@example.org",
        "institution": "EMBL-EBI",
        "address": "Wellcome Genome Campus, Hinxton",
        "orcid_id": "0000-0001-2345-6789",
        "project_role": {"text": "principal investigator", "ontology": "EFO:0009736"},
        "corresponding_contributor": true
      }
    ],
    "publications": [
      {
        "authors": ["Doe JM", "Roe R"],
        "title": "Kidney cells",
        "doi": "10.1000/kidney",
        "pmid": 12345678
      }
    ],
    "funders": [
      {"grant_id": "G-1", "grant_title": "Kidney grant", "organization": "Wellcome Trust"}
    ],
    "insdc_project_accessions": ["PRJEB00001"]
  },
  "submissionDate": "2019-05-16T12:11:34.107Z",
  "updateDate": "2019-05-17T09:00:00.000Z",
  "uuid": {"uuid": "2a0faf83-e342-4b1c-bb9b-cf1d1147f3bb"}
}`

const SpecimenUuid = "a3fc3bc6-5e6a-4a85-b4b7-c1fbe3b6e7f1"

const SpecimenJSON = `{
  "content": {
    "describedBy": "https://schema.humancellatlas.org/type/biomaterial/10.2.0/specimen_from_organism",
    "schema_type": "biomaterial",
    "biomaterial_core": {
      "biomaterial_id": "specimen_1",
      "biomaterial_name": "Kidney cortex specimen",
      "biomaterial_description": "Cortex from donor 1",
      "ncbi_taxon_id": [9606]
    },
    "organ": {"text": "kidney", "ontology": "UBERON:0002113", "ontology_label": "kidney"},
    "genus_species": [{"text": "Homo sapiens", "ontology": "NCBITaxon:9606", "ontology_label": "Homo sapiens"}],
    "provenance": {"document_id": "x"}
  },
  "submissionDate": "2019-05-16T12:11:34.107Z",
  "uuid": {"uuid": "a3fc3bc6-5e6a-4a85-b4b7-c1fbe3b6e7f1"}
}`

const ProcessUuid = "0e2dd6d3-6c6b-4b56-9c1b-4e0de5a8e8a1"

const ProcessJSON = `{
  "content": {
    "describedBy": "https://schema.humancellatlas.org/type/process/9.1.0/process",
    "schema_type": "process",
    "process_core": {
      "process_id": "assay_1",
      "process_description": "Sequencing of kidney cortex cells"
    }
  },
  "submissionDate": "2019-05-16T12:11:34.107Z",
  "uuid": {"uuid": "0e2dd6d3-6c6b-4b56-9c1b-4e0de5a8e8a1"}
}`

const LibraryPrepUuid = "5b3a9f0c-1f0e-4d5c-8b59-5d9a6d4f2a10"

const LibraryPrep10xJSON = `{
  "content": {
    "describedBy": "https://schema.humancellatlas.org/type/protocol/sequencing/6.2.0/library_preparation_protocol",
    "protocol_core": {"protocol_id": "10x_v2"},
    "library_construction_method": {"text": "10X v2 sequencing", "ontology": "EFO:0009899"},
    "nucleic_acid_source": "single cell"
  },
  "uuid": {"uuid": "5b3a9f0c-1f0e-4d5c-8b59-5d9a6d4f2a10"}
}`

const LibraryPrepSmartSeqJSON = `{
  "content": {
    "describedBy": "https://schema.humancellatlas.org/type/protocol/sequencing/6.2.0/library_preparation_protocol",
    "protocol_core": {"protocol_id": "smartseq2"},
    "library_construction_method": {"text": "Smart-seq2", "ontology": "EFO:0008931"},
    "nucleic_acid_source": "single cell"
  },
  "uuid": {"uuid": "5b3a9f0c-1f0e-4d5c-8b59-5d9a6d4f2a10"}
}`

const SequencingProtocolUuid = "7d7c1a8e-39e4-4c3f-a1cb-3f1c8a0b9e22"

const SequencingProtocolJSON = `{
  "content": {
    "describedBy": "https://schema.humancellatlas.org/type/protocol/sequencing/9.0.0/sequencing_protocol",
    "protocol_core": {"protocol_id": "seq_1"},
    "instrument_manufacturer_model": {"text": "Illumina HiSeq 2500", "ontology": "EFO:0008565"},
    "paired_end": true
  },
  "uuid": {"uuid": "7d7c1a8e-39e4-4c3f-a1cb-3f1c8a0b9e22"}
}`

const FilesJSON = `[
  {
    "content": {
      "describedBy": "https://schema.humancellatlas.org/type/file/6.1.0/sequence_file",
      "file_core": {"file_name": "R1.fastq.gz", "format": "fastq.gz"},
      "read_index": "read1"
    },
    "checksums": {"md5": "2b1f0c3a7d5e4f60a1b2c3d4e5f60718"},
    "uuid": {"uuid": "c1d2e3f4-a5b6-4c7d-8e9f-0a1b2c3d4e5f"}
  },
  {
    "content": {
      "describedBy": "https://schema.humancellatlas.org/type/file/6.1.0/sequence_file",
      "file_core": {"file_name": "R2.fastq.gz", "format": "fastq.gz"},
      "read_index": "read2"
    },
    "uuid": {"uuid": "d1e2f3a4-b5c6-4d7e-8f90-1a2b3c4d5e6f"}
  }
]`

const ManifestId = "5c8b5c7fd96dbf0007bd1a35"

// returns the source record for a project conversion
func ProjectSource() map[string]any {
	return Record(ProjectJSON)
}

// returns the source record for a study conversion
func StudySource() map[string]any {
	return map[string]any{"project": Record(ProjectJSON)}
}

// returns the source record for a sample conversion
func SampleSource() map[string]any {
	return map[string]any{
		"biomaterial": Record(SpecimenJSON),
		"project":     Record(ProjectJSON),
	}
}

// returns the source record for a sequencing experiment or run conversion
func AssaySource(tenx bool) map[string]any {
	libraryPrep := LibraryPrepSmartSeqJSON
	if tenx {
		libraryPrep = LibraryPrep10xJSON
	}
	files := Record(`{"files":` + FilesJSON + `}`)["files"]
	return map[string]any{
		"process":                      Record(ProcessJSON),
		"library_preparation_protocol": Record(libraryPrep),
		"sequencing_protocol":          Record(SequencingProtocolJSON),
		"input_biomaterials":           []any{Record(SpecimenJSON)},
		"files":                        files,
		"manifest_id":                  ManifestId,
	}
}
