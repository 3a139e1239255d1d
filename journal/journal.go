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

package journal

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"

	"github.com/ebi-ait/ingest-archiver/config"
)

// This is the archive journal, which logs every archive run. The journal is a table of run
// records (one per run), each stored alongside the report produced by the run.

// a record storing all information relevant to an archive run
type Record struct {
	// UUID associated with the run
	Id uuid.UUID `json:"id"`
	// the UUID of the archived project, if the run was started for a project
	ProjectUuid string `json:"project_uuid,omitempty"`
	// times at which the run started and at which it completed
	StartTime time.Time `json:"start_time"`
	StopTime  time.Time `json:"stop_time"`
	// status of the run ("succeeded", "failed", or "canceled")
	Status string `json:"status"`
	// number of entities converted by the run
	NumEntities int `json:"num_entities"`
	// number of entities that could not be converted
	NumErrors int `json:"num_errors"`
	// report produced by the run (stored separate from record)
	Report json.RawMessage `json:"-"`
}

// bucket names
const (
	runsBucket    = "runs"
	startsBucket  = "run_starts"
	reportsBucket = "reports"
)

// opens the archive journal in the configured data directory
func Init() error {
	if IsOpen() {
		return nil
	}

	// open the database, creating the schema if necessary
	dbPath := filepath.Join(config.Service.DataDirectory, "archive_journal.db")
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return &CantOpenError{
			Message: err.Error(),
		}
	}

	// set up buckets for run records, their start times, and reports
	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucketName := range []string{runsBucket, startsBucket, reportsBucket} {
			if _, err := tx.CreateBucketIfNotExists([]byte(bucketName)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return &CantOpenError{
			Message: err.Error(),
		}
	}

	slog.Debug(fmt.Sprintf("Opened archive journal at %s", dbPath))
	openChannels()
	go journalProcess(db)
	return nil
}

// saves and closes the archive journal (if it's been opened)
func Finalize() error {
	if IsOpen() {
		channels_.Input.Shutdown <- struct{}{}
		err := <-channels_.Output.Error
		closeChannels()
		return err
	}
	return nil
}

// returns true if the journal is open for writing, false if not
func IsOpen() bool {
	if channels_.Open { // has Init() been called?
		channels_.Input.CheckIfOpen <- struct{}{}
		select {
		case isOpen := <-channels_.Output.IsOpen:
			return isOpen
		case <-time.After(1 * time.Second): // after a second, we assume the goroutine has crashed
			closeChannels()
			return false
		}
	}
	return false
}

// records a completed archive run
// record: the record containing all run information
func RecordRun(record Record) error {
	switch record.Status {
	case "succeeded", "failed", "canceled":
		// pass-through (see below)
	default:
		return &NewRecordError{
			Id:      record.Id,
			Message: fmt.Sprintf("Invalid status: %s", record.Status),
		}
	}
	if record.Report != nil && !json.Valid(record.Report) {
		return &NewRecordError{
			Id:      record.Id,
			Message: "report is not valid JSON",
		}
	}

	if !IsOpen() {
		return &NotOpenError{}
	}

	channels_.Input.CreateRecord <- record
	return <-channels_.Output.Error
}

// retrieves the record (including its report) for the run with the given ID
func Run(id uuid.UUID) (Record, error) {
	if !IsOpen() {
		return Record{}, &NotOpenError{}
	}
	channels_.Input.FetchRecord <- id
	select {
	case record := <-channels_.Output.Record:
		return record, nil
	case err := <-channels_.Output.Error:
		return Record{}, err
	}
}

// retrieves records (without reports) for runs that started within the time
// range with the given (inclusive) bounds
// start: the beginning of the time period of interest
// stop: the end of the time period of interest
func Records(start, stop time.Time) ([]Record, error) {
	if !IsOpen() {
		return nil, &NotOpenError{}
	}
	channels_.Input.FetchRecords <- TimeRange{Start: start, Stop: stop}
	var records []Record
	var err error
	select {
	case records = <-channels_.Output.Records:
		return records, err
	case err = <-channels_.Output.Error:
		return records, err
	}
}

//-----------
// Internals
//-----------

// The journal gets its own goroutine so it doesn't bring down the entire archiver if it
// crashes. Here we define "input" channels (main process -> goroutine) and "output" channels
// (goroutine -> main process) for passing data back and forth

type TimeRange struct {
	Start, Stop time.Time
}

var channels_ struct {
	Open  bool // true if channels are open, false if not
	Input struct {
		CreateRecord chan Record    // for creating new records
		CheckIfOpen  chan struct{}  // for checking to see whether the database is open
		FetchRecord  chan uuid.UUID // for fetching a single record by ID
		FetchRecords chan TimeRange // for fetching records within a time range
		Shutdown     chan struct{}  // for shutting down the database
	}

	Output struct {
		Record  chan Record   // for returning a single record
		Records chan []Record // for returning records
		Error   chan error    // for returning errors
		IsOpen  chan bool     // for answering queries about whether the database is open
	}
}

func journalProcess(db *bolt.DB) {
	// handle requests
	running := true
	for running {
		select {

		case <-channels_.Input.CheckIfOpen:
			channels_.Output.IsOpen <- true // always true if this goroutine is running!

		case record := <-channels_.Input.CreateRecord:
			err := createRecord(db, record)
			channels_.Output.Error <- err

		case id := <-channels_.Input.FetchRecord:
			record, err := fetchRecord(db, id)
			if err != nil {
				channels_.Output.Error <- err
			} else {
				channels_.Output.Record <- record
			}

		case timeRange := <-channels_.Input.FetchRecords:
			records, err := fetchRecords(db, timeRange.Start, timeRange.Stop)
			if err != nil {
				channels_.Output.Error <- err
			} else {
				channels_.Output.Records <- records
			}

		case <-channels_.Input.Shutdown:
			var err error
			if closeErr := db.Close(); closeErr != nil {
				err = &CantCloseError{
					Message: closeErr.Error(),
				}
			}
			channels_.Output.Error <- err
			running = false
		}
	}
}

func openChannels() {
	channels_.Open = true
	channels_.Input.CreateRecord = make(chan Record)
	channels_.Input.CheckIfOpen = make(chan struct{})
	channels_.Input.FetchRecord = make(chan uuid.UUID)
	channels_.Input.FetchRecords = make(chan TimeRange)
	channels_.Input.Shutdown = make(chan struct{})
	channels_.Output.Record = make(chan Record)
	channels_.Output.Records = make(chan []Record)
	channels_.Output.Error = make(chan error)
	channels_.Output.IsOpen = make(chan bool)
}

func closeChannels() {
	channels_.Open = false
	close(channels_.Input.CreateRecord)
	close(channels_.Input.CheckIfOpen)
	close(channels_.Input.FetchRecord)
	close(channels_.Input.FetchRecords)
	close(channels_.Input.Shutdown)
	close(channels_.Output.Record)
	close(channels_.Output.Records)
	close(channels_.Output.Error)
	close(channels_.Output.IsOpen)
}

// fixed-width UTC time format whose keys sort chronologically
const timeKeyFormat = "2006-01-02T15:04:05.000000000Z07:00"

// returns the key indexing a run by its start time; the ID suffix keeps keys
// of runs started at the same instant distinct
func startKey(startTime time.Time, id uuid.UUID) []byte {
	return []byte(startTime.UTC().Format(timeKeyFormat) + "/" + id.String())
}

func createRecord(db *bolt.DB, record Record) error {
	jsonBytes, err := json.Marshal(&record)
	if err != nil {
		return &NewRecordError{
			Id:      record.Id,
			Message: err.Error(),
		}
	}

	return db.Update(func(tx *bolt.Tx) error {
		// store the run record by ID, indexing it by its start time
		id := []byte(record.Id.String())
		if err := tx.Bucket([]byte(runsBucket)).Put(id, jsonBytes); err != nil {
			return err
		}
		if err := tx.Bucket([]byte(startsBucket)).Put(startKey(record.StartTime, record.Id), id); err != nil {
			return err
		}

		// store the run's report (indexed by ID)
		if record.Report != nil {
			if err := tx.Bucket([]byte(reportsBucket)).Put(id, record.Report); err != nil {
				return err
			}
		}
		return nil
	})
}

func fetchRecord(db *bolt.DB, id uuid.UUID) (Record, error) {
	var record Record
	err := db.View(func(tx *bolt.Tx) error {
		key := []byte(id.String())
		v := tx.Bucket([]byte(runsBucket)).Get(key)
		if v == nil {
			return &RecordNotFoundError{Id: id}
		}
		if err := json.Unmarshal(v, &record); err != nil {
			return &InvalidRecordError{Id: id, Message: err.Error()}
		}
		if report := tx.Bucket([]byte(reportsBucket)).Get(key); report != nil {
			// values are only valid during the transaction
			record.Report = bytes.Clone(report)
		}
		return nil
	})
	return record, err
}

func fetchRecords(db *bolt.DB, start, stop time.Time) ([]Record, error) {
	records := make([]Record, 0)
	err := db.View(func(tx *bolt.Tx) error {
		runs := tx.Bucket([]byte(runsBucket))
		c := tx.Bucket([]byte(startsBucket)).Cursor()

		startTime := []byte(start.UTC().Format(timeKeyFormat))
		// "~" sorts after every ID suffix
		stopTime := []byte(stop.UTC().Format(timeKeyFormat) + "~")

		for k, id := c.Seek(startTime); k != nil && bytes.Compare(k, stopTime) <= 0; k, id = c.Next() {
			var record Record
			v := runs.Get(id)
			if v == nil {
				continue
			}
			if err := json.Unmarshal(v, &record); err != nil {
				return &InvalidRecordError{Id: record.Id, Message: err.Error()}
			}
			records = append(records, record)
		}
		return nil
	})

	return records, err
}
