// This package contains testing utilities for the ingest archiver.
package archivertest

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// Enables DEBUG log messages for the archiver's structured log (slog).
func EnableDebugLogging() {
	logLevel := new(slog.LevelVar)
	logLevel.Set(slog.LevelDebug)
	h := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})
	slog.SetDefault(slog.New(h))
}

// An ontology resolver fixture that expands CURIEs of the form PREFIX:ID to
// http://purl.obolibrary.org/obo/PREFIX_ID, records the CURIEs it was asked
// for, and fails for any CURIE listed in Unknown.
type Resolver struct {
	Unknown map[string]bool

	mu    sync.Mutex
	calls []string
}

func (r *Resolver) ExpandCurie(curie string) (string, error) {
	r.mu.Lock()
	r.calls = append(r.calls, curie)
	r.mu.Unlock()
	if r.Unknown[curie] || !strings.Contains(curie, ":") {
		return "", fmt.Errorf("Unrecognized CURIE: %s", curie)
	}
	return TermURL(curie), nil
}

// returns the CURIEs the resolver has been asked to expand, in order
func (r *Resolver) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string{}, r.calls...)
}

// returns the URL the Resolver fixture produces for the given CURIE
func TermURL(curie string) string {
	return "http://purl.obolibrary.org/obo/" + strings.Replace(curie, ":", "_", 1)
}

// A concrete type resolver fixture that reports the last segment of the
// entity's content.describedBy URL.
type ConcreteTypes struct{}

func (ConcreteTypes) ConcreteEntityType(entity map[string]any) (string, error) {
	content, _ := entity["content"].(map[string]any)
	describedBy, _ := content["describedBy"].(string)
	if describedBy == "" {
		return "", fmt.Errorf("No describedBy found for entity")
	}
	return describedBy[strings.LastIndex(describedBy, "/")+1:], nil
}

// decodes a JSON object literal, panicking on malformed input
func Record(jsonText string) map[string]any {
	var record map[string]any
	if err := json.Unmarshal([]byte(jsonText), &record); err != nil {
		panic(fmt.Sprintf("Invalid test record: %s", err.Error()))
	}
	return record
}
