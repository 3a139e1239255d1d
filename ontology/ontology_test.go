package ontology

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// a fake OLS instance that knows a single term
func olsServer(requests *int32) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(requests, 1)
		if r.URL.Path != "/api/terms" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		switch r.URL.Query().Get("id") {
		case "EFO:0009899":
			fmt.Fprint(w, `{"_embedded":{"terms":[{"iri":"http://www.ebi.ac.uk/efo/EFO_0009899","obo_id":"EFO:0009899"}]}}`)
		case "UBERON:BUSY":
			w.WriteHeader(http.StatusServiceUnavailable)
		default:
			fmt.Fprint(w, `{"_embedded":{"terms":[]}}`)
		}
	}))
}

func TestNewClientRejectsBadURL(t *testing.T) {
	_, err := NewClient("not a url", time.Second)
	assert.IsType(t, &InvalidURLError{}, err)
	_, err = NewClient("ftp://ols.example.com", time.Second)
	assert.IsType(t, &InvalidURLError{}, err)
}

func TestIsCurie(t *testing.T) {
	assert := assert.New(t)
	assert.True(IsCurie("EFO:0009899"))
	assert.True(IsCurie("UBERON:0000955"))
	assert.False(IsCurie("EFO"))
	assert.False(IsCurie(":0009899"))
	assert.False(IsCurie("EFO:"))
	assert.False(IsCurie("http://www.ebi.ac.uk/efo/EFO_0009899"))
}

func TestExpandCurie(t *testing.T) {
	assert := assert.New(t)
	var requests int32
	server := olsServer(&requests)
	defer server.Close()

	client, err := NewClient(server.URL+"/", time.Second)
	assert.Nil(err)

	url, err := client.ExpandCurie("EFO:0009899")
	assert.Nil(err)
	assert.Equal("http://www.ebi.ac.uk/efo/EFO_0009899", url)

	// the second lookup is served from the cache
	url, err = client.ExpandCurie("EFO:0009899")
	assert.Nil(err)
	assert.Equal("http://www.ebi.ac.uk/efo/EFO_0009899", url)
	assert.Equal(int32(1), atomic.LoadInt32(&requests))
}

func TestExpandCurieFailures(t *testing.T) {
	assert := assert.New(t)
	var requests int32
	server := olsServer(&requests)
	defer server.Close()
	client, _ := NewClient(server.URL, time.Second)

	_, err := client.ExpandCurie("not-a-curie")
	assert.IsType(&MalformedCurieError{}, err)
	assert.Equal(int32(0), atomic.LoadInt32(&requests))

	_, err = client.ExpandCurie("EFO:9999999")
	assert.IsType(&UnresolvedCurieError{}, err)
	assert.Equal("No ontology term was found for 'EFO:9999999'", err.Error())

	_, err = client.ExpandCurie("UBERON:BUSY")
	assert.IsType(&UnavailableError{}, err)
}
