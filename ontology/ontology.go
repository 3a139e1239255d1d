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

// Package ontology resolves compact ontology identifiers (CURIEs such as
// "EFO:0009899") to dereferenceable term URLs using an Ontology Lookup
// Service (OLS) instance.
package ontology

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/ebi-ait/ingest-archiver/httpclient"
)

// Resolver expands a CURIE into the URL of the term it identifies.
type Resolver interface {
	ExpandCurie(curie string) (string, error)
}

// Client is a Resolver backed by the OLS REST API. Resolved terms are cached
// for the lifetime of the client, which is safe for concurrent use.
type Client struct {
	// base URL of the OLS instance (e.g. https://www.ebi.ac.uk/ols)
	URL string
	// HTTP client used for term lookups
	Client http.Client

	mu    sync.Mutex
	cache map[string]string
}

// creates a client for the OLS instance at the given base URL
func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, &InvalidURLError{URL: baseURL}
	}
	return &Client{
		URL:    strings.TrimSuffix(baseURL, "/"),
		Client: httpclient.SecureHttpClient(timeout),
		cache:  make(map[string]string),
	}, nil
}

// returns true if the given string has the form PREFIX:LOCAL_ID
func IsCurie(curie string) bool {
	colon := strings.Index(curie, ":")
	return colon > 0 && colon < len(curie)-1 && !strings.Contains(curie, "/")
}

func (c *Client) ExpandCurie(curie string) (string, error) {
	if !IsCurie(curie) {
		return "", &MalformedCurieError{Curie: curie}
	}

	c.mu.Lock()
	iri, found := c.cache[curie]
	c.mu.Unlock()
	if found {
		return iri, nil
	}

	iri, err := c.lookup(curie)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	c.cache[curie] = iri
	c.mu.Unlock()
	return iri, nil
}

// the part of an OLS term search response we use
type termsResponse struct {
	Embedded struct {
		Terms []struct {
			Iri   string `json:"iri"`
			OboId string `json:"obo_id"`
		} `json:"terms"`
	} `json:"_embedded"`
}

// fetches the IRI for the given CURIE from OLS
func (c *Client) lookup(curie string) (string, error) {
	values := url.Values{}
	values.Set("id", curie)
	resource := fmt.Sprintf("%s/api/terms?%s", c.URL, values.Encode())
	slog.Debug(fmt.Sprintf("GET: %s", resource))

	req, err := http.NewRequest(http.MethodGet, resource, http.NoBody)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return "", err
		}
		var terms termsResponse
		if err := json.Unmarshal(body, &terms); err != nil {
			return "", err
		}
		for _, term := range terms.Embedded.Terms {
			if term.Iri != "" {
				return term.Iri, nil
			}
		}
		return "", &UnresolvedCurieError{Curie: curie}
	case http.StatusNotFound:
		return "", &UnresolvedCurieError{Curie: curie}
	case http.StatusServiceUnavailable:
		return "", &UnavailableError{URL: c.URL}
	default:
		return "", fmt.Errorf("An error occurred with the ontology service (%d)", resp.StatusCode)
	}
}
