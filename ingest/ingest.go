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

// Package ingest is a client for the HCA Ingest API, from which the metadata
// of submitted projects and their bundle manifests are retrieved.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/ebi-ait/ingest-archiver/httpclient"
)

// the kinds of metadata entity stored by the Ingest API, named after their
// collection endpoints
type EntityKind string

const (
	Projects     EntityKind = "projects"
	Biomaterials EntityKind = "biomaterials"
	Processes    EntityKind = "processes"
	Protocols    EntityKind = "protocols"
	Files        EntityKind = "files"
)

// the default number of items requested per page
const defaultPageSize = 100

// A BundleManifest lists the metadata entities of one data bundle. Each map
// is keyed by entity UUID.
type BundleManifest struct {
	Id                 string              `json:"-"`
	BundleUuid         string              `json:"bundleUuid"`
	EnvelopeUuid       string              `json:"envelopeUuid"`
	FileProjectMap     map[string][]string `json:"fileProjectMap"`
	FileBiomaterialMap map[string][]string `json:"fileBiomaterialMap"`
	FileProcessMap     map[string][]string `json:"fileProcessMap"`
	FileProtocolMap    map[string][]string `json:"fileProtocolMap"`
	FileFilesMap       map[string][]string `json:"fileFilesMap"`
}

// Client talks to an instance of the Ingest API.
type Client struct {
	// base URL of the Ingest API (e.g. https://api.ingest.archive.data.humancellatlas.org)
	URL string
	// HTTP client used for all requests
	Client   http.Client
	PageSize int
}

// creates a client for the Ingest API at the given base URL
func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, &InvalidURLError{URL: baseURL}
	}
	return &Client{
		URL:      strings.TrimSuffix(baseURL, "/"),
		Client:   httpclient.SecureHttpClient(timeout),
		PageSize: defaultPageSize,
	}, nil
}

// a page of bundle manifests, as returned by a search
type manifestPage struct {
	Embedded struct {
		BundleManifests []struct {
			Links struct {
				Self struct {
					Href string `json:"href"`
				} `json:"self"`
			} `json:"_links"`
		} `json:"bundleManifests"`
	} `json:"_embedded"`
	Page struct {
		Number     int `json:"number"`
		TotalPages int `json:"totalPages"`
	} `json:"page"`
}

// returns the IDs of the bundle manifests of the project with the given UUID
func (c *Client) ManifestIds(ctx context.Context, projectUuid string) ([]string, error) {
	ids := make([]string, 0)
	for page := 0; ; page++ {
		values := url.Values{}
		values.Set("projectUuid", projectUuid)
		values.Set("page", strconv.Itoa(page))
		values.Set("size", strconv.Itoa(c.PageSize))
		body, err := c.get(ctx, "/bundleManifests/search/findByProjectUuid", values)
		if err != nil {
			return nil, err
		}
		var result manifestPage
		if err := json.Unmarshal(body, &result); err != nil {
			return nil, err
		}
		for _, manifest := range result.Embedded.BundleManifests {
			ids = append(ids, path.Base(manifest.Links.Self.Href))
		}
		if page+1 >= result.Page.TotalPages {
			break
		}
	}
	slog.Debug(fmt.Sprintf("Found %d bundle manifests for project %s", len(ids), projectUuid))
	return ids, nil
}

// fetches the bundle manifest with the given ID
func (c *Client) Manifest(ctx context.Context, id string) (BundleManifest, error) {
	var manifest BundleManifest
	body, err := c.get(ctx, "/bundleManifests/"+url.PathEscape(id), nil)
	if err != nil {
		return manifest, err
	}
	err = json.Unmarshal(body, &manifest)
	manifest.Id = id
	return manifest, err
}

// fetches the metadata entity of the given kind with the given UUID
func (c *Client) Entity(ctx context.Context, kind EntityKind, uuid string) (map[string]any, error) {
	values := url.Values{}
	values.Set("uuid", uuid)
	body, err := c.get(ctx, fmt.Sprintf("/%s/search/findByUuid", kind), values)
	if err != nil {
		return nil, err
	}
	var entity map[string]any
	err = json.Unmarshal(body, &entity)
	return entity, err
}

// performs a GET request on the given resource, returning the resulting
// response body and/or error
func (c *Client) get(ctx context.Context, resource string, values url.Values) ([]byte, error) {
	res, err := url.Parse(c.URL)
	if err != nil {
		return nil, err
	}
	res.Path += resource
	if values != nil {
		res.RawQuery = values.Encode()
	}
	slog.Debug(fmt.Sprintf("GET: %s", res.String()))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, res.String(), http.NoBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/hal+json")
	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	switch resp.StatusCode {
	case http.StatusOK:
		return io.ReadAll(resp.Body)
	case http.StatusNotFound:
		return nil, &NotFoundError{Resource: resource}
	case http.StatusServiceUnavailable:
		return nil, &UnavailableError{URL: c.URL}
	default:
		data, _ := io.ReadAll(resp.Body)
		return nil, &ResponseError{Resource: resource, Status: resp.StatusCode, Message: string(data)}
	}
}
