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

// Package httpclient provides the HTTP client shared by the clients of the
// Ingest API and the ontology lookup service.
package httpclient

import (
	"fmt"
	"net/http"
	"time"

	"github.com/StalkR/hsts"
)

// the maximum number of redirects followed for a single request
const maxRedirects = 10

// this error type is emitted if a service redirects an HTTPS request to an
// HTTP URL
type DowngradedRedirectError struct {
	Endpoint string
}

func (e DowngradedRedirectError) Error() string {
	return fmt.Sprintf("The endpoint %s is attempting to downgrade an HTTPS request to HTTP",
		e.Endpoint)
}

// this error type is emitted when a request is redirected too many times
type TooManyRedirectsError struct {
	Endpoint string
}

func (e TooManyRedirectsError) Error() string {
	return fmt.Sprintf("Stopped after %d redirects at %s", maxRedirects, e.Endpoint)
}

// Returns an HTTP client with the given timeout and HTTP Strict Transport
// Security (HSTS) enabled. Redirects from HTTPS to HTTP are refused.
func SecureHttpClient(timeout time.Duration) http.Client {
	client := http.Client{
		Timeout: timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			endpoint := fmt.Sprintf("%s%s", req.URL.Host, req.URL.Path)
			if len(via) > 0 && via[0].URL.Scheme == "https" && req.URL.Scheme == "http" {
				return &DowngradedRedirectError{Endpoint: endpoint}
			}
			if len(via) >= maxRedirects {
				return &TooManyRedirectsError{Endpoint: endpoint}
			}
			return nil
		},
	}
	client.Transport = hsts.New(client.Transport) // enable HSTS
	return client
}
