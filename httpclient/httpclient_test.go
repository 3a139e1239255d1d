package httpclient

import (
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func request(scheme, host string) *http.Request {
	return &http.Request{
		URL: &url.URL{
			Scheme: scheme,
			Host:   host,
			Path:   "/",
		},
	}
}

func TestSecureHttpClient(t *testing.T) {
	assert := assert.New(t)
	client := SecureHttpClient(time.Second * 10)
	assert.Equal(time.Second*10, client.Timeout)
	assert.NotNil(client.Transport)

	// secure -> secure and insecure -> anything are followed
	err := client.CheckRedirect(request("https", "redirect.com"),
		[]*http.Request{request("https", "example.com")})
	assert.Nil(err)
	err = client.CheckRedirect(request("https", "redirect.com"),
		[]*http.Request{request("http", "example.com")})
	assert.Nil(err)
	err = client.CheckRedirect(request("http", "redirect.com"),
		[]*http.Request{request("http", "example.com")})
	assert.Nil(err)

	// secure -> insecure is refused
	err = client.CheckRedirect(request("http", "redirect.com"),
		[]*http.Request{request("https", "example.com")})
	assert.IsType(&DowngradedRedirectError{}, err)
	dre := err.(*DowngradedRedirectError)
	assert.Equal("redirect.com/", dre.Endpoint)
	assert.Equal("The endpoint redirect.com/ is attempting to downgrade an HTTPS request to HTTP",
		dre.Error())
}

func TestSecureHttpClientStopsRedirectLoops(t *testing.T) {
	client := SecureHttpClient(time.Second)
	via := make([]*http.Request, maxRedirects)
	for i := range via {
		via[i] = request("https", "example.com")
	}
	err := client.CheckRedirect(request("https", "example.com"), via)
	assert.IsType(t, &TooManyRedirectsError{}, err)
}
