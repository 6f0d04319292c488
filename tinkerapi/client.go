/*
Copyright 2021 GramLabs, Inc.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package tinkerapi

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/thestormforge/tinker/internal/version"
	"golang.org/x/time/rate"
)

// DefaultTimeout is used when the configuration does not specify a request timeout
const DefaultTimeout = 10 * time.Second

// Config exposes the information for configuring a Tinker client
type Config interface {
	// Endpoint returns a URL to the named endpoint of the optimization service
	Endpoint(path string) (*url.URL, error)

	// Authorize returns a transport that applies the authorization defined by this configuration. The
	// supplied context is used for any additional requests necessary to perform authentication. If this
	// configuration does not define any authorization details, the supplied transport may be returned
	// directly.
	Authorize(ctx context.Context, transport http.RoundTripper) (http.RoundTripper, error)

	// Timeout returns the maximum duration of a single exchange, zero uses the default
	Timeout() time.Duration

	// Limiter returns the client side request limiter, nil for no limit
	Limiter() *rate.Limiter
}

// Client is used to send requests to the optimization service
type Client interface {
	URL(endpoint string) *url.URL
	Do(context.Context, *http.Request) (*http.Response, []byte, error)
}

// NewClient returns a new client for accessing the optimization service; the supplied context is used for
// authentication/authorization requests and the supplied transport (which may be nil in the case of the default
// transport) is used for all requests made to the API server.
func NewClient(ctx context.Context, cfg Config, transport http.RoundTripper) (Client, error) {
	var err error

	hc := &httpClient{config: cfg}
	hc.client.Timeout = cfg.Timeout()
	if hc.client.Timeout <= 0 {
		hc.client.Timeout = DefaultTimeout
	}

	// Build the transport chain, innermost first
	transport = InstrumentTransport(transport)
	transport = version.UserAgent("Tinker", "", transport)
	if l := cfg.Limiter(); l != nil {
		transport = &throttleTransport{limiter: l, base: transport}
	}

	hc.client.Transport, err = cfg.Authorize(ctx, transport)
	if err != nil {
		return nil, err
	}

	// Make sure that we can ignore the error from Endpoint
	_, err = cfg.Endpoint("")
	if err != nil {
		return nil, err
	}

	return hc, nil
}

type httpClient struct {
	config Config
	client http.Client
}

func (c *httpClient) URL(ep string) *url.URL {
	u, _ := c.config.Endpoint(ep)
	return u
}

func (c *httpClient) Do(ctx context.Context, req *http.Request) (*http.Response, []byte, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	req = req.WithContext(ctx)
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	var body []byte
	done := make(chan struct{})
	go func() {
		body, err = io.ReadAll(resp.Body)
		close(done)
	}()

	select {
	case <-ctx.Done():
		<-done
		err = resp.Body.Close()
		if err == nil {
			err = ctx.Err()
		}
	case <-done:
	}

	return resp, body, err
}

// throttleTransport waits on a rate limiter before each round trip
type throttleTransport struct {
	limiter *rate.Limiter
	base    http.RoundTripper
}

func (t *throttleTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	return t.base.RoundTrip(req)
}
