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

package tinker

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/thestormforge/tinker/tinkerapi"
	"github.com/thestormforge/tinker/tinkerapi/experiments/v1alpha1"
	"golang.org/x/time/rate"
)

// stubResponse is a canned response for one endpoint
type stubResponse struct {
	status int
	body   string
}

// stubService is an HTTP test server recording the body of every request
type stubService struct {
	mu        sync.Mutex
	responses map[string]stubResponse
	requests  map[string][]string
}

func newStubAPI(t *testing.T, responses map[string]stubResponse) (v1alpha1.API, *stubService) {
	s := &stubService{responses: responses, requests: make(map[string][]string)}
	srv := httptest.NewServer(s)
	t.Cleanup(srv.Close)

	c, err := tinkerapi.NewClient(context.Background(), &stubConfig{address: srv.URL + "/"}, nil)
	require.NoError(t, err)
	return v1alpha1.NewAPI(c), s
}

func (s *stubService) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b, _ := io.ReadAll(r.Body)

	s.mu.Lock()
	s.requests[r.URL.Path] = append(s.requests[r.URL.Path], string(b))
	resp, ok := s.responses[r.URL.Path]
	s.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.status)
	_, _ = io.WriteString(w, resp.body)
}

func (s *stubService) bodies(path string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requests[path]...)
}

type stubConfig struct {
	address string
}

func (c *stubConfig) Endpoint(path string) (*url.URL, error) {
	u, err := url.Parse(c.address)
	if err != nil {
		return nil, err
	}
	return u.Parse(path)
}

func (c *stubConfig) Authorize(_ context.Context, t http.RoundTripper) (http.RoundTripper, error) {
	return t, nil
}

func (c *stubConfig) Timeout() time.Duration { return time.Second }
func (c *stubConfig) Limiter() *rate.Limiter { return nil }
