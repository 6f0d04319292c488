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

package v1alpha1

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/thestormforge/tinker/tinkerapi"
)

// NewAPI returns a new API implementation for the specified client
func NewAPI(c tinkerapi.Client) API {
	return &httpAPI{client: c}
}

type httpAPI struct {
	client tinkerapi.Client
}

func (h *httpAPI) Setup(ctx context.Context, exp Experiment) (Registration, error) {
	u := h.client.URL(endpointSetup).String()
	r := Registration{}

	req, err := httpNewJSONRequest(http.MethodPost, u, exp)
	if err != nil {
		return r, err
	}

	resp, body, err := h.client.Do(ctx, req)
	if err != nil {
		return r, err
	}

	if !isSuccess(resp.StatusCode) {
		return r, newError(ErrUnexpected, resp, body)
	}

	if err := json.Unmarshal(body, &r); err != nil {
		return r, invalidResponse(resp, body, "unable to decode setup response: %v", err)
	}
	if r.ExperimentID == nil || r.ExperimentID.String() == "" {
		return r, invalidResponse(resp, body, "setup response is missing expt_id")
	}
	return r, nil
}

func (h *httpAPI) Request(ctx context.Context, cr ConfigurationRequest) (Configuration, error) {
	u := h.client.URL(endpointRequest).String()
	c := Configuration{}

	req, err := httpNewJSONRequest(http.MethodPost, u, cr)
	if err != nil {
		return c, err
	}

	resp, body, err := h.client.Do(ctx, req)
	if err != nil {
		return c, err
	}

	if !isSuccess(resp.StatusCode) {
		return c, newError(ErrUnexpected, resp, body)
	}

	if err := json.Unmarshal(body, &c); err != nil {
		return c, invalidResponse(resp, body, "unable to decode request response: %v", err)
	}
	if c.Assignments == nil {
		return c, invalidResponse(resp, body, "request response is missing config")
	}
	if c.EvalID() == "" {
		return c, invalidResponse(resp, body, "request response is missing eval_id")
	}
	return c, nil
}

func (h *httpAPI) Report(ctx context.Context, c Configuration) error {
	u := h.client.URL(endpointReport).String()

	req, err := httpNewJSONRequest(http.MethodPost, u, c)
	if err != nil {
		return err
	}

	resp, body, err := h.client.Do(ctx, req)
	if err != nil {
		return err
	}

	// The response body is not used
	if !isSuccess(resp.StatusCode) {
		return newError(ErrUnexpected, resp, body)
	}
	return nil
}

// isSuccess checks for any 2xx status code
func isSuccess(statusCode int) bool {
	return statusCode >= 200 && statusCode < 300
}

// httpNewJSONRequest returns a new HTTP request with a canonical JSON payload
func httpNewJSONRequest(method, u string, body interface{}) (*http.Request, error) {
	b, err := Marshal(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest(method, u, bytes.NewBuffer(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	return req, err
}

// newError returns a new error with an API specific error condition, it also captures the details of the response
func newError(t ErrorType, resp *http.Response, body []byte) error {
	err := &Error{Type: t, StatusCode: resp.StatusCode, Body: body}

	// Unmarshal the response body into the error to get the server supplied error message
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		_ = json.Unmarshal(body, err)
	}

	// Capture the URL of the request
	if resp.Request != nil && resp.Request.URL != nil {
		err.Location = resp.Request.URL.String()
	}

	// Try to report a more specific error if the error was undocumented (e.g. came from a proxy)
	if err.Type == ErrUnexpected {
		switch resp.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			err.Type = ErrUnauthorized
			if err.Message == "" {
				err.Message = "unauthorized"
			}
		case http.StatusNotFound:
			err.Type = ErrNotFound
			if err.Message == "" {
				err.Message = fmt.Sprintf("not found: %s", err.Location)
			}
		default:
			if err.Message == "" {
				err.Message = fmt.Sprintf("unexpected server response (%s)", http.StatusText(resp.StatusCode))
			}
		}
	}

	// Make sure we have a message
	if err.Message == "" {
		err.Message = strings.ReplaceAll(string(err.Type), "-", " ")
	}

	return err
}
