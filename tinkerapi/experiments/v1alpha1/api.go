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
	"context"
	"errors"
	"fmt"
	"net/http"
)

const (
	endpointSetup   = "setup"
	endpointRequest = "request"
	endpointReport  = "report"
)

type ErrorType string

const (
	ErrUnauthorized    ErrorType = "unauthorized"
	ErrNotFound        ErrorType = "not-found"
	ErrInvalidResponse ErrorType = "invalid-response"
	ErrUnexpected      ErrorType = "unexpected"
)

// Error represents a failed exchange with the remote service
type Error struct {
	Type     ErrorType `json:"-"`
	Message  string    `json:"error"`
	Location string    `json:"-"`
	// StatusCode is the HTTP status of the response, zero if no response was received.
	StatusCode int `json:"-"`
	// Body is the raw response body.
	Body []byte `json:"-"`
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return string(e.Type)
}

// IsErrorType checks if the supplied error (or anything it wraps) is an API error of the specified type
func IsErrorType(err error, t ErrorType) bool {
	var aerr *Error
	if errors.As(err, &aerr) {
		return aerr.Type == t
	}
	return false
}

// IsUnauthorized check to see if the error is an "unauthorized" error
func IsUnauthorized(err error) bool {
	return IsErrorType(err, ErrUnauthorized)
}

// API provides bindings for the supported endpoints
type API interface {
	// Setup registers a new experiment and returns the server assigned identifier.
	Setup(context.Context, Experiment) (Registration, error)
	// Request returns the next suggested configuration for an experiment.
	Request(context.Context, ConfigurationRequest) (Configuration, error)
	// Report sends the observed result of a configuration.
	Report(context.Context, Configuration) error
}

// invalidResponse returns an error for a successful response that is missing required data
func invalidResponse(resp *http.Response, body []byte, format string, args ...interface{}) error {
	err := &Error{
		Type:       ErrInvalidResponse,
		Message:    fmt.Sprintf(format, args...),
		StatusCode: resp.StatusCode,
		Body:       body,
	}
	if resp.Request != nil && resp.Request.URL != nil {
		err.Location = resp.Request.URL.String()
	}
	return err
}
