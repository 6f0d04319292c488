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
	"errors"
	"fmt"
)

// ErrorType identifies a locally detected failure
type ErrorType string

const (
	ErrVariableNameConflict   ErrorType = "variable-name-conflict"
	ErrVariableRangeMissing   ErrorType = "variable-range-missing"
	ErrVariableRangeInvalid   ErrorType = "variable-range-invalid"
	ErrVariableRangeType      ErrorType = "variable-range-type"
	ErrVariableStepSizeType   ErrorType = "variable-step-size-type"
	ErrVariableValuesMissing  ErrorType = "variable-values-missing"
	ErrVariableValuesType     ErrorType = "variable-values-type"
	ErrVariableTypeInvalid    ErrorType = "variable-type-invalid"
	ErrVariableInvalid        ErrorType = "variable-invalid"
	ErrOptimizerInvalid       ErrorType = "optimizer-invalid"
	ErrExperimentInvalid      ErrorType = "experiment-invalid"
	ErrExperimentSubmitted    ErrorType = "experiment-submitted"
	ErrExperimentNotSubmitted ErrorType = "experiment-not-submitted"
	ErrOrderSizeInvalid       ErrorType = "order-size-invalid"
	ErrAPIMissing             ErrorType = "api-missing"
	ErrKeyNotFound            ErrorType = "key-not-found"
	ErrValueType              ErrorType = "value-type"
	ErrLossInvalid            ErrorType = "loss-invalid"
	ErrConfigurationInvalid   ErrorType = "configuration-invalid"
	ErrConfigurationReported  ErrorType = "configuration-reported"
)

// Error is returned when a validation or state check fails
type Error struct {
	Type    ErrorType
	Message string
	// Err is the underlying cause, if any
	Err error
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Type)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsErrorType checks if the supplied error (or anything it wraps) is an error of the specified type
func IsErrorType(err error, t ErrorType) bool {
	var terr *Error
	if errors.As(err, &terr) {
		return terr.Type == t
	}
	return false
}

func newError(t ErrorType, format string, args ...interface{}) *Error {
	return &Error{Type: t, Message: fmt.Sprintf(format, args...)}
}
