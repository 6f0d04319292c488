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
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/go-logr/logr"
	"github.com/thestormforge/tinker/tinkerapi/experiments/v1alpha1"
	"github.com/thestormforge/tinker/tinkerapi/experiments/v1alpha1/numstr"
)

// Configuration is one suggested point of the search space. The result can be
// reported exactly once.
type Configuration struct {
	payload  v1alpha1.Configuration
	api      v1alpha1.API
	log      logr.Logger
	reported bool
}

func newConfiguration(c v1alpha1.Configuration, api v1alpha1.API, log logr.Logger) *Configuration {
	if log == nil {
		log = nopLogger()
	}
	cfg := &Configuration{
		payload: *c.DeepCopy(),
		api:     api,
		log:     log.WithValues("evalID", c.EvalID()),
	}
	if cfg.payload.Assignments == nil {
		cfg.payload.Assignments = make(map[string]*numstr.NumberOrString)
	}
	cfg.reported = cfg.payload.Result != nil
	return cfg
}

// ParseConfiguration returns a configuration from its JSON form (as produced by MarshalJSON). A
// configuration which already carries a result is considered reported. Fields other than the
// assignments, evaluation identifier and result are kept and reported back to the service.
func ParseConfiguration(data []byte, api v1alpha1.API, log logr.Logger) (*Configuration, error) {
	c := v1alpha1.Configuration{}
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, &Error{Type: ErrConfigurationInvalid, Message: fmt.Sprintf("invalid configuration: %v", err), Err: err}
	}
	if c.EvalID() == "" {
		return nil, newError(ErrConfigurationInvalid, "invalid configuration: missing eval_id")
	}
	return newConfiguration(c, api, log), nil
}

// EvalID returns the evaluation identifier assigned by the service
func (c *Configuration) EvalID() string {
	return c.payload.EvalID()
}

// Keys returns the sorted names of the assigned variables
func (c *Configuration) Keys() []string {
	keys := make([]string, 0, len(c.payload.Assignments))
	for k, v := range c.payload.Assignments {
		if v != nil {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

// Lookup returns the assigned value: an int64 for integral numbers, a float64 for other numbers,
// a string or a bool. The boolean is false if the key is not assigned.
func (c *Configuration) Lookup(key string) (interface{}, bool) {
	v := c.payload.Assignments[key]
	if v == nil {
		return nil, false
	}
	return v.Interface(), true
}

// Value returns the assigned value, see Lookup
func (c *Configuration) Value(key string) (interface{}, error) {
	v, err := c.assignment(key)
	if err != nil {
		return nil, err
	}
	return v.Interface(), nil
}

// Float64 returns a numeric assignment
func (c *Configuration) Float64(key string) (float64, error) {
	v, err := c.assignment(key)
	if err != nil {
		return 0, err
	}
	if !v.IsNumber() {
		return 0, c.typeError(key, "a number", v)
	}
	return v.Float64Value(), nil
}

// Int64 returns an integral numeric assignment
func (c *Configuration) Int64(key string) (int64, error) {
	v, err := c.assignment(key)
	if err != nil {
		return 0, err
	}
	if v.IsInteger() {
		if i, err := v.NumVal.Int64(); err == nil {
			return i, nil
		}
	} else if v.IsNumber() {
		if f := v.Float64Value(); f == math.Trunc(f) && math.Abs(f) < 1<<63 {
			return int64(f), nil
		}
	}
	return 0, c.typeError(key, "an integer", v)
}

// String returns a string assignment
func (c *Configuration) String(key string) (string, error) {
	v, err := c.assignment(key)
	if err != nil {
		return "", err
	}
	if !v.IsString {
		return "", c.typeError(key, "a string", v)
	}
	return v.StrVal, nil
}

// Bool returns a boolean assignment
func (c *Configuration) Bool(key string) (bool, error) {
	v, err := c.assignment(key)
	if err != nil {
		return false, err
	}
	if !v.IsBool {
		return false, c.typeError(key, "a boolean", v)
	}
	return v.BoolVal, nil
}

func (c *Configuration) assignment(key string) (*numstr.NumberOrString, error) {
	v := c.payload.Assignments[key]
	if v == nil {
		err := newError(ErrKeyNotFound, "configuration has no value for %q", key)
		c.log.Info("Key not found", "key", key)
		return nil, err
	}
	return v, nil
}

func (c *Configuration) typeError(key, expected string, v *numstr.NumberOrString) error {
	return newError(ErrValueType, "value of %q is not %s: %s", key, expected, v.String())
}

// Result returns the reported loss, the boolean is false until a loss is reported
func (c *Configuration) Result() (float64, bool) {
	if c.payload.Result == nil {
		return 0, false
	}
	return *c.payload.Result, true
}

// Reported checks if a loss was already reported
func (c *Configuration) Reported() bool {
	return c.reported
}

// ReportLoss sends the observed loss to the service. The loss may be any Go number or a
// numeric string; invalid losses are rejected without contacting the service. The result is
// only recorded once the service accepts it.
func (c *Configuration) ReportLoss(ctx context.Context, loss interface{}) error {
	if c.reported {
		return newError(ErrConfigurationReported, "configuration %q was already reported", c.EvalID())
	}

	result, err := ParseLoss(loss)
	if err != nil {
		c.log.Info("Invalid loss", "loss", fmt.Sprintf("%v", loss), "error", err.Error())
		return err
	}

	if c.api == nil {
		return newError(ErrAPIMissing, "an API is required to report a loss")
	}

	payload := c.payload.DeepCopy()
	payload.Result = &result
	if err := c.api.Report(ctx, *payload); err != nil {
		c.log.Error(err, "Failed to report loss")
		return err
	}

	c.payload.Result = &result
	c.reported = true
	c.log.V(1).Info("Reported loss", "result", result)
	return nil
}

// MarshalJSON returns the wire form of the configuration
func (c *Configuration) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.payload)
}

// ParseLoss converts a loss to a finite float64. Numbers of any Go kind are accepted, as
// are strings (including json.Number) holding a number. Booleans are rejected.
func ParseLoss(loss interface{}) (float64, error) {
	var f float64
	rv := reflect.ValueOf(loss)
	switch rv.Kind() {
	case reflect.Float32:
		f, _ = strconv.ParseFloat(strconv.FormatFloat(rv.Float(), 'g', -1, 32), 64)
	case reflect.Float64:
		f = rv.Float()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		f = float64(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		f = float64(rv.Uint())
	case reflect.String:
		var err error
		if f, err = strconv.ParseFloat(strings.TrimSpace(rv.String()), 64); err != nil {
			return 0, &Error{Type: ErrLossInvalid, Message: fmt.Sprintf("loss %q is not a number", rv.String()), Err: err}
		}
	default:
		return 0, newError(ErrLossInvalid, "loss must be a number, got %T", loss)
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, newError(ErrLossInvalid, "loss must be finite, got %v", f)
	}
	return f, nil
}
