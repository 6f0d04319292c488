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
	"encoding/json"
	"strings"

	"github.com/thestormforge/tinker/tinkerapi/experiments/v1alpha1/numstr"
)

// ConfigurationRequest asks the server for the next suggested configuration.
type ConfigurationRequest struct {
	// The experiment to advance.
	ExperimentID string `json:"expt_id"`
	// The number of points the optimizer should advance by.
	OrderSize int `json:"order_size"`
}

// Configuration is a single suggested point in the search space along with the observed result.
type Configuration struct {
	// The assigned values keyed by variable name, a nil value indicates an unassigned variable.
	Assignments map[string]*numstr.NumberOrString `json:"config"`
	// The server assigned evaluation identifier.
	EvaluationID *numstr.NumberOrString `json:"eval_id"`
	// The observed loss, only present when reporting.
	Result *float64 `json:"result,omitempty"`
	// Any other fields of the suggestion, sent back unchanged when reporting.
	Extra map[string]json.RawMessage `json:"-"`
}

// configurationFields are the JSON names of the fields decoded into the struct.
var configurationFields = []string{"config", "eval_id", "result"}

// plainConfiguration has the default JSON encoding of a configuration.
type plainConfiguration Configuration

// MarshalJSON writes the configuration and its extra fields with sorted keys.
func (c Configuration) MarshalJSON() ([]byte, error) {
	fields := make(map[string]interface{}, len(c.Extra)+len(configurationFields))
	for k, v := range c.Extra {
		fields[k] = v
	}
	fields["config"] = c.Assignments
	fields["eval_id"] = c.EvaluationID
	if c.Result != nil {
		fields["result"] = c.Result
	} else {
		delete(fields, "result")
	}
	return compact(fields)
}

// UnmarshalJSON reads the configuration, keeping unrecognized fields in Extra.
func (c *Configuration) UnmarshalJSON(b []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return err
	}
	*c = Configuration{}
	if err := json.Unmarshal(b, (*plainConfiguration)(c)); err != nil {
		return err
	}

	for k := range fields {
		for _, name := range configurationFields {
			// Matches the case insensitive decoding of the known fields
			if strings.EqualFold(k, name) {
				delete(fields, k)
				break
			}
		}
	}
	if len(fields) > 0 {
		c.Extra = fields
	}
	return nil
}

// EvalID returns the evaluation identifier as a string.
func (c *Configuration) EvalID() string {
	if c.EvaluationID == nil {
		return ""
	}
	return c.EvaluationID.String()
}

// DeepCopy returns a copy of the configuration that does not share any mutable state.
func (c *Configuration) DeepCopy() *Configuration {
	out := &Configuration{}
	if c.Assignments != nil {
		out.Assignments = make(map[string]*numstr.NumberOrString, len(c.Assignments))
		for k, v := range c.Assignments {
			if v != nil {
				v = v.DeepCopy()
			}
			out.Assignments[k] = v
		}
	}
	if c.EvaluationID != nil {
		out.EvaluationID = c.EvaluationID.DeepCopy()
	}
	if c.Extra != nil {
		out.Extra = make(map[string]json.RawMessage, len(c.Extra))
		for k, v := range c.Extra {
			out.Extra[k] = append(json.RawMessage(nil), v...)
		}
	}
	if c.Result != nil {
		r := *c.Result
		out.Result = &r
	}
	return out
}
