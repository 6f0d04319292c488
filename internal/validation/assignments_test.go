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

package validation

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thestormforge/tinker/tinkerapi/experiments/v1alpha1"
)

const assignmentsExperiment = `{"expt_name":"demo","optimizer":"random","vars":{
	"x":{"range":[-10.0,10.0],"type":"float"},
	"n":{"range":[1,5],"type":"int"},
	"opt":{"type":"enum","values":["adam",2,false]},
	"layers":{"type":"enum","values":[[64,64],[128],null]}}}`

func TestCheckAssignments(t *testing.T) {
	exp := &v1alpha1.Experiment{}
	require.NoError(t, json.Unmarshal([]byte(assignmentsExperiment), exp))

	cases := []struct {
		desc     string
		config   string
		expected *AssignmentError
	}{
		{
			desc:   "valid",
			config: `{"config":{"x":3.2,"n":5,"opt":"adam","layers":[64, 64]},"eval_id":"V1"}`,
		},
		{
			desc:   "integral float and enum number",
			config: `{"config":{"x":10,"n":1,"opt":2.0,"layers":null},"eval_id":"V1"}`,
		},
		{
			desc:     "missing and null",
			config:   `{"config":{"x":null,"opt":false},"eval_id":"V1"}`,
			expected: &AssignmentError{Unassigned: []string{"layers", "n", "x"}},
		},
		{
			desc:     "undefined",
			config:   `{"config":{"x":0.0,"n":2,"opt":"adam","layers":[128],"y":1},"eval_id":"V1"}`,
			expected: &AssignmentError{Undefined: []string{"y"}},
		},
		{
			desc:     "out of bounds",
			config:   `{"config":{"x":10.5,"n":2.5,"opt":"false","layers":[64]},"eval_id":"V1"}`,
			expected: &AssignmentError{OutOfBounds: []string{"layers", "n", "opt", "x"}},
		},
		{
			desc:     "null outside enum values",
			config:   `{"config":{"x":1.0,"n":2,"opt":null,"layers":[128]},"eval_id":"V1"}`,
			expected: &AssignmentError{OutOfBounds: []string{"opt"}},
		},
	}
	for _, c := range cases {
		t.Run(c.desc, func(t *testing.T) {
			cfg := &v1alpha1.Configuration{}
			require.NoError(t, json.Unmarshal([]byte(c.config), cfg))

			err := CheckAssignments(exp, cfg)
			if c.expected == nil {
				assert.NoError(t, err)
				return
			}

			var aerr *AssignmentError
			require.ErrorAs(t, err, &aerr)
			assert.Equal(t, c.expected, aerr)
		})
	}
}

func TestAssignmentErrorMessage(t *testing.T) {
	err := &AssignmentError{Unassigned: []string{"a"}, OutOfBounds: []string{"b", "c"}}
	assert.Equal(t, "invalid assignments (unassigned: a; out of bounds: b, c)", err.Error())
}
