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

package fake

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thestormforge/tinker/internal/validation"
	"github.com/thestormforge/tinker/tinkerapi/experiments/v1alpha1"
)

func TestFakeAPI(t *testing.T) {
	ctx := context.Background()
	exp := v1alpha1.Experiment{}
	require.NoError(t, json.Unmarshal([]byte(`{"expt_name":"demo","optimizer":"random","vars":{
		"x":{"range":[-10.0,10.0],"type":"float"},
		"n":{"range":[0,100],"step_size":25,"type":"int"},
		"opt":{"type":"enum","values":["adam","sgd"]}}}`), &exp))

	api := NewFakeAPI()

	reg, err := api.Setup(ctx, exp)
	require.NoError(t, err)
	require.NotNil(t, reg.ExperimentID)

	c, err := api.Request(ctx, v1alpha1.ConfigurationRequest{ExperimentID: reg.ExperimentID.String(), OrderSize: 1})
	require.NoError(t, err)
	assert.NotEmpty(t, c.EvalID())
	assert.NoError(t, validation.CheckAssignments(&exp, &c))
	assert.Zero(t, c.Assignments["n"].Int64Value()%25)

	// Reports need a result
	assert.True(t, v1alpha1.IsErrorType(api.Report(ctx, c), v1alpha1.ErrUnexpected))

	result := 1.5
	c.Result = &result
	require.NoError(t, api.Report(ctx, c))
	assert.True(t, v1alpha1.IsErrorType(api.Report(ctx, c), v1alpha1.ErrNotFound))

	require.Len(t, api.Reports(), 1)
	assert.Equal(t, 1.5, *api.Reports()[0].Result)
	assert.Equal(t, 1, api.Calls("setup"))
	assert.Equal(t, 1, api.Calls("request"))
	assert.Equal(t, 3, api.Calls("report"))
}

func TestFakeAPIErrors(t *testing.T) {
	ctx := context.Background()
	api := NewFakeAPI()

	_, err := api.Setup(ctx, v1alpha1.Experiment{Name: "demo", Optimizer: "annealing"})
	assert.True(t, v1alpha1.IsErrorType(err, v1alpha1.ErrUnexpected))

	_, err = api.Request(ctx, v1alpha1.ConfigurationRequest{ExperimentID: "missing", OrderSize: 1})
	assert.True(t, v1alpha1.IsErrorType(err, v1alpha1.ErrNotFound))
}
