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

package generate_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-logr/zapr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thestormforge/tinker/pkg/tinker"
	"github.com/thestormforge/tinker/tinkerctl/internal/commands/generate"
	"go.uber.org/zap"
)

func runGenerate(args ...string) (string, error) {
	var out bytes.Buffer
	cmd := generate.NewExperimentCommand(&generate.ExperimentOptions{Log: zapr.NewLogger(zap.NewNop())})
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	err := cmd.Execute()
	return out.String(), err
}

func TestGenerateExperiment(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "experiment.json")

	_, err := runGenerate("demo",
		"--optimizer", "bayesian",
		"--int", "batch=16,128,16",
		"--float", "lr=0.001,0.1",
		"--enum", "opt=adam,sgd",
		"--enum", "layers=1,2,3",
		"--file", filename)
	require.NoError(t, err)

	data, err := os.ReadFile(filename)
	require.NoError(t, err)
	assert.Equal(t, `{"expt_name":"demo","optimizer":"bayesian","vars":{`+
		`"batch":{"range":[16,128],"step_size":16,"type":"int"},`+
		`"layers":{"type":"enum","values":[1,2,3]},`+
		`"lr":{"range":[0.001,0.1],"type":"float"},`+
		`"opt":{"type":"enum","values":["adam","sgd"]}}}`, string(data))

	exp, err := tinker.LoadExperiment(filename)
	require.NoError(t, err)
	assert.Len(t, exp.Variables(), 4)
}

func TestGenerateExperiment_Output(t *testing.T) {
	out, err := runGenerate("demo", "--float", "x=-10,10", "-o", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "expt_name: demo")
	assert.Contains(t, out, "optimizer: random")
	assert.Contains(t, out, "type: float")
}

func TestGenerateExperiment_Invalid(t *testing.T) {
	cases := []struct {
		desc         string
		args         []string
		expectedType tinker.ErrorType
	}{
		{
			desc:         "optimizer",
			args:         []string{"demo", "--optimizer", "gradient"},
			expectedType: tinker.ErrOptimizerInvalid,
		},
		{
			desc:         "duplicate name",
			args:         []string{"demo", "--int", "x=1,2", "--float", "x=1,2"},
			expectedType: tinker.ErrVariableNameConflict,
		},
		{
			desc:         "infinite range",
			args:         []string{"demo", "--float", "x=0,Inf"},
			expectedType: tinker.ErrVariableRangeInvalid,
		},
	}
	for _, c := range cases {
		t.Run(c.desc, func(t *testing.T) {
			_, err := runGenerate(c.args...)
			assert.True(t, tinker.IsErrorType(err, c.expectedType), "unexpected error: %v", err)
		})
	}
}

func TestGenerateExperiment_BadDeclaration(t *testing.T) {
	for _, arg := range []string{"x", "x=", "=1,2", "x=1", "x=1,2,3,4", "x=a,b"} {
		_, err := runGenerate("demo", "--int", arg)
		assert.Error(t, err, arg)
	}
}
