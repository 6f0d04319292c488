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
	"math"
	"net/http"
	"testing"

	"github.com/go-logr/zapr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thestormforge/tinker/tinkerapi/experiments/v1alpha1"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestEndToEnd(t *testing.T) {
	ctx := context.Background()
	api, stub := newStubAPI(t, map[string]stubResponse{
		"/setup":   {status: http.StatusOK, body: `{"expt_id":"E1"}`},
		"/request": {status: http.StatusOK, body: `{"config":{"x":3.2},"eval_id":"V1"}`},
		"/report":  {status: http.StatusOK, body: `{}`},
	})

	e, err := NewExperiment("demo", WithOptimizer(OptimizerRandom))
	require.NoError(t, err)
	require.NoError(t, e.AddVariable(mustVariable(t, NewRegistry(), "x", TypeFloat, WithRange(-10.0, 10.0))))

	id, err := e.Submit(ctx, api)
	require.NoError(t, err)
	assert.Equal(t, "E1", id)
	assert.Equal(t, "E1", e.ID())
	assert.Equal(t, []string{`{"expt_name":"demo","optimizer":"random","vars":{"x":{"range":[-10.0,10.0],"type":"float"}}}`}, stub.bodies("/setup"))

	c, err := e.NextConfiguration(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{`{"expt_id":"E1","order_size":1}`}, stub.bodies("/request"))

	x, err := c.Value("x")
	require.NoError(t, err)
	assert.Equal(t, 3.2, x)
	assert.Equal(t, "V1", c.EvalID())

	require.NoError(t, c.ReportLoss(ctx, 10.24))
	assert.Equal(t, []string{`{"config":{"x":3.2},"eval_id":"V1","result":10.24}`}, stub.bodies("/report"))

	result, ok := c.Result()
	assert.True(t, ok)
	assert.Equal(t, 10.24, result)
}

func TestConfiguration_ReportLoss(t *testing.T) {
	ctx := context.Background()
	api, stub := newStubAPI(t, map[string]stubResponse{
		"/report": {status: http.StatusOK},
	})
	c := newConfiguration(mustPayload(t, `{"config":{"x":3.2},"eval_id":"V1"}`), api, nil)

	// Invalid losses never reach the service
	err := c.ReportLoss(ctx, "not a number")
	assert.True(t, IsErrorType(err, ErrLossInvalid))
	assert.Empty(t, stub.bodies("/report"))
	_, ok := c.Result()
	assert.False(t, ok)
	assert.False(t, c.Reported())

	require.NoError(t, c.ReportLoss(ctx, "3.5"))
	assert.Equal(t, []string{`{"config":{"x":3.2},"eval_id":"V1","result":3.5}`}, stub.bodies("/report"))
	result, ok := c.Result()
	assert.True(t, ok)
	assert.Equal(t, 3.5, result)
	assert.True(t, c.Reported())

	// Only one report per configuration
	err = c.ReportLoss(ctx, 1.0)
	assert.True(t, IsErrorType(err, ErrConfigurationReported))
	assert.Len(t, stub.bodies("/report"), 1)
}

func TestConfiguration_ReportLossFailure(t *testing.T) {
	ctx := context.Background()
	api, stub := newStubAPI(t, map[string]stubResponse{
		"/report": {status: http.StatusInternalServerError, body: `{"error":"database unavailable"}`},
	})
	c := newConfiguration(mustPayload(t, `{"config":{"x":3.2},"eval_id":"V1"}`), api, nil)

	err := c.ReportLoss(ctx, 1.5)
	var aerr *v1alpha1.Error
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, http.StatusInternalServerError, aerr.StatusCode)

	// The result is only kept once the service accepts it
	_, ok := c.Result()
	assert.False(t, ok)
	assert.False(t, c.Reported())

	stub.mu.Lock()
	stub.responses["/report"] = stubResponse{status: http.StatusNoContent}
	stub.mu.Unlock()
	require.NoError(t, c.ReportLoss(ctx, 1.5))
	assert.Len(t, stub.bodies("/report"), 2)
}

func TestConfiguration_Lookup(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	c := newConfiguration(
		mustPayload(t, `{"config":{"lr":0.01,"layers":3,"width":64.0,"opt":"adam","bn":true,"gone":null},"eval_id":7}`),
		nil, zapr.NewLogger(zap.New(core)))

	assert.Equal(t, "7", c.EvalID())
	assert.Equal(t, []string{"bn", "layers", "lr", "opt", "width"}, c.Keys())

	v, ok := c.Lookup("layers")
	assert.True(t, ok)
	assert.Equal(t, int64(3), v)
	v, ok = c.Lookup("gone")
	assert.False(t, ok)
	assert.Nil(t, v)

	lr, err := c.Float64("lr")
	assert.NoError(t, err)
	assert.Equal(t, 0.01, lr)
	layers, err := c.Float64("layers")
	assert.NoError(t, err)
	assert.Equal(t, 3.0, layers)
	width, err := c.Int64("width")
	assert.NoError(t, err)
	assert.Equal(t, int64(64), width)
	opt, err := c.String("opt")
	assert.NoError(t, err)
	assert.Equal(t, "adam", opt)
	bn, err := c.Bool("bn")
	assert.NoError(t, err)
	assert.True(t, bn)

	_, err = c.Int64("lr")
	assert.True(t, IsErrorType(err, ErrValueType))
	_, err = c.Float64("opt")
	assert.True(t, IsErrorType(err, ErrValueType))
	_, err = c.String("bn")
	assert.True(t, IsErrorType(err, ErrValueType))
	_, err = c.Bool("layers")
	assert.True(t, IsErrorType(err, ErrValueType))

	// Every missing key is reported the same way
	for _, key := range []string{"missing", "gone"} {
		_, err = c.Value(key)
		assert.True(t, IsErrorType(err, ErrKeyNotFound))
		_, err = c.Float64(key)
		assert.True(t, IsErrorType(err, ErrKeyNotFound))
		_, err = c.Int64(key)
		assert.True(t, IsErrorType(err, ErrKeyNotFound))
		_, err = c.String(key)
		assert.True(t, IsErrorType(err, ErrKeyNotFound))
		_, err = c.Bool(key)
		assert.True(t, IsErrorType(err, ErrKeyNotFound))
	}
	assert.Equal(t, 10, logs.FilterMessage("Key not found").Len())
}

func TestParseConfiguration(t *testing.T) {
	c, err := ParseConfiguration([]byte(`{"config":{"x":3.2},"eval_id":"V1"}`), nil, nil)
	require.NoError(t, err)
	assert.False(t, c.Reported())

	b, err := json.Marshal(c)
	require.NoError(t, err)
	assert.Equal(t, `{"config":{"x":3.2},"eval_id":"V1"}`, string(b))

	c, err = ParseConfiguration([]byte(`{"config":{"x":3.2},"eval_id":"V1","result":1.5}`), nil, nil)
	require.NoError(t, err)
	assert.True(t, c.Reported())
	assert.True(t, IsErrorType(c.ReportLoss(context.Background(), 2), ErrConfigurationReported))

	_, err = ParseConfiguration([]byte(`{"config":{"x":3.2}}`), nil, nil)
	assert.True(t, IsErrorType(err, ErrConfigurationInvalid))
	_, err = ParseConfiguration([]byte(`{"config":{"x":3.2},"eval_id":`), nil, nil)
	assert.True(t, IsErrorType(err, ErrConfigurationInvalid))

	// Unrecognized fields survive the round trip
	c, err = ParseConfiguration([]byte(`{"trial":{"rung":2},"config":{"x":3.2},"eval_id":"V1","budget":10}`), nil, nil)
	require.NoError(t, err)
	b, err = json.Marshal(c)
	require.NoError(t, err)
	assert.Equal(t, `{"budget":10,"config":{"x":3.2},"eval_id":"V1","trial":{"rung":2}}`, string(b))
}

func TestParseLoss(t *testing.T) {
	type score float32

	cases := []struct {
		desc     string
		loss     interface{}
		expected float64
		invalid  bool
	}{
		{desc: "float64", loss: 10.24, expected: 10.24},
		{desc: "float32", loss: float32(0.1), expected: 0.1},
		{desc: "named float", loss: score(2.5), expected: 2.5},
		{desc: "int", loss: 3, expected: 3},
		{desc: "uint8", loss: uint8(200), expected: 200},
		{desc: "negative int64", loss: int64(-7), expected: -7},
		{desc: "string", loss: "3.5", expected: 3.5},
		{desc: "padded string", loss: " 1e-3\n", expected: 0.001},
		{desc: "json number", loss: json.Number("42"), expected: 42},
		{desc: "text", loss: "not a number", invalid: true},
		{desc: "empty string", loss: "", invalid: true},
		{desc: "bool", loss: true, invalid: true},
		{desc: "nil", loss: nil, invalid: true},
		{desc: "slice", loss: []float64{1}, invalid: true},
		{desc: "nan", loss: math.NaN(), invalid: true},
		{desc: "infinity", loss: math.Inf(-1), invalid: true},
		{desc: "infinity string", loss: "inf", invalid: true},
	}
	for _, c := range cases {
		t.Run(c.desc, func(t *testing.T) {
			f, err := ParseLoss(c.loss)
			if c.invalid {
				assert.True(t, IsErrorType(err, ErrLossInvalid), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, c.expected, f)
		})
	}
}

func mustPayload(t *testing.T, data string) v1alpha1.Configuration {
	t.Helper()
	c := v1alpha1.Configuration{}
	require.NoError(t, json.Unmarshal([]byte(data), &c))
	return c
}
