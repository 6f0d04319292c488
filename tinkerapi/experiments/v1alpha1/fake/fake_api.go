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

// Package fake provides an in-memory optimization service for tests.
package fake

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/thestormforge/tinker/internal/validation"
	"github.com/thestormforge/tinker/tinkerapi/experiments/v1alpha1"
	"github.com/thestormforge/tinker/tinkerapi/experiments/v1alpha1/numstr"
)

var _ v1alpha1.API = &FakeAPI{}

// FakeAPI registers experiments and suggests uniformly sampled configurations
type FakeAPI struct {
	mu          sync.Mutex
	calls       map[string]int
	rand        *rand.Rand
	experiments map[string]v1alpha1.Experiment
	pending     map[string]pendingEvaluation
	reports     []v1alpha1.Configuration
}

type pendingEvaluation struct {
	experimentID string
	config       v1alpha1.Configuration
}

// NewFakeAPI returns a new in-memory service using a deterministic random source
func NewFakeAPI() *FakeAPI {
	return &FakeAPI{
		calls:       make(map[string]int),
		rand:        rand.New(rand.NewSource(1)),
		experiments: make(map[string]v1alpha1.Experiment),
		pending:     make(map[string]pendingEvaluation),
	}
}

func (f *FakeAPI) Setup(ctx context.Context, exp v1alpha1.Experiment) (v1alpha1.Registration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["setup"]++

	if err := validation.CheckExperiment(&exp); err != nil {
		return v1alpha1.Registration{}, &v1alpha1.Error{Type: v1alpha1.ErrUnexpected, Message: err.Error(), StatusCode: 400}
	}

	id := numstr.FromString(uuid.New().String())
	f.experiments[id.String()] = exp
	return v1alpha1.Registration{ExperimentID: &id}, nil
}

func (f *FakeAPI) Request(ctx context.Context, r v1alpha1.ConfigurationRequest) (v1alpha1.Configuration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["request"]++

	exp, ok := f.experiments[r.ExperimentID]
	if !ok {
		return v1alpha1.Configuration{}, &v1alpha1.Error{Type: v1alpha1.ErrNotFound, Message: "experiment not found", StatusCode: 404}
	}

	c := v1alpha1.Configuration{Assignments: make(map[string]*numstr.NumberOrString, len(exp.Variables))}
	for _, name := range sortedNames(exp.Variables) {
		v := exp.Variables[name]
		a := f.sample(&v)
		c.Assignments[name] = &a
	}
	id := numstr.FromString(uuid.New().String())
	c.EvaluationID = &id

	f.pending[id.String()] = pendingEvaluation{experimentID: r.ExperimentID, config: *c.DeepCopy()}
	return c, nil
}

func (f *FakeAPI) Report(ctx context.Context, c v1alpha1.Configuration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["report"]++

	p, ok := f.pending[c.EvalID()]
	if !ok {
		return &v1alpha1.Error{Type: v1alpha1.ErrNotFound, Message: fmt.Sprintf("evaluation %q is not pending", c.EvalID()), StatusCode: 404}
	}
	if c.Result == nil {
		return &v1alpha1.Error{Type: v1alpha1.ErrUnexpected, Message: "missing result", StatusCode: 400}
	}

	exp := f.experiments[p.experimentID]
	if err := validation.CheckAssignments(&exp, &c); err != nil {
		return &v1alpha1.Error{Type: v1alpha1.ErrUnexpected, Message: err.Error(), StatusCode: 400}
	}

	delete(f.pending, c.EvalID())
	f.reports = append(f.reports, *c.DeepCopy())
	return nil
}

// Calls returns the number of requests received by an endpoint ("setup", "request" or "report")
func (f *FakeAPI) Calls(endpoint string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[endpoint]
}

// Experiment returns a registered experiment
func (f *FakeAPI) Experiment(id string) (v1alpha1.Experiment, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	exp, ok := f.experiments[id]
	return exp, ok
}

// Reports returns the accepted reports in the order they were received
func (f *FakeAPI) Reports() []v1alpha1.Configuration {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]v1alpha1.Configuration(nil), f.reports...)
}

func (f *FakeAPI) sample(v *v1alpha1.Variable) numstr.NumberOrString {
	switch v.Type {
	case v1alpha1.VariableTypeInteger:
		lo, hi := v.Range[0].Int64Value(), v.Range[1].Int64Value()
		step := int64(1)
		if v.StepSize != nil && v.StepSize.Int64Value() > 0 {
			step = v.StepSize.Int64Value()
		}
		if hi <= lo {
			return numstr.FromInt64(lo)
		}
		return numstr.FromInt64(lo + step*f.rand.Int63n((hi-lo)/step+1))

	case v1alpha1.VariableTypeFloat:
		lo, hi := v.Range[0].Float64Value(), v.Range[1].Float64Value()
		if hi <= lo {
			return numstr.FromFloat64(lo)
		}
		if v.StepSize != nil && v.StepSize.Float64Value() > 0 {
			step := v.StepSize.Float64Value()
			return numstr.FromFloat64(math.Min(hi, lo+step*float64(f.rand.Int63n(int64((hi-lo)/step)+1))))
		}
		return numstr.FromFloat64(lo + f.rand.Float64()*(hi-lo))
	}
	return v.Values[f.rand.Intn(len(v.Values))]
}

func sortedNames(vars map[string]v1alpha1.Variable) []string {
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
