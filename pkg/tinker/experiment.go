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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-logr/logr"
	"github.com/thestormforge/tinker/internal/validation"
	"github.com/thestormforge/tinker/tinkerapi/experiments/v1alpha1"
)

// Optimizer selects the search strategy used by the remote service
type Optimizer = v1alpha1.Optimizer

const (
	OptimizerRandom     = v1alpha1.OptimizerRandom
	OptimizerBayesian   = v1alpha1.OptimizerBayesian
	OptimizerGrid       = v1alpha1.OptimizerGrid
	OptimizerHorde      = v1alpha1.OptimizerHorde
	OptimizerLatinHyper = v1alpha1.OptimizerLatinHyper
)

// Experiment is a search space specification which can be registered with the
// optimization service. Once submitted, the specification can no longer change.
type Experiment struct {
	spec v1alpha1.Experiment
	id   string
	api  v1alpha1.API
	log  logr.Logger
}

// ExperimentOption configures an experiment on construction or load
type ExperimentOption func(*Experiment) error

// WithOptimizer selects the optimizer, the default is "random"
func WithOptimizer(o Optimizer) ExperimentOption {
	return func(e *Experiment) error {
		return e.SetOptimizer(o)
	}
}

// WithLogger sets the logger used for diagnostics
func WithLogger(log logr.Logger) ExperimentOption {
	return func(e *Experiment) error {
		if log != nil {
			e.log = log
		}
		return nil
	}
}

// NewExperiment returns a new, empty experiment
func NewExperiment(name string, opts ...ExperimentOption) (*Experiment, error) {
	e := &Experiment{
		spec: v1alpha1.Experiment{
			Name:      name,
			Optimizer: OptimizerRandom,
			Variables: make(map[string]v1alpha1.Variable),
		},
		log: nopLogger(),
	}

	if err := e.apply(opts); err != nil {
		return nil, err
	}

	if name == "" {
		err := newError(ErrExperimentInvalid, "experiment name is required")
		e.log.Info("Invalid experiment", "error", err.Error())
		return nil, err
	}

	return e, nil
}

// ParseExperiment returns an experiment from its JSON specification
func ParseExperiment(data []byte, opts ...ExperimentOption) (*Experiment, error) {
	e := &Experiment{log: nopLogger()}
	if err := e.apply(opts); err != nil {
		return nil, err
	}

	spec := v1alpha1.Experiment{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&spec); err != nil {
		e.log.Info("Invalid experiment", "error", err.Error())
		return nil, &Error{Type: ErrExperimentInvalid, Message: fmt.Sprintf("invalid experiment: %v", err), Err: err}
	}
	if err := validation.CheckExperiment(&spec); err != nil {
		e.log.Info("Invalid experiment", "error", err.Error())
		return nil, &Error{Type: ErrExperimentInvalid, Message: err.Error(), Err: err}
	}

	if spec.Variables == nil {
		spec.Variables = make(map[string]v1alpha1.Variable)
	}
	e.spec = spec

	// Apply the options again so they take precedence over the decoded specification
	if err := e.apply(opts); err != nil {
		return nil, err
	}
	e.log = e.log.WithValues("experiment", spec.Name)
	return e, nil
}

// LoadExperiment reads an experiment specification from a file
func LoadExperiment(filename string, opts ...ExperimentOption) (*Experiment, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return ParseExperiment(data, opts...)
}

// ResumeExperiment returns an experiment already registered with the service. The local
// specification of a resumed experiment is empty.
func ResumeExperiment(api v1alpha1.API, id string, opts ...ExperimentOption) (*Experiment, error) {
	e := &Experiment{log: nopLogger()}
	if err := e.apply(opts); err != nil {
		return nil, err
	}
	if api == nil {
		return nil, newError(ErrAPIMissing, "an API is required to resume an experiment")
	}
	if id == "" {
		return nil, newError(ErrExperimentInvalid, "experiment identifier is required")
	}

	e.spec.Variables = make(map[string]v1alpha1.Variable)
	e.id = id
	e.api = api
	e.log = e.log.WithValues("experimentID", id)
	return e, nil
}

func (e *Experiment) apply(opts []ExperimentOption) error {
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return err
		}
	}
	return nil
}

// Name returns the experiment name
func (e *Experiment) Name() string { return e.spec.Name }

// Optimizer returns the selected optimizer
func (e *Experiment) Optimizer() Optimizer { return e.spec.Optimizer }

// ID returns the identifier assigned by the service, empty until submitted
func (e *Experiment) ID() string { return e.id }

// Submitted checks if the experiment is registered with the service
func (e *Experiment) Submitted() bool { return e.id != "" }

// Variables returns a copy of the variable descriptors keyed by name
func (e *Experiment) Variables() map[string]v1alpha1.Variable {
	return e.spec.DeepCopy().Variables
}

// Spec returns a copy of the wire specification
func (e *Experiment) Spec() v1alpha1.Experiment {
	return *e.spec.DeepCopy()
}

// AddVariable adds the descriptor of the variable, replacing any previous variable of the same name
func (e *Experiment) AddVariable(v *Variable) error {
	if v == nil {
		err := newError(ErrVariableInvalid, "variable is required")
		e.log.Info("Invalid variable", "error", err.Error())
		return err
	}
	if err := e.checkUnsubmitted(); err != nil {
		return err
	}

	e.spec.Variables[v.Name()] = v.Descriptor()
	e.log.V(1).Info("Added variable", "variable", v.Name(), "type", string(v.Type()))
	return nil
}

// AddVariables adds each variable in order, stopping on the first error
func (e *Experiment) AddVariables(vs ...*Variable) error {
	for _, v := range vs {
		if err := e.AddVariable(v); err != nil {
			return err
		}
	}
	return nil
}

// SetOptimizer changes the optimizer, an unrecognized optimizer leaves the experiment unchanged
func (e *Experiment) SetOptimizer(o Optimizer) error {
	if !o.IsValid() {
		err := newError(ErrOptimizerInvalid, "%q is not a valid optimizer, must be one of %v", o, v1alpha1.Optimizers())
		e.log.Info("Invalid optimizer", "error", err.Error())
		return err
	}
	if err := e.checkUnsubmitted(); err != nil {
		return err
	}

	e.spec.Optimizer = o
	return nil
}

func (e *Experiment) checkUnsubmitted() error {
	if e.Submitted() {
		return newError(ErrExperimentSubmitted, "experiment was already submitted as %q", e.id)
	}
	return nil
}

// ToJSON returns the canonical JSON specification: sorted keys, no insignificant
// white space and only ASCII characters
func (e *Experiment) ToJSON() ([]byte, error) {
	return v1alpha1.Marshal(e.spec)
}

// String returns the indented JSON specification
func (e *Experiment) String() string {
	b, err := e.ToJSON()
	if err != nil {
		return err.Error()
	}
	buf := bytes.Buffer{}
	if err := json.Indent(&buf, b, "", "  "); err != nil {
		return err.Error()
	}
	return buf.String()
}

// SaveExperiment writes the canonical JSON specification to a file
func (e *Experiment) SaveExperiment(filename string) error {
	b, err := e.ToJSON()
	if err != nil {
		return err
	}
	return os.WriteFile(filename, b, 0644)
}

// Submit registers the experiment with the service and returns the assigned identifier.
// An experiment can only be submitted once.
func (e *Experiment) Submit(ctx context.Context, api v1alpha1.API) (string, error) {
	if err := e.checkUnsubmitted(); err != nil {
		return "", err
	}
	if api == nil {
		return "", newError(ErrAPIMissing, "an API is required to submit an experiment")
	}

	reg, err := api.Setup(ctx, *e.spec.DeepCopy())
	if err != nil {
		e.log.Error(err, "Failed to submit experiment")
		return "", err
	}

	if reg.ExperimentID == nil || reg.ExperimentID.String() == "" {
		return "", &v1alpha1.Error{Type: v1alpha1.ErrInvalidResponse, Message: "setup response is missing expt_id"}
	}

	e.id = reg.ExperimentID.String()
	e.api = api
	e.log = e.log.WithValues("experimentID", e.id)
	e.log.V(1).Info("Submitted experiment", "experiment", e.spec.Name)
	return e.id, nil
}

// NextConfiguration requests the next suggested configuration. The order size is the
// number of points the optimizer should advance by, a single configuration is returned.
func (e *Experiment) NextConfiguration(ctx context.Context, orderSize int) (*Configuration, error) {
	if !e.Submitted() {
		return nil, newError(ErrExperimentNotSubmitted, "experiment must be submitted before requesting a configuration")
	}
	if orderSize < 1 {
		return nil, newError(ErrOrderSizeInvalid, "order size must be at least 1, got %d", orderSize)
	}

	c, err := e.api.Request(ctx, v1alpha1.ConfigurationRequest{ExperimentID: e.id, OrderSize: orderSize})
	if err != nil {
		e.log.Error(err, "Failed to request configuration")
		return nil, err
	}

	// The service is authoritative, a mismatch is only reported
	if len(e.spec.Variables) > 0 {
		if err := validation.CheckAssignments(&e.spec, &c); err != nil {
			e.log.Info("Configuration does not match experiment", "evalID", c.EvalID(), "error", err.Error())
		}
	}

	return newConfiguration(c, e.api, e.log), nil
}
