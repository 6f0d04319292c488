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
	"github.com/thestormforge/tinker/tinkerapi/experiments/v1alpha1/numstr"
)

// NOTE: Fields are declared in lexical order of their JSON names so the encoded form is canonical.

// Optimizer selects the search strategy used by the server.
type Optimizer string

const (
	OptimizerRandom     Optimizer = "random"
	OptimizerBayesian   Optimizer = "bayesian"
	OptimizerGrid       Optimizer = "grid"
	OptimizerHorde      Optimizer = "horde"
	OptimizerLatinHyper Optimizer = "latin_hyper"
)

// Optimizers returns all of the recognized optimizer names.
func Optimizers() []Optimizer {
	return []Optimizer{OptimizerRandom, OptimizerBayesian, OptimizerGrid, OptimizerHorde, OptimizerLatinHyper}
}

// IsValid checks if the optimizer is recognized by the server.
func (o Optimizer) IsValid() bool {
	for _, oo := range Optimizers() {
		if o == oo {
			return true
		}
	}
	return false
}

// VariableType is the type of a single search space dimension.
type VariableType string

const (
	VariableTypeInteger VariableType = "int"
	VariableTypeFloat   VariableType = "float"
	VariableTypeEnum    VariableType = "enum"
)

// IsNumeric returns true for the types which are described by a range.
func (t VariableType) IsNumeric() bool {
	return t == VariableTypeInteger || t == VariableTypeFloat
}

// Variable describes one dimension of the search space.
type Variable struct {
	// The minimum and maximum value of a numeric variable.
	Range []numstr.NumberOrString `json:"range,omitempty"`
	// The preferred grid search step size of a numeric variable.
	StepSize *numstr.NumberOrString `json:"step_size,omitempty"`
	// The type of the variable.
	Type VariableType `json:"type"`
	// The allowed values of an enumerated variable.
	Values []numstr.NumberOrString `json:"values,omitempty"`
}

// Experiment is the search space specification registered with the server.
type Experiment struct {
	// The display name of the experiment.
	Name string `json:"expt_name"`
	// The optimizer used to generate configurations.
	Optimizer Optimizer `json:"optimizer"`
	// The search space of the experiment, keyed by variable name.
	Variables map[string]Variable `json:"vars"`
}

// Registration is the server response to a successful setup.
type Registration struct {
	// The server assigned experiment identifier.
	ExperimentID *numstr.NumberOrString `json:"expt_id"`
}

// DeepCopy returns a copy of the variable which shares no memory with the receiver.
func (in *Variable) DeepCopy() *Variable {
	out := &Variable{Type: in.Type}
	out.Range = copyValues(in.Range)
	if in.StepSize != nil {
		out.StepSize = in.StepSize.DeepCopy()
	}
	out.Values = copyValues(in.Values)
	return out
}

func copyValues(in []numstr.NumberOrString) []numstr.NumberOrString {
	if in == nil {
		return nil
	}
	out := make([]numstr.NumberOrString, len(in))
	for i := range in {
		out[i] = *in[i].DeepCopy()
	}
	return out
}

// DeepCopy returns a copy of the experiment which shares no memory with the receiver.
func (in *Experiment) DeepCopy() *Experiment {
	out := &Experiment{Name: in.Name, Optimizer: in.Optimizer}
	if in.Variables != nil {
		out.Variables = make(map[string]Variable, len(in.Variables))
		for k, v := range in.Variables {
			out.Variables[k] = *v.DeepCopy()
		}
	}
	return out
}
