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

// Package validation checks experiment definitions and suggested configurations
// at the wire level, independent of how they were constructed.
package validation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/thestormforge/tinker/tinkerapi/experiments/v1alpha1"
	"github.com/thestormforge/tinker/tinkerapi/experiments/v1alpha1/numstr"
)

// DefinitionError is returned when an experiment definition cannot be used
type DefinitionError struct {
	// Problems found in the definition, in a stable order
	Problems []string
}

// Error returns a message describing all of the problems with the definition
func (e *DefinitionError) Error() string {
	return "invalid experiment definition: " + strings.Join(e.Problems, "; ")
}

// CheckExperiment ensures a (typically decoded) experiment is something the
// optimization service would accept
func CheckExperiment(exp *v1alpha1.Experiment) error {
	err := &DefinitionError{}

	if exp.Name == "" {
		err.Problems = append(err.Problems, "expt_name is required")
	}
	if !exp.Optimizer.IsValid() {
		err.Problems = append(err.Problems, fmt.Sprintf("optimizer %q is not supported", exp.Optimizer))
	}

	names := make([]string, 0, len(exp.Variables))
	for name := range exp.Variables {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		v := exp.Variables[name]
		for _, p := range checkVariable(&v) {
			err.Problems = append(err.Problems, fmt.Sprintf("vars.%s: %s", name, p))
		}
	}

	if len(err.Problems) == 0 {
		return nil
	}
	return err
}

func checkVariable(v *v1alpha1.Variable) []string {
	var problems []string
	switch {
	case v.Type.IsNumeric():
		switch len(v.Range) {
		case 0:
			return append(problems, "range is required")
		case 2:
		default:
			return append(problems, "range must contain a minimum and a maximum")
		}
		for i := range v.Range {
			if !matchesType(v.Type, &v.Range[i]) {
				problems = append(problems, fmt.Sprintf("range values must match type %s", v.Type))
				break
			}
		}
		if v.StepSize != nil && !matchesType(v.Type, v.StepSize) {
			problems = append(problems, fmt.Sprintf("step_size must match type %s", v.Type))
		}

	case v.Type == v1alpha1.VariableTypeEnum:
		if len(v.Values) == 0 {
			problems = append(problems, "values are required")
		}

	default:
		problems = append(problems, fmt.Sprintf("type %q is not supported", v.Type))
	}
	return problems
}

func matchesType(t v1alpha1.VariableType, v *numstr.NumberOrString) bool {
	if t == v1alpha1.VariableTypeInteger {
		return v.IsInteger()
	}
	return v.IsFloat()
}
