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
	"fmt"
	"sort"
	"strings"

	"github.com/thestormforge/tinker/tinkerapi/experiments/v1alpha1"
	"github.com/thestormforge/tinker/tinkerapi/experiments/v1alpha1/numstr"
)

// AssignmentError is returned when a configuration does not match the experiment variables
type AssignmentError struct {
	// Variable names for which the assignment is missing
	Unassigned []string
	// Assignment names for which there is no variable
	Undefined []string
	// Variable names for which the assignment is outside the range or values
	OutOfBounds []string
}

// Error returns a message describing the nature of the problems with the assignments
func (e *AssignmentError) Error() string {
	var parts []string
	if len(e.Unassigned) > 0 {
		parts = append(parts, "unassigned: "+strings.Join(e.Unassigned, ", "))
	}
	if len(e.Undefined) > 0 {
		parts = append(parts, "undefined: "+strings.Join(e.Undefined, ", "))
	}
	if len(e.OutOfBounds) > 0 {
		parts = append(parts, "out of bounds: "+strings.Join(e.OutOfBounds, ", "))
	}
	return fmt.Sprintf("invalid assignments (%s)", strings.Join(parts, "; "))
}

// CheckAssignments ensures the configuration assigns a valid value to every experiment variable
func CheckAssignments(exp *v1alpha1.Experiment, c *v1alpha1.Configuration) error {
	err := &AssignmentError{}

	for name, v := range exp.Variables {
		a, ok := c.Assignments[name]
		if a == nil && ok && v.Type == v1alpha1.VariableTypeEnum {
			// An explicit null may be one of the allowed values
			a = &numstr.NumberOrString{IsRaw: true}
		}
		if a == nil {
			err.Unassigned = append(err.Unassigned, name)
			continue
		}
		v := v
		if !CheckAssignmentValue(&v, a) {
			err.OutOfBounds = append(err.OutOfBounds, name)
		}
	}
	for name := range c.Assignments {
		if _, ok := exp.Variables[name]; !ok {
			err.Undefined = append(err.Undefined, name)
		}
	}

	if len(err.Unassigned) == 0 && len(err.Undefined) == 0 && len(err.OutOfBounds) == 0 {
		return nil
	}
	sort.Strings(err.Unassigned)
	sort.Strings(err.Undefined)
	sort.Strings(err.OutOfBounds)
	return err
}

// CheckAssignmentValue ensures the supplied value is allowed for the variable.
func CheckAssignmentValue(v *v1alpha1.Variable, a *numstr.NumberOrString) bool {
	switch v.Type {
	case v1alpha1.VariableTypeInteger:
		if !a.IsInteger() || len(v.Range) != 2 {
			return false
		}
		i := a.Int64Value()
		return i >= v.Range[0].Int64Value() && i <= v.Range[1].Int64Value()

	case v1alpha1.VariableTypeFloat:
		if !a.IsNumber() || len(v.Range) != 2 {
			return false
		}
		f := a.Float64Value()
		return f >= v.Range[0].Float64Value() && f <= v.Range[1].Float64Value()

	case v1alpha1.VariableTypeEnum:
		for i := range v.Values {
			if v.Values[i].Equal(a) {
				return true
			}
		}
	}
	return false
}
