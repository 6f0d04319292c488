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
	"fmt"
	"math"
	"reflect"
	"strconv"

	"github.com/thestormforge/tinker/tinkerapi/experiments/v1alpha1"
	"github.com/thestormforge/tinker/tinkerapi/experiments/v1alpha1/numstr"
	"golang.org/x/exp/constraints"
)

// VariableType is the type of a variable
type VariableType = v1alpha1.VariableType

const (
	TypeInt   = v1alpha1.VariableTypeInteger
	TypeFloat = v1alpha1.VariableTypeFloat
	TypeEnum  = v1alpha1.VariableTypeEnum
)

// Variable is one validated dimension of a search space. Variables are immutable.
type Variable struct {
	name       string
	typ        VariableType
	rng        []interface{}
	values     []interface{}
	stepSize   interface{}
	descriptor v1alpha1.Variable
}

// VariableOption supplies the type dependent attributes of a variable
type VariableOption func(*variableOptions)

type variableOptions struct {
	rng      []interface{}
	rangeSet bool
	values   []interface{}
	stepSize interface{}
}

// WithRange sets the minimum and maximum of a numeric variable. The bounds must have
// the Go kind of the variable type: an integer kind for int, float32 or float64 for float.
func WithRange(bounds ...interface{}) VariableOption {
	return func(o *variableOptions) {
		o.rng = append([]interface{}(nil), bounds...)
		o.rangeSet = true
	}
}

// WithBounds is a typed form of WithRange.
func WithBounds[T constraints.Integer | constraints.Float](lower, upper T) VariableOption {
	return WithRange(lower, upper)
}

// WithStepSize sets the preferred grid search step of a numeric variable.
func WithStepSize(step interface{}) VariableOption {
	return func(o *variableOptions) {
		o.stepSize = step
	}
}

// WithValues sets the allowed values of an enum variable. Values may be anything with a JSON
// encoding, including nil and nested lists.
func WithValues(values ...interface{}) VariableOption {
	return func(o *variableOptions) {
		o.values = append([]interface{}(nil), values...)
	}
}

// WithChoices is a typed form of WithValues.
func WithChoices[T constraints.Ordered](values ...T) VariableOption {
	return func(o *variableOptions) {
		o.values = make([]interface{}, len(values))
		for i := range values {
			o.values[i] = values[i]
		}
	}
}

// NewVariable validates and returns a new variable, reserving its name in the registry. If the
// registry is nil, the DefaultRegistry is used. The name is only reserved if the variable is valid.
func NewVariable(reg *Registry, name string, t VariableType, opts ...VariableOption) (*Variable, error) {
	if reg == nil {
		reg = DefaultRegistry
	}
	log := reg.logger().WithValues("variable", name, "type", string(t))

	o := &variableOptions{}
	for _, opt := range opts {
		opt(o)
	}

	v, err := newVariable(reg, name, t, o)
	if err != nil {
		log.Info("Invalid variable", "error", err.Error())
		return nil, err
	}

	// Reserve last so invalid variables never consume the name
	if !reg.reserve(name) {
		err = newError(ErrVariableNameConflict, "a variable with name %q already exists", name)
		log.Info("Invalid variable", "error", err.Error())
		return nil, err
	}
	return v, nil
}

func newVariable(reg *Registry, name string, t VariableType, o *variableOptions) (*Variable, error) {
	if reg.Contains(name) {
		return nil, newError(ErrVariableNameConflict, "a variable with name %q already exists", name)
	}

	v := &Variable{name: name, typ: t}
	v.descriptor.Type = t

	switch {
	case t.IsNumeric():
		if !o.rangeSet {
			return nil, newError(ErrVariableRangeMissing, "must provide a range for variable type %q", t)
		}
		if len(o.rng) != 2 {
			return nil, newError(ErrVariableRangeInvalid, "range must contain a minimum and a maximum")
		}
		for _, b := range o.rng {
			n, ok := toNumber(t, b)
			if !ok {
				return nil, newError(ErrVariableRangeType, "range element %v (%T) does not match variable type %q", b, b, t)
			}
			if t == TypeFloat && !isFinite(b) {
				return nil, newError(ErrVariableRangeInvalid, "range element %v is not finite", b)
			}
			v.descriptor.Range = append(v.descriptor.Range, n)
		}
		if o.stepSize != nil {
			n, ok := toNumber(t, o.stepSize)
			if !ok || (t == TypeFloat && !isFinite(o.stepSize)) {
				return nil, newError(ErrVariableStepSizeType, "step size %v (%T) does not match variable type %q", o.stepSize, o.stepSize, t)
			}
			v.descriptor.StepSize = &n
		}
		v.rng = o.rng
		v.stepSize = o.stepSize

	case t == TypeEnum:
		if len(o.values) == 0 {
			return nil, newError(ErrVariableValuesMissing, "must provide a set of values for variable type enum")
		}
		for _, val := range o.values {
			n, err := numstr.FromValue(val)
			if err != nil {
				return nil, &Error{Type: ErrVariableValuesType, Message: fmt.Sprintf("enum value %v (%T) cannot be encoded", val, val), Err: err}
			}
			v.descriptor.Values = append(v.descriptor.Values, n)
		}
		v.values = o.values

	default:
		return nil, newError(ErrVariableTypeInvalid, "%q is not a valid variable type", t)
	}

	return v, nil
}

// Name returns the unique name of the variable
func (v *Variable) Name() string { return v.name }

// Type returns the type of the variable
func (v *Variable) Type() VariableType { return v.typ }

// Range returns the bounds of a numeric variable exactly as supplied
func (v *Variable) Range() []interface{} { return append([]interface{}(nil), v.rng...) }

// Values returns the allowed values of an enum variable exactly as supplied
func (v *Variable) Values() []interface{} { return append([]interface{}(nil), v.values...) }

// StepSize returns the step size of a numeric variable, nil if it was not supplied
func (v *Variable) StepSize() interface{} { return v.stepSize }

// Descriptor returns the wire representation of the variable
func (v *Variable) Descriptor() v1alpha1.Variable { return *v.descriptor.DeepCopy() }

// toNumber converts a value whose Go kind matches the numeric variable type
func toNumber(t VariableType, val interface{}) (numstr.NumberOrString, bool) {
	rv := reflect.ValueOf(val)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return numstr.FromInt64(rv.Int()), t == TypeInt
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return numstr.FromUint64(rv.Uint()), t == TypeInt
	case reflect.Float32:
		// Use the shortest 32-bit representation, not the widened value
		f, _ := strconv.ParseFloat(strconv.FormatFloat(rv.Float(), 'g', -1, 32), 64)
		return numstr.FromFloat64(f), t == TypeFloat
	case reflect.Float64:
		return numstr.FromFloat64(rv.Float()), t == TypeFloat
	}
	return numstr.NumberOrString{}, false
}

func isFinite(val interface{}) bool {
	rv := reflect.ValueOf(val)
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		return !math.IsNaN(f) && !math.IsInf(f, 0)
	}
	return true
}
