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

package numstr

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
)

// NumberOrString is a value that can be a JSON number, string or boolean. Any other JSON value
// (an array, an object or null) is kept as raw JSON text with sorted object keys.
type NumberOrString struct {
	IsString bool
	IsBool   bool
	IsRaw    bool
	NumVal   json.Number
	StrVal   string
	BoolVal  bool
	RawVal   json.RawMessage
}

var (
	numberType = reflect.TypeOf(json.Number(""))
	rawType    = reflect.TypeOf(json.RawMessage(nil))
	valueType  = reflect.TypeOf(NumberOrString{})
)

// FromInt64 returns the supplied value as a NumberOrString
func FromInt64(val int64) NumberOrString {
	return NumberOrString{NumVal: json.Number(strconv.FormatInt(val, 10))}
}

// FromUint64 returns the supplied value as a NumberOrString
func FromUint64(val uint64) NumberOrString {
	return NumberOrString{NumVal: json.Number(strconv.FormatUint(val, 10))}
}

// FromFloat64 returns the supplied value as a NumberOrString. The number text always carries
// a fractional part or an exponent so the value is still read back as a float.
func FromFloat64(val float64) NumberOrString {
	return NumberOrString{NumVal: json.Number(formatFloat(val))}
}

// FromNumber returns the supplied value as a NumberOrString
func FromNumber(val json.Number) NumberOrString {
	return NumberOrString{NumVal: val}
}

// FromString returns the supplied value as a NumberOrString
func FromString(val string) NumberOrString {
	return NumberOrString{StrVal: val, IsString: true}
}

// FromBool returns the supplied value as a NumberOrString
func FromBool(val bool) NumberOrString {
	return NumberOrString{BoolVal: val, IsBool: true}
}

// FromValue converts an arbitrary Go value into a NumberOrString. Scalars keep their JSON
// type; slices, arrays, maps, structs and nil become raw JSON. Floats anywhere in the value
// are written the same way FromFloat64 writes them and must be finite.
func FromValue(val interface{}) (NumberOrString, error) {
	v, err := normalize(reflect.ValueOf(val))
	if err != nil {
		return NumberOrString{}, err
	}
	switch v := v.(type) {
	case NumberOrString:
		return v, nil
	case string:
		return FromString(v), nil
	case bool:
		return FromBool(v), nil
	case json.Number:
		return FromNumber(v), nil
	}
	raw, err := encode(v)
	if err != nil {
		return NumberOrString{}, err
	}
	return NumberOrString{IsRaw: true, RawVal: raw}, nil
}

// IsNumber returns true if the value is numeric.
func (s *NumberOrString) IsNumber() bool {
	return !s.IsString && !s.IsBool && !s.IsRaw
}

// IsInteger returns true if the value is a number written without a fraction or exponent.
func (s *NumberOrString) IsInteger() bool {
	return s.IsNumber() && s.NumVal != "" && !strings.ContainsAny(s.NumVal.String(), ".eE")
}

// IsFloat returns true if the value is a number written with a fraction or exponent.
func (s *NumberOrString) IsFloat() bool {
	return s.IsNumber() && strings.ContainsAny(s.NumVal.String(), ".eE")
}

// String coerces the value to a string.
func (s *NumberOrString) String() string {
	switch {
	case s.IsString:
		return s.StrVal
	case s.IsBool:
		return strconv.FormatBool(s.BoolVal)
	case s.IsRaw:
		return string(s.rawJSON())
	}
	return s.NumVal.String()
}

// Int64Value coerces the value to an int64.
func (s *NumberOrString) Int64Value() int64 {
	if s.IsString {
		v, _ := strconv.ParseInt(s.StrVal, 10, 64)
		return v
	}
	if s.IsBool {
		if s.BoolVal {
			return 1
		}
		return 0
	}
	if s.IsRaw {
		return 0
	}
	v, _ := s.NumVal.Int64()
	return v
}

// Float64Value coerces the value to a float64.
func (s *NumberOrString) Float64Value() float64 {
	if s.IsString {
		v, _ := strconv.ParseFloat(s.StrVal, 64)
		return v
	}
	if s.IsBool {
		if s.BoolVal {
			return 1
		}
		return 0
	}
	if s.IsRaw {
		return 0
	}
	v, _ := s.NumVal.Float64()
	return v
}

// Interface returns the value as a native Go type: int64 for integers, float64 for
// other numbers, string or bool. Raw values are returned as nil, []interface{} or
// map[string]interface{} holding the same kinds of values.
func (s *NumberOrString) Interface() interface{} {
	switch {
	case s.IsString:
		return s.StrVal
	case s.IsBool:
		return s.BoolVal
	case s.IsRaw:
		var v interface{}
		dec := json.NewDecoder(bytes.NewReader(s.rawJSON()))
		dec.UseNumber()
		if err := dec.Decode(&v); err != nil {
			return nil
		}
		return native(v)
	case s.IsInteger():
		if v, err := s.NumVal.Int64(); err == nil {
			return v
		}
	}
	return s.Float64Value()
}

// Equal returns true if both values have the same JSON type and value.
func (s *NumberOrString) Equal(o *NumberOrString) bool {
	switch {
	case s.IsString || o.IsString:
		return s.IsString && o.IsString && s.StrVal == o.StrVal
	case s.IsBool || o.IsBool:
		return s.IsBool && o.IsBool && s.BoolVal == o.BoolVal
	case s.IsRaw || o.IsRaw:
		return s.IsRaw && o.IsRaw && bytes.Equal(s.rawJSON(), o.rawJSON())
	}
	return s.Float64Value() == o.Float64Value()
}

// DeepCopy returns a copy of the value which shares no memory with the receiver.
func (s *NumberOrString) DeepCopy() *NumberOrString {
	out := *s
	if s.RawVal != nil {
		out.RawVal = append(json.RawMessage(nil), s.RawVal...)
	}
	return &out
}

// MarshalJSON writes the value with the appropriate type.
func (s NumberOrString) MarshalJSON() ([]byte, error) {
	switch {
	case s.IsString:
		return encode(s.StrVal)
	case s.IsBool:
		return json.Marshal(s.BoolVal)
	case s.IsRaw:
		return s.rawJSON(), nil
	}
	return json.Marshal(s.NumVal)
}

// UnmarshalJSON reads the value from any JSON text.
func (s *NumberOrString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return fmt.Errorf("empty value")
	}
	*s = NumberOrString{}
	switch b[0] {
	case '"':
		s.IsString = true
		return json.Unmarshal(b, &s.StrVal)
	case 't', 'f':
		s.IsBool = true
		return json.Unmarshal(b, &s.BoolVal)
	case '[', '{', 'n':
		if !json.Valid(b) {
			return fmt.Errorf("invalid JSON value: %s", b)
		}
		var v interface{}
		dec := json.NewDecoder(bytes.NewReader(b))
		dec.UseNumber()
		if err := dec.Decode(&v); err != nil {
			return err
		}
		raw, err := encode(v)
		if err != nil {
			return err
		}
		s.IsRaw = true
		s.RawVal = raw
		return nil
	}
	return json.Unmarshal(b, &s.NumVal)
}

func (s *NumberOrString) rawJSON() json.RawMessage {
	if len(s.RawVal) == 0 {
		return json.RawMessage("null")
	}
	return s.RawVal
}

// normalize reduces a value to nil, string, bool, json.Number, NumberOrString, []interface{}
// or map[string]interface{}.
func normalize(rv reflect.Value) (interface{}, error) {
	if !rv.IsValid() {
		return nil, nil
	}

	switch rv.Type() {
	case numberType:
		n := json.Number(rv.String())
		if _, err := n.Float64(); err != nil || !json.Valid([]byte(n)) {
			return nil, fmt.Errorf("invalid number: %q", n)
		}
		return n, nil
	case rawType:
		var s NumberOrString
		if err := s.UnmarshalJSON(rv.Bytes()); err != nil {
			return nil, err
		}
		return s, nil
	case valueType:
		return rv.Interface(), nil
	}

	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return nil, nil
		}
		return normalize(rv.Elem())
	case reflect.String:
		return rv.String(), nil
	case reflect.Bool:
		return rv.Bool(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return json.Number(strconv.FormatInt(rv.Int(), 10)), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return json.Number(strconv.FormatUint(rv.Uint(), 10)), nil
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("unsupported value: %v", f)
		}
		if rv.Kind() == reflect.Float32 {
			// Use the shortest 32-bit representation, not the widened value
			f, _ = strconv.ParseFloat(strconv.FormatFloat(f, 'g', -1, 32), 64)
		}
		return json.Number(formatFloat(f)), nil
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return nil, nil
		}
		out := make([]interface{}, rv.Len())
		for i := range out {
			v, err := normalize(rv.Index(i))
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			break
		}
		if rv.IsNil() {
			return nil, nil
		}
		out := make(map[string]interface{}, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			v, err := normalize(iter.Value())
			if err != nil {
				return nil, err
			}
			out[iter.Key().String()] = v
		}
		return out, nil
	case reflect.Chan, reflect.Func, reflect.Complex64, reflect.Complex128, reflect.UnsafePointer:
		return nil, fmt.Errorf("unsupported value type: %s", rv.Type())
	}

	// Anything else (e.g. structs) goes through its regular JSON encoding
	if !rv.CanInterface() {
		return nil, fmt.Errorf("unsupported value type: %s", rv.Type())
	}
	b, err := json.Marshal(rv.Interface())
	if err != nil {
		return nil, err
	}
	var s NumberOrString
	if err := s.UnmarshalJSON(b); err != nil {
		return nil, err
	}
	return s, nil
}

// native replaces the numbers of a decoded value with int64 or float64.
func native(v interface{}) interface{} {
	switch v := v.(type) {
	case json.Number:
		s := FromNumber(v)
		return s.Interface()
	case []interface{}:
		for i := range v {
			v[i] = native(v[i])
		}
	case map[string]interface{}:
		for k := range v {
			v[k] = native(v[k])
		}
	}
	return v
}

// encode writes compact JSON with sorted object keys and without HTML escaping.
func encode(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// formatFloat mirrors the shortest round trip representation used by most JSON producers for
// floating point values: plain notation for moderate exponents, scientific otherwise.
func formatFloat(f float64) string {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}

	abs := math.Abs(f)
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}

	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
