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
	"bytes"
	"encoding/json"
	"fmt"
	"unicode/utf16"
	"unicode/utf8"
)

// Marshal returns the wire encoding of a value: compact JSON with every non-ASCII rune
// escaped. The wire types declare their fields in key order so the output has sorted keys.
func Marshal(v interface{}) ([]byte, error) {
	b, err := compact(v)
	if err != nil {
		return nil, err
	}

	// Non-ASCII bytes can only appear inside of strings
	out := make([]byte, 0, len(b))
	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		switch {
		case r < utf8.RuneSelf:
			out = append(out, b[0])
		case r > 0xFFFF:
			r1, r2 := utf16.EncodeRune(r)
			out = append(out, fmt.Sprintf("\\u%04x\\u%04x", r1, r2)...)
		default:
			out = append(out, fmt.Sprintf("\\u%04x", r)...)
		}
		b = b[size:]
	}
	return out, nil
}

// compact encodes a value without HTML escaping or a trailing newline.
func compact(v interface{}) ([]byte, error) {
	buf := &bytes.Buffer{}
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
