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

package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_RenderSuggestion(t *testing.T) {
	data := &SuggestionData{
		ExperimentID: "E1",
		EvalID:       "V1",
		Values: map[string]interface{}{
			"x":   3.2,
			"n":   int64(4),
			"opt": "adam",
		},
	}

	cases := []struct {
		desc     string
		text     string
		expected string
	}{
		{
			desc:     "fields",
			text:     "{{ .ExperimentID }}/{{ .EvalID }}",
			expected: "E1/V1",
		},
		{
			desc:     "value",
			text:     "{{ index .Values \"x\" }}",
			expected: "3.2",
		},
		{
			desc:     "args",
			text:     "train.py {{ args .Values }}",
			expected: "train.py --n=4 --opt=adam --x=3.2",
		},
		{
			desc:     "json",
			text:     "{{ toJSON .Values }}",
			expected: `{"n":4,"opt":"adam","x":3.2}`,
		},
		{
			desc:     "sprig",
			text:     "{{ .EvalID | lower | quote }}",
			expected: `"v1"`,
		},
	}
	for _, c := range cases {
		t.Run(c.desc, func(t *testing.T) {
			out, err := New().RenderSuggestion(c.text, data)
			require.NoError(t, err)
			assert.Equal(t, c.expected, out)
		})
	}
}

func TestFuncMap_NoEnvironment(t *testing.T) {
	f := FuncMap()
	assert.NotContains(t, f, "env")
	assert.NotContains(t, f, "expandenv")

	_, err := New().RenderSuggestion("{{ env \"HOME\" }}", &SuggestionData{})
	assert.Error(t, err)
}

func TestEngine_Render(t *testing.T) {
	out, err := New().Render(`{{ .expt_name }} {{ .vars | keys | sortAlpha | join "," }}`, map[string]interface{}{
		"expt_name": "demo",
		"vars":      map[string]interface{}{"y": 1, "x": 2},
	})
	require.NoError(t, err)
	assert.Equal(t, "demo x,y", out)

	_, err = New().Render("{{ .missing }}", map[string]interface{}{})
	assert.Error(t, err)
}
