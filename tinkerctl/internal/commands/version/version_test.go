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

package version_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thestormforge/tinker/tinkerctl/internal/commands/version"
)

func TestVersion(t *testing.T) {
	cases := []struct {
		desc  string
		args  []string
		check func(t *testing.T, out string)
	}{
		{
			desc: "text",
			check: func(t *testing.T, out string) {
				assert.Equal(t, "tinkerctl version: v0.0.0-source\n", out)
			},
		},
		{
			desc: "json",
			args: []string{"-o", "json"},
			check: func(t *testing.T, out string) {
				var data map[string]map[string]string
				require.NoError(t, json.Unmarshal([]byte(out), &data))
				assert.Equal(t, "v0.0.0-source", data["tinkerctl"]["version"])
			},
		},
	}
	for _, c := range cases {
		t.Run(c.desc, func(t *testing.T) {
			var out bytes.Buffer
			cmd := version.NewCommand(&version.Options{Product: "tinkerctl"})
			cmd.SetOut(&out)
			cmd.SetArgs(c.args)

			require.NoError(t, cmd.Execute())
			c.check(t, out.String())
		})
	}
}
