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

package version

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInfoString(t *testing.T) {
	cases := []struct {
		desc     string
		info     Info
		expected string
	}{
		{
			desc:     "empty",
			expected: "v0.0.0-source",
		},
		{
			desc:     "release ignores metadata",
			info:     Info{Version: "v1.2.3", BuildMetadata: "abc"},
			expected: "v1.2.3",
		},
		{
			desc:     "pre-release keeps metadata",
			info:     Info{Version: "v1.2.3-rc.1", BuildMetadata: "abc"},
			expected: "v1.2.3-rc.1+abc",
		},
	}
	for _, c := range cases {
		t.Run(c.desc, func(t *testing.T) {
			assert.Equal(t, c.expected, c.info.String())
		})
	}
}

func TestUserAgentString(t *testing.T) {
	cases := []struct {
		desc          string
		product       string
		comment       string
		version       string
		buildMetadata string
		expected      string
	}{
		{
			desc:     "default product",
			expected: "Tinker/0.0.0-source",
		},
		{
			desc:     "product",
			product:  "tinkerctl",
			version:  "v1.0.0",
			expected: "tinkerctl/1.0.0",
		},
		{
			desc:     "comment",
			comment:  " ( linux ) ",
			version:  "v1.0.0",
			expected: "Tinker/1.0.0 (linux)",
		},
		{
			desc:     "blank comment",
			comment:  "()",
			version:  "v1.0.0",
			expected: "Tinker/1.0.0",
		},
		{
			desc:          "pre-release metadata",
			comment:       "test",
			version:       "v1.0.0-next",
			buildMetadata: "build.7",
			expected:      "Tinker/1.0.0-next (build.7; test)",
		},
	}
	for _, c := range cases {
		t.Run(c.desc, func(t *testing.T) {
			defer resetVersion()
			if c.version != "" {
				Version = c.version
			}
			BuildMetadata = c.buildMetadata

			var got string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = r.Header.Get("User-Agent")
			}))
			defer srv.Close()

			client := &http.Client{Transport: UserAgent(c.product, c.comment, nil)}
			resp, err := client.Get(srv.URL)
			require.NoError(t, err)
			_ = resp.Body.Close()

			assert.Equal(t, c.expected, got)
		})
	}
}

func resetVersion() {
	Version = defaultVersion
	BuildMetadata = ""
	GitCommit = ""
}
