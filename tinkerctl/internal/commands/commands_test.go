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

package commands

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsage(t *testing.T) {
	testCommandUsage(t, NewTinkerctlCommand())
}

func testCommandUsage(t *testing.T, cmd *cobra.Command) {
	// For short descriptions (e.g. " help  Help about any command") we want sentence case
	// without the period. We also want to prevent wrapping on an 80 column layout so we
	// limit the length.

	t.Run(cmd.Name(), func(t *testing.T) {
		fw := strings.Fields(cmd.Short)[0]
		assert.Equal(t, strings.ToUpper(fw[:1])+fw[1:], fw)
		assert.False(t, strings.HasSuffix(cmd.Short, "."))
		assert.Greater(t, 60, len(cmd.Short))

		for _, c := range cmd.Commands() {
			testCommandUsage(t, c)
		}
	})
}

func TestUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	t.Setenv("TINKER_ADDRESS", "")
	t.Setenv("TINKER_TOKEN", "")
	t.Setenv("TINKER_TIMEOUT", "")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cmd := NewTinkerctlCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SilenceErrors = true
	cmd.SetArgs([]string{"suggest", "E1", "--address", srv.URL})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tinkerctl config set token")
}
