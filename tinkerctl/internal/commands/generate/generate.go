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

package generate

import (
	"github.com/spf13/cobra"
	"github.com/thestormforge/tinker/tinkerctl/internal/commander"
)

// Options includes the configuration for the subcommands
type Options struct {
	// Runtime holds the logging options
	Runtime *commander.Runtime
}

// NewCommand returns a new generate command
func NewCommand(o *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate Tinker objects",
		Long:  "Generate Tinker object definitions",
	}

	cmd.AddCommand(NewExperimentCommand(&ExperimentOptions{Runtime: o.Runtime}))

	return cmd
}
