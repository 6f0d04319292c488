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

package configure

import (
	"github.com/spf13/cobra"
	"github.com/thestormforge/tinker/internal/config"
	"github.com/thestormforge/tinker/tinkerctl/internal/commander"
)

// SetOptions are the options for setting a configuration property
type SetOptions struct {
	// Config is the Tinker client configuration to modify
	Config *config.TinkerConfig
	// IOStreams are used to access the standard process streams
	commander.IOStreams

	Key   string
	Value string
}

// NewSetCommand creates a new command for setting a configuration property
func NewSetCommand(o *SetOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Modify the configuration file",
		Long:  "Set an individual property in the Tinker configuration file",

		Args:      cobra.ExactArgs(2),
		ValidArgs: config.Properties(),

		PreRun: func(cmd *cobra.Command, args []string) {
			commander.SetStreams(&o.IOStreams, cmd)
			o.Key, o.Value = args[0], args[1]
		},
		RunE: commander.WithoutArgsE(o.set),
	}

	return cmd
}

func (o *SetOptions) set() error {
	if err := o.Config.Update(config.SetProperty(o.Key, o.Value)); err != nil {
		return err
	}
	return o.Config.Write()
}
