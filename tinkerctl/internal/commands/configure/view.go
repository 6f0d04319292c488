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

const redacted = "REDACTED"

// ViewOptions are the options for viewing a configuration file
type ViewOptions struct {
	// Config is the Tinker client configuration to view
	Config *config.TinkerConfig
	// Printer is the resource printer used to render the configuration
	Printer commander.ResourcePrinter
	// IOStreams are used to access the standard process streams
	commander.IOStreams

	// ShowToken includes the bearer token in the output
	ShowToken bool
}

// NewViewCommand creates a new command for viewing the configuration
func NewViewCommand(o *ViewOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view",
		Short: "View the configuration file",
		Long:  "View the effective Tinker configuration, including environment and flag overrides",

		Annotations: map[string]string{
			commander.PrinterAllowedFormats: "json,yaml",
			commander.PrinterOutputFormat:   "yaml",
		},

		PreRun: commander.StreamsPreRun(&o.IOStreams),
		RunE:   commander.WithoutArgsE(o.view),
	}

	cmd.Flags().BoolVar(&o.ShowToken, "show-token", o.ShowToken, "Display the bearer token instead of redacting it.")

	commander.SetPrinter(&o.Printer, cmd)
	return cmd
}

func (o *ViewOptions) view() error {
	data := o.Config.Effective()
	if data.Token != "" && !o.ShowToken {
		data.Token = redacted
	}
	return o.Printer.PrintObj(&data, o.Out)
}
