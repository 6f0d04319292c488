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
	"github.com/spf13/cobra"
	"github.com/thestormforge/tinker/internal/template"
	"github.com/thestormforge/tinker/internal/version"
	"github.com/thestormforge/tinker/tinkerctl/internal/commander"
)

// defaultTemplate is used to format the version information
const defaultTemplate = `{{range $key, $value := . }}{{$key}} version: {{$value}}
{{end}}`

// Options is the configuration for reporting version information
type Options struct {
	// IOStreams are used to access the standard process streams
	commander.IOStreams

	// Product is the current product name
	Product string
	// OutputFormat selects structured output instead of the default text
	OutputFormat string
}

// NewCommand creates a new command for reporting version information
func NewCommand(o *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version information",
		Long:  "Print the version information for the Tinker client",

		// The version does not depend on the configuration
		PersistentPreRun: func(*cobra.Command, []string) {},

		PreRun: func(cmd *cobra.Command, args []string) {
			if o.Product == "" {
				o.Product = cmd.Root().Name()
			}
			commander.SetStreams(&o.IOStreams, cmd)
		},
		RunE: commander.WithoutArgsE(o.version),
	}

	cmd.Flags().StringVarP(&o.OutputFormat, "output", "o", "", "Output format. One of: json|yaml")

	return cmd
}

func (o *Options) version() error {
	data := map[string]*version.Info{o.Product: version.GetInfo()}

	if o.OutputFormat != "" {
		var printer commander.ResourcePrinter
		if err := commander.NewPrinter(o.OutputFormat, &printer); err != nil {
			return err
		}
		return printer.PrintObj(data, o.Out)
	}

	out, err := template.New().Render(defaultTemplate, data)
	if err != nil {
		return err
	}
	_, err = o.Out.Write([]byte(out))
	return err
}
