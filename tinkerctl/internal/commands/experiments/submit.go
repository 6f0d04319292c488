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

package experiments

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/thestormforge/tinker/pkg/tinker"
	"github.com/thestormforge/tinker/tinkerctl/internal/commander"
)

// SubmitOptions includes the configuration for registering an experiment
type SubmitOptions struct {
	Options

	Filename string
}

// NewSubmitCommand creates a new command for registering an experiment definition
func NewSubmitCommand(o *SubmitOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Register an experiment",
		Long:  "Register an experiment definition with the optimization service and print the assigned identifier",

		Args: cobra.NoArgs,

		PreRunE: func(cmd *cobra.Command, args []string) error {
			return o.complete(cmd)
		},
		RunE: commander.WithContextE(o.submit),
	}

	cmd.Flags().StringVarP(&o.Filename, "filename", "f", o.Filename, "File that contains the experiment definition, - for standard input.")

	_ = cmd.MarkFlagFilename("filename", "json")
	_ = cmd.MarkFlagRequired("filename")

	return cmd
}

func (o *SubmitOptions) submit(ctx context.Context) error {
	data, err := commander.ReadFile(o.Filename, o.In)
	if err != nil {
		return err
	}

	exp, err := tinker.ParseExperiment(data, tinker.WithLogger(o.Log))
	if err != nil {
		return err
	}

	id, err := exp.Submit(ctx, o.ExperimentsAPI)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(o.Out, id)
	return err
}
