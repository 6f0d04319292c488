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
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
	"github.com/thestormforge/tinker/pkg/tinker"
	"github.com/thestormforge/tinker/tinkerctl/internal/commander"
)

// ReportOptions includes the configuration for reporting the result of a configuration
type ReportOptions struct {
	Options

	Filename string
	Loss     string
	Update   bool
}

// NewReportCommand creates a new command for reporting a loss
func NewReportCommand(o *ReportOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Report the loss of a configuration",
		Long:  "Report the observed loss for a configuration previously saved from the JSON output of suggest",

		Args: cobra.NoArgs,

		PreRunE: func(cmd *cobra.Command, args []string) error {
			return o.complete(cmd)
		},
		RunE: commander.WithContextE(o.report),
	}

	cmd.Flags().StringVarP(&o.Filename, "filename", "f", o.Filename, "File that contains the suggested configuration, - for standard input.")
	cmd.Flags().StringVar(&o.Loss, "loss", o.Loss, "The observed loss, must be a finite number.")
	cmd.Flags().BoolVar(&o.Update, "update", o.Update, "Record the result in the configuration file once it is accepted.")

	_ = cmd.MarkFlagFilename("filename", "json")
	_ = cmd.MarkFlagRequired("filename")
	_ = cmd.MarkFlagRequired("loss")

	return cmd
}

func (o *ReportOptions) report(ctx context.Context) error {
	data, err := commander.ReadFile(o.Filename, o.In)
	if err != nil {
		return err
	}

	c, err := tinker.ParseConfiguration(data, o.ExperimentsAPI, o.Log)
	if err != nil {
		return err
	}

	if err := c.ReportLoss(ctx, o.Loss); err != nil {
		return err
	}

	if !o.Update || o.Filename == "-" {
		return nil
	}

	// A configuration carrying a result is treated as already reported when it is read back
	b, err := json.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(o.Filename, append(b, '\n'), 0644)
}
