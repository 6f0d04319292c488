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

	"github.com/spf13/cobra"
	"github.com/thestormforge/tinker/internal/template"
	"github.com/thestormforge/tinker/pkg/tinker"
	"github.com/thestormforge/tinker/tinkerctl/internal/commander"
)

// SuggestOptions includes the configuration for requesting configurations
type SuggestOptions struct {
	Options

	// Printer is used to render the suggested configuration
	Printer commander.ResourcePrinter

	ExperimentID string
	OrderSize    int
}

// NewSuggestCommand creates a new suggestion command
func NewSuggestCommand(o *SuggestOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "suggest EXPT_ID",
		Short: "Request a configuration to evaluate",
		Long:  "Request the next suggested configuration for a registered experiment",

		Args: cobra.ExactArgs(1),

		PreRunE: func(cmd *cobra.Command, args []string) error {
			o.ExperimentID = args[0]
			return o.complete(cmd)
		},
		RunE: commander.WithContextE(o.suggest),
	}

	cmd.Flags().IntVar(&o.OrderSize, "order-size", 1, "Number of configurations to request, only the first is returned.")

	commander.SetPrinter(&o.Printer, cmd)
	return cmd
}

func (o *SuggestOptions) suggest(ctx context.Context) error {
	exp, err := tinker.ResumeExperiment(o.ExperimentsAPI, o.ExperimentID, tinker.WithLogger(o.Log))
	if err != nil {
		return err
	}

	c, err := exp.NextConfiguration(ctx, o.OrderSize)
	if err != nil {
		return err
	}

	return o.Printer.PrintObj(&suggestion{Configuration: c, experimentID: exp.ID()}, o.Out)
}

// suggestion prints as the wire payload (suitable for `report`) and exposes its values to templates
type suggestion struct {
	*tinker.Configuration
	experimentID string
}

// SuggestionData returns the template model of the suggestion
func (s *suggestion) SuggestionData() *template.SuggestionData {
	sd := &template.SuggestionData{
		ExperimentID: s.experimentID,
		EvalID:       s.EvalID(),
		Values:       make(map[string]interface{}),
	}
	for _, k := range s.Keys() {
		sd.Values[k], _ = s.Lookup(k)
	}
	return sd
}
