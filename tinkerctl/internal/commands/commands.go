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
	"fmt"

	"github.com/spf13/cobra"
	"github.com/thestormforge/tinker/internal/config"
	"github.com/thestormforge/tinker/tinkerapi/experiments/v1alpha1"
	"github.com/thestormforge/tinker/tinkerctl/internal/commander"
	"github.com/thestormforge/tinker/tinkerctl/internal/commands/configure"
	"github.com/thestormforge/tinker/tinkerctl/internal/commands/experiments"
	"github.com/thestormforge/tinker/tinkerctl/internal/commands/generate"
	"github.com/thestormforge/tinker/tinkerctl/internal/commands/version"
)

// NewTinkerctlCommand creates a new top-level tinkerctl command
func NewTinkerctlCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:               "tinkerctl",
		Short:             "Hyperparameter search client",
		DisableAutoGenTag: true,
		SilenceUsage:      true,
	}

	// Create the global configuration and runtime options
	cfg := &config.TinkerConfig{}
	rt := &commander.Runtime{}
	commander.ConfigGlobals(cfg, rootCmd)
	commander.RuntimeGlobals(rt, rootCmd)

	// Experiment Commands
	rootCmd.AddCommand(generate.NewCommand(&generate.Options{Runtime: rt}))
	rootCmd.AddCommand(experiments.NewSubmitCommand(&experiments.SubmitOptions{Options: experiments.Options{Config: cfg, Runtime: rt}}))
	rootCmd.AddCommand(experiments.NewSuggestCommand(&experiments.SuggestOptions{Options: experiments.Options{Config: cfg, Runtime: rt}}))
	rootCmd.AddCommand(experiments.NewReportCommand(&experiments.ReportOptions{Options: experiments.Options{Config: cfg, Runtime: rt}}))

	// Administrative Commands
	rootCmd.AddCommand(configure.NewCommand(&configure.Options{Config: cfg}))
	rootCmd.AddCommand(version.NewCommand(&version.Options{}))

	commander.MapErrors(rootCmd, mapError)
	return rootCmd
}

// mapError intercepts errors returned by commands before they are reported.
func mapError(err error) error {
	if v1alpha1.IsUnauthorized(err) {
		return fmt.Errorf("%w, try running 'tinkerctl config set token TOKEN'", err)
	}

	return err
}
