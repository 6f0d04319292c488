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

package commander

import (
	"context"
	"io"
	"os"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
	"github.com/thestormforge/tinker/internal/config"
	"github.com/thestormforge/tinker/tinkerapi"
	"github.com/thestormforge/tinker/tinkerapi/experiments/v1alpha1"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// IOStreams allows individual commands access to standard process streams (or their overrides).
type IOStreams struct {
	// In is used to access the standard input stream (or it's override)
	In io.Reader
	// Out is used to access the standard output stream (or it's override)
	Out io.Writer
	// ErrOut is used to access the standard error output stream (or it's override)
	ErrOut io.Writer
}

// SetStreams updates the streams using the supplied command
func SetStreams(streams *IOStreams, cmd *cobra.Command) {
	streams.Out = cmd.OutOrStdout()
	streams.ErrOut = cmd.ErrOrStderr()
	streams.In = cmd.InOrStdin()
}

// StreamsPreRun is intended to be used as a pre-run function for commands when no other action is required
func StreamsPreRun(streams *IOStreams) func(cmd *cobra.Command, args []string) {
	return func(cmd *cobra.Command, args []string) {
		SetStreams(streams, cmd)
	}
}

// NewExperimentsAPI creates a new experiments API interface from the supplied configuration
func NewExperimentsAPI(ctx context.Context, cfg tinkerapi.Config) (v1alpha1.API, error) {
	c, err := tinkerapi.NewClient(ctx, cfg, nil)
	if err != nil {
		return nil, err
	}

	return v1alpha1.NewAPI(c), nil
}

// Runtime holds the process wide options that are not part of the persisted configuration
type Runtime struct {
	// Verbosity is the log level, zero only includes informational messages
	Verbosity int
	// MetricsFile is where the client request metrics are written when the command completes
	MetricsFile string
}

// ConfigGlobals sets up persistent globals for the supplied configuration
func ConfigGlobals(cfg *config.TinkerConfig, cmd *cobra.Command) {
	// Make sure we get the root to make these globals
	root := cmd.Root()

	// Create the configuration options on top of environment variable overrides
	root.PersistentFlags().StringVar(&cfg.Filename, "tinkerconfig", cfg.Filename, "Path to the tinkerconfig file to use.")
	root.PersistentFlags().StringVar(&cfg.Overrides.Address, "address", "", "The address of the optimization service.")

	_ = root.MarkPersistentFlagFilename("tinkerconfig")

	// Set the persistent pre-run on the root, individual commands can bypass this by supplying their own persistent pre-run
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error { return cfg.Load() }
}

// RuntimeGlobals sets up the persistent logging and metrics globals
func RuntimeGlobals(rt *Runtime, cmd *cobra.Command) {
	root := cmd.Root()

	root.PersistentFlags().IntVarP(&rt.Verbosity, "verbosity", "v", rt.Verbosity, "Log verbosity, higher values include more detail.")
	root.PersistentFlags().StringVar(&rt.MetricsFile, "metrics-file", rt.MetricsFile, "Write client request metrics to `file` on exit.")

	_ = root.MarkPersistentFlagFilename("metrics-file")

	root.PersistentPostRunE = func(*cobra.Command, []string) error {
		if rt.MetricsFile == "" {
			return nil
		}
		return rt.writeMetricsFile()
	}
}

// Logger returns a new logger writing to the supplied stream; a nil runtime logs at the default level
func (rt *Runtime) Logger(w io.Writer) logr.Logger {
	lvl := 0
	if rt != nil && rt.Verbosity > 0 {
		lvl = rt.Verbosity
	}
	if lvl > 127 {
		lvl = 127
	}

	enc := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	core := zapcore.NewCore(enc, zapcore.AddSync(w), zap.NewAtomicLevelAt(zapcore.Level(-lvl)))
	return zapr.NewLogger(zap.New(core))
}

func (rt *Runtime) writeMetricsFile() error {
	f, err := os.Create(rt.MetricsFile)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	tinkerapi.MustRegister(reg)
	if err := WriteMetrics(f, reg); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// WriteMetrics writes everything collected by the supplied gatherer using the text exposition format
func WriteMetrics(w io.Writer, g prometheus.Gatherer) error {
	mfs, err := g.Gather()
	if err != nil {
		return err
	}

	enc := expfmt.NewEncoder(w, expfmt.FmtText)
	for _, mf := range mfs {
		if err := enc.Encode(mf); err != nil {
			return err
		}
	}
	return nil
}

// SetPrinter assigns the resource printer during the pre-run of the supplied command
func SetPrinter(printer *ResourcePrinter, cmd *cobra.Command) {
	pf := newPrintFlags(cmd.Annotations)
	pf.addFlags(cmd.Flags())
	AddPreRunE(cmd, func(*cobra.Command, []string) error {
		return pf.toPrinter(printer)
	})
}

// WithContextE wraps a function that accepts a context in one that accepts a command and argument slice
func WithContextE(runE func(context.Context) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error { return runE(cmd.Context()) }
}

// WithoutArgsE wraps a no-argument function in one that accepts a command and argument slice
func WithoutArgsE(runE func() error) func(*cobra.Command, []string) error {
	return func(*cobra.Command, []string) error { return runE() }
}

// AddPreRunE adds an error returning pre-run function to the supplied command, existing pre-run actions will run AFTER
// the supplied function, and only if the supplied pre-run function does not return an error
func AddPreRunE(cmd *cobra.Command, preRunE func(*cobra.Command, []string) error) {
	// Nothing set yet, just add it
	if cmd.PreRunE == nil && cmd.PreRun == nil {
		cmd.PreRunE = preRunE
		return
	}

	// Capture the existing function
	oldPreRunE := cmd.PreRunE
	oldPreRun := cmd.PreRun

	// Redefine the pre-run
	cmd.PreRun = nil
	cmd.PreRunE = func(cmd *cobra.Command, args []string) error {
		if err := preRunE(cmd, args); err != nil {
			return err
		}
		if oldPreRunE != nil {
			return oldPreRunE(cmd, args)
		}
		if oldPreRun != nil {
			oldPreRun(cmd, args)
		}
		return nil
	}
}

// MapErrors wraps every error returning function in the command tree so errors pass through the supplied mapping
// before they are reported.
func MapErrors(cmd *cobra.Command, f func(error) error) {
	wrapE := func(runE func(*cobra.Command, []string) error) func(*cobra.Command, []string) error {
		if runE == nil {
			return nil
		}
		return func(cmd *cobra.Command, args []string) error {
			if err := runE(cmd, args); err != nil {
				return f(err)
			}
			return nil
		}
	}

	cmd.PersistentPreRunE = wrapE(cmd.PersistentPreRunE)
	cmd.PreRunE = wrapE(cmd.PreRunE)
	cmd.RunE = wrapE(cmd.RunE)
	cmd.PostRunE = wrapE(cmd.PostRunE)
	cmd.PersistentPostRunE = wrapE(cmd.PersistentPostRunE)

	for _, c := range cmd.Commands() {
		MapErrors(c, f)
	}
}
