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
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
	"github.com/thestormforge/tinker/pkg/tinker"
	"github.com/thestormforge/tinker/tinkerctl/internal/commander"
)

// ExperimentOptions are the options for generating an experiment definition
type ExperimentOptions struct {
	// Runtime holds the logging options
	Runtime *commander.Runtime
	// Log receives diagnostics from the client library
	Log logr.Logger
	// Printer is used to render the experiment definition
	Printer commander.ResourcePrinter
	// IOStreams are used to access the standard process streams
	commander.IOStreams

	Name      string
	Optimizer string
	Integers  []string
	Floats    []string
	Enums     []string
	Filename  string
}

// NewExperimentCommand creates a command for generating experiment definitions
func NewExperimentCommand(o *ExperimentOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "experiment NAME",
		Short: "Generate an experiment",
		Long:  "Generate an experiment definition from variable declarations",

		Args: cobra.ExactArgs(1),

		Annotations: map[string]string{
			commander.PrinterAllowedFormats: "json,yaml",
		},

		PreRun: func(cmd *cobra.Command, args []string) {
			o.Name = args[0]
			commander.SetStreams(&o.IOStreams, cmd)
			if o.Log == nil {
				o.Log = o.Runtime.Logger(o.ErrOut)
			}
		},
		RunE: commander.WithoutArgsE(o.generate),
	}

	cmd.Flags().StringVar(&o.Optimizer, "optimizer", string(tinker.OptimizerRandom), "The optimizer used to suggest configurations.")
	cmd.Flags().StringArrayVar(&o.Integers, "int", nil, "Add an integer variable, `name=min,max[,step]`.")
	cmd.Flags().StringArrayVar(&o.Floats, "float", nil, "Add a float variable, `name=min,max[,step]`.")
	cmd.Flags().StringArrayVar(&o.Enums, "enum", nil, "Add an enum variable, `name=value1,value2,...`.")
	cmd.Flags().StringVar(&o.Filename, "file", "", "Save the definition to a file instead of printing it.")

	_ = cmd.MarkFlagFilename("file", "json")

	commander.SetPrinter(&o.Printer, cmd)
	return cmd
}

func (o *ExperimentOptions) generate() error {
	exp, err := tinker.NewExperiment(o.Name, tinker.WithLogger(o.Log), tinker.WithOptimizer(tinker.Optimizer(o.Optimizer)))
	if err != nil {
		return err
	}

	vars, err := o.variables()
	if err != nil {
		return err
	}
	if err := exp.AddVariables(vars...); err != nil {
		return err
	}

	if o.Filename != "" {
		return exp.SaveExperiment(o.Filename)
	}
	return o.Printer.PrintObj(exp.Spec(), o.Out)
}

// variables builds every declared variable against a private registry so names are only checked within the experiment
func (o *ExperimentOptions) variables() ([]*tinker.Variable, error) {
	reg := tinker.NewRegistry()
	reg.Log = o.Log

	var vars []*tinker.Variable
	add := func(decls []string, t tinker.VariableType, parse func(string) (interface{}, error)) error {
		for _, decl := range decls {
			name, values, err := splitDeclaration(decl)
			if err != nil {
				return err
			}

			opts, err := variableOptions(t, values, parse)
			if err != nil {
				return fmt.Errorf("variable %q: %w", name, err)
			}

			v, err := tinker.NewVariable(reg, name, t, opts...)
			if err != nil {
				return err
			}
			vars = append(vars, v)
		}
		return nil
	}

	if err := add(o.Integers, tinker.TypeInt, parseInt); err != nil {
		return nil, err
	}
	if err := add(o.Floats, tinker.TypeFloat, parseFloat); err != nil {
		return nil, err
	}
	if err := add(o.Enums, tinker.TypeEnum, parseChoice); err != nil {
		return nil, err
	}

	sort.Slice(vars, func(i, j int) bool { return vars[i].Name() < vars[j].Name() })
	return vars, nil
}

func variableOptions(t tinker.VariableType, values []string, parse func(string) (interface{}, error)) ([]tinker.VariableOption, error) {
	parsed := make([]interface{}, 0, len(values))
	for _, s := range values {
		v, err := parse(s)
		if err != nil {
			return nil, err
		}
		parsed = append(parsed, v)
	}

	if t == tinker.TypeEnum {
		return []tinker.VariableOption{tinker.WithValues(parsed...)}, nil
	}

	switch len(parsed) {
	case 2:
		return []tinker.VariableOption{tinker.WithRange(parsed...)}, nil
	case 3:
		return []tinker.VariableOption{tinker.WithRange(parsed[:2]...), tinker.WithStepSize(parsed[2])}, nil
	}
	return nil, fmt.Errorf("expected min,max[,step] but got %d values", len(parsed))
}

func splitDeclaration(decl string) (string, []string, error) {
	name, values := decl, ""
	if i := strings.Index(decl, "="); i >= 0 {
		name, values = decl[:i], decl[i+1:]
	}
	if name == "" || values == "" {
		return "", nil, fmt.Errorf("invalid variable declaration %q, expected name=values", decl)
	}

	parts := strings.Split(values, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return strings.TrimSpace(name), parts, nil
}

func parseInt(s string) (interface{}, error) {
	return strconv.ParseInt(s, 10, 64)
}

func parseFloat(s string) (interface{}, error) {
	return strconv.ParseFloat(s, 64)
}

// parseChoice keeps numeric and boolean literals typed, everything else is a string
func parseChoice(s string) (interface{}, error) {
	if _, err := strconv.ParseFloat(s, 64); err == nil && json.Valid([]byte(s)) {
		return json.Number(s), nil
	}
	if s == "true" || s == "false" {
		return s == "true", nil
	}
	return s, nil
}
