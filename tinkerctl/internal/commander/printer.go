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
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/pflag"
	"github.com/thestormforge/tinker/internal/template"
	"sigs.k8s.io/yaml"
)

const (
	// PrinterAllowedFormats is the annotation used to restrict the output formats of a command
	PrinterAllowedFormats = "tinker.io/printer-allowed-formats"
	// PrinterOutputFormat is the annotation used to change the default output format of a command
	PrinterOutputFormat = "tinker.io/printer-output-format"
)

// ResourcePrinter formats an object to a byte stream
type ResourcePrinter interface {
	// PrintObj formats the specified object to the specified writer
	PrintObj(interface{}, io.Writer) error
}

// NoPrinterError is an error occurring when no suitable printer is available
type NoPrinterError struct {
	// OutputFormat is the requested output format
	OutputFormat string
	// AllowedFormats are the available output formats
	AllowedFormats []string
}

// Error returns a useful message for a "no printer" error
func (e NoPrinterError) Error() string {
	sort.Strings(e.AllowedFormats)
	return fmt.Sprintf("no printer for %s, allowed formats are: %s", e.OutputFormat, strings.Join(e.AllowedFormats, ","))
}

// NewPrinter returns a printer for one of the marshalling formats
func NewPrinter(outputFormat string, printer *ResourcePrinter) error {
	pf := &printFlags{OutputFormat: outputFormat, allowed: []string{"json", "yaml"}}
	return pf.toPrinter(printer)
}

// printFlags are the options for creating a printer
type printFlags struct {
	// OutputFormat determines what type of printer should be created
	OutputFormat string
	// Template is the Go template text used by the "go-template" format
	Template string

	allowed []string
}

func newPrintFlags(annotations map[string]string) *printFlags {
	pf := &printFlags{
		OutputFormat: "json",
		allowed:      []string{"json", "yaml", "go-template"},
	}
	if f, ok := annotations[PrinterOutputFormat]; ok {
		pf.OutputFormat = f
	}
	if f, ok := annotations[PrinterAllowedFormats]; ok {
		pf.allowed = strings.Split(f, ",")
	}
	return pf
}

func (f *printFlags) allowsFormat(format string) bool {
	for _, a := range f.allowed {
		if a == format {
			return true
		}
	}
	return false
}

// addFlags adds command line flags for configuring the printer
func (f *printFlags) addFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&f.OutputFormat, "output", "o", f.OutputFormat, fmt.Sprintf("Output format. One of: %s", strings.Join(f.allowed, "|")))
	if f.allowsFormat("go-template") {
		fs.StringVar(&f.Template, "template", "", "Template string to use when the output format is go-template.")
	}
}

// toPrinter generates a new printer
func (f *printFlags) toPrinter(printer *ResourcePrinter) error {
	outputFormat := strings.ToLower(f.OutputFormat)

	// An explicit template implies the template format
	if f.Template != "" && outputFormat == "json" {
		outputFormat = "go-template"
	}

	if !f.allowsFormat(outputFormat) {
		return NoPrinterError{OutputFormat: f.OutputFormat, AllowedFormats: f.allowed}
	}

	switch outputFormat {
	case "json", "yaml":
		*printer = &marshalPrinter{format: outputFormat}
		return nil
	case "go-template":
		if f.Template == "" {
			return fmt.Errorf("go-template output requires --template")
		}
		*printer = &templatePrinter{engine: template.New(), text: f.Template}
		return nil
	}
	return NoPrinterError{OutputFormat: f.OutputFormat, AllowedFormats: f.allowed}
}

// marshalPrinter is a printer that generates output using some type of generic encoding (e.g. JSON)
type marshalPrinter struct {
	// Format is the name of the marshaller to use, JSON will be used if it is unrecognized
	format string
}

// PrintObj will marshal the supplied object
func (p *marshalPrinter) PrintObj(obj interface{}, w io.Writer) error {
	if strings.ToLower(p.format) == "yaml" {
		output, err := yaml.Marshal(obj)
		if err != nil {
			return err
		}
		_, err = w.Write(output)
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	return enc.Encode(obj)
}

// templatePrinter renders objects through a Go template
type templatePrinter struct {
	engine *template.Engine
	text   string
}

// suggestionObject is implemented by objects exposing the suggestion model to templates
type suggestionObject interface {
	SuggestionData() *template.SuggestionData
}

// PrintObj executes the template, suggestions get their own data model
func (p *templatePrinter) PrintObj(obj interface{}, w io.Writer) error {
	if so, ok := obj.(suggestionObject); ok {
		obj = so.SuggestionData()
	}

	var out string
	var err error
	if sd, ok := obj.(*template.SuggestionData); ok {
		out, err = p.engine.RenderSuggestion(p.text, sd)
	} else {
		out, err = p.engine.Render(p.text, obj)
	}
	if err != nil {
		return err
	}

	_, err = io.WriteString(w, out)
	return err
}
