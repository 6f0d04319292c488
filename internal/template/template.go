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

package template

import (
	"bytes"
	"text/template"
)

// SuggestionData represents a suggested configuration during template evaluation
type SuggestionData struct {
	// The experiment identifier the suggestion was requested for
	ExperimentID string
	// The evaluation identifier assigned by the service
	EvalID string
	// The assigned values keyed by variable name
	Values map[string]interface{}
}

// Engine is used to render Go text templates
type Engine struct {
	FuncMap template.FuncMap
}

// New creates a new template engine
func New() *Engine {
	return &Engine{
		FuncMap: FuncMap(),
	}
}

// RenderSuggestion returns the rendered text of a template evaluated against a suggestion
func (e *Engine) RenderSuggestion(text string, data *SuggestionData) (string, error) {
	b, err := e.render("suggestion", text, data)
	if err != nil {
		return "", err
	}
	return b.String(), nil
}

// Render returns the rendered text of a template evaluated against arbitrary data
func (e *Engine) Render(text string, data interface{}) (string, error) {
	b, err := e.render("object", text, data)
	if err != nil {
		return "", err
	}
	return b.String(), nil
}

func (e *Engine) render(name, text string, data interface{}) (*bytes.Buffer, error) {
	tmpl, err := template.New(name).Funcs(e.FuncMap).Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, err
	}

	b := &bytes.Buffer{}
	if err = tmpl.Execute(b, data); err != nil {
		return nil, err
	}
	return b, nil
}
