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

package config

import (
	"os"
	"path/filepath"

	"sigs.k8s.io/yaml"
)

const (
	// https://specifications.freedesktop.org/basedir-spec/basedir-spec-latest.html

	homeEnv              = "HOME"
	xdgConfigHomeEnv     = "XDG_CONFIG_HOME"
	xdgConfigHomeDefault = ".config"
	configFilename       = "tinker/config"
)

// fileLoader loads a configuration from the currently configured filename
func fileLoader(cfg *TinkerConfig) error {
	if cfg.Filename == "" {
		cfg.Filename = defaultFilename()
	}

	f := &file{}
	if err := f.read(cfg.Filename); err != nil {
		return err
	}

	cfg.Merge(&f.data)
	return nil
}

// file represents the data of a configuration file
type file struct {
	data Config
}

// read will decode YAML or JSON data from the specified file, a missing file is empty
func (l *file) read(filename string) error {
	b, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return yaml.Unmarshal(b, &l.data)
}

// write will encode YAML data from this configuration into the specified file name
func (l *file) write(filename string) error {
	output, err := yaml.Marshal(l.data)
	if err != nil {
		return err
	}

	// The XDG Base Dir Spec says directories should be created with 0700, the
	// file may contain a token so it is only readable by the owner
	if err := os.MkdirAll(filepath.Dir(filename), 0700); err != nil {
		return err
	}
	return os.WriteFile(filename, output, 0600)
}

func defaultFilename() string {
	xdgConfigHome := os.Getenv(xdgConfigHomeEnv)
	if xdgConfigHome == "" {
		home := os.Getenv(homeEnv)
		if home == "" {
			home, _ = os.UserHomeDir()
		}
		xdgConfigHome = filepath.Join(home, xdgConfigHomeDefault)
	}
	return filepath.Join(xdgConfigHome, configFilename)
}
