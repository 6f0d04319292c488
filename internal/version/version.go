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

// Package version exposes the build version of the Tinker client. The variables are
// overwritten at build time using the Go linker, e.g.
// `-ldflags "-X github.com/thestormforge/tinker/internal/version.Version=v0.2.0"`.
package version

import "strings"

const defaultVersion = "v0.0.0-source"

var (
	// Version is a "v" prefixed Semver
	Version = defaultVersion
	// BuildMetadata is the Semver build metadata stored independent of the version string
	BuildMetadata = ""
	// GitCommit is a Git commit identifier
	GitCommit = ""
)

// Info represents available version information
type Info struct {
	Version       string `json:"version"`
	BuildMetadata string `json:"build,omitempty"`
	GitCommit     string `json:"gitCommit,omitempty"`
}

// String returns the Semver of the version information, build metadata is only
// included for pre-release versions
func (i *Info) String() string {
	if i.Version == "" {
		return defaultVersion
	}
	if i.BuildMetadata == "" || !strings.Contains(i.Version, "-") {
		return i.Version
	}
	return i.Version + "+" + i.BuildMetadata
}

// GetInfo returns the full version information
func GetInfo() *Info {
	return &Info{
		Version:       Version,
		BuildMetadata: BuildMetadata,
		GitCommit:     GitCommit,
	}
}
