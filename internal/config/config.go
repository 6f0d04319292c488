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

// Package config manages the Tinker client configuration. Values are loaded from
// a configuration file, the environment and built-in defaults; changes made
// through Update are persisted to the configuration file by Write.
package config

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

// Loader is used to initially populate a Tinker configuration
type Loader func(cfg *TinkerConfig) error

// Change is used to apply a configuration change that should be persisted
type Change func(cfg *Config) error

// TinkerConfig is the structure used to manage configuration data
type TinkerConfig struct {
	// Filename is the path to the configuration file; if left blank, it will be populated using XDG base directory conventions on the next Load
	Filename string
	// Overrides to the configuration data, these are never persisted
	Overrides Overrides

	data        Config
	unpersisted []Change
}

// MarshalJSON ensures only the configuration data is marshalled
func (tc *TinkerConfig) MarshalJSON() ([]byte, error) {
	return json.Marshal(tc.data)
}

// Load will populate the client configuration
func (tc *TinkerConfig) Load(extra ...Loader) error {
	var loaders []Loader
	loaders = append(loaders, fileLoader)
	loaders = append(loaders, extra...)
	loaders = append(loaders, envLoader, defaultLoader)
	for i := range loaders {
		if err := loaders[i](tc); err != nil {
			return err
		}
	}
	return nil
}

// Update will make a change to the configuration data that should be persisted on the next call to Write
func (tc *TinkerConfig) Update(change Change) error {
	if err := change(&tc.data); err != nil {
		return err
	}
	tc.unpersisted = append(tc.unpersisted, change)
	return nil
}

// Write all unpersisted changes to disk
func (tc *TinkerConfig) Write() error {
	if tc.Filename == "" || len(tc.unpersisted) == 0 {
		return nil
	}

	f := file{}
	if err := f.read(tc.Filename); err != nil {
		return err
	}

	for i := range tc.unpersisted {
		if err := tc.unpersisted[i](&f.data); err != nil {
			return err
		}
	}

	if err := f.write(tc.Filename); err != nil {
		return err
	}

	tc.unpersisted = nil
	return nil
}

// Merge combines the supplied data with what is already present in this configuration; unlike Update, changes
// will not be persisted on the next write
func (tc *TinkerConfig) Merge(data *Config) {
	mergeString(&tc.data.Address, data.Address)
	mergeString(&tc.data.Token, data.Token)
	mergeString(&tc.data.Timeout, data.Timeout)
	if data.RequestsPerSecond != 0 {
		tc.data.RequestsPerSecond = data.RequestsPerSecond
	}
	if data.Burst != 0 {
		tc.data.Burst = data.Burst
	}
}

// Effective returns a copy of the configuration data with the overrides applied
func (tc *TinkerConfig) Effective() Config {
	c := tc.data
	mergeString(&c.Address, tc.Overrides.Address)
	mergeString(&c.Token, tc.Overrides.Token)
	mergeString(&c.Timeout, tc.Overrides.Timeout)
	return c
}

// Endpoint returns the URL of the named endpoint relative to the configured address
func (tc *TinkerConfig) Endpoint(path string) (*url.URL, error) {
	address := tc.Effective().Address
	u, err := url.Parse(address)
	if err != nil {
		return nil, err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid address %q: scheme must be http or https", address)
	}

	u.Path = strings.TrimSuffix(u.Path, "/") + "/" + strings.TrimPrefix(path, "/")
	return u, nil
}

// Authorize configures the supplied transport with the bearer token, if one is configured
func (tc *TinkerConfig) Authorize(_ context.Context, transport http.RoundTripper) (http.RoundTripper, error) {
	token := tc.Effective().Token
	if token == "" {
		return transport, nil
	}

	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
	return &oauth2.Transport{Source: src, Base: transport}, nil
}

// Timeout returns the maximum duration of a single request
func (tc *TinkerConfig) Timeout() time.Duration {
	d, err := time.ParseDuration(tc.Effective().Timeout)
	if err != nil {
		return 0
	}
	return d
}

// Limiter returns a new client side rate limiter, or nil if requests are not limited
func (tc *TinkerConfig) Limiter() *rate.Limiter {
	if tc.data.RequestsPerSecond <= 0 {
		return nil
	}
	burst := tc.data.Burst
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(tc.data.RequestsPerSecond), burst)
}
