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
	"fmt"
	"time"
)

const (
	// DefaultAddress is the address of a locally running optimization service
	DefaultAddress = "http://localhost:6060/"
	// DefaultTimeout is the default maximum duration of a single request
	DefaultTimeout = "10s"
)

// defaultLoader fills in any blank values and verifies the effective timeout
func defaultLoader(cfg *TinkerConfig) error {
	defaultString(&cfg.data.Address, DefaultAddress)
	defaultString(&cfg.data.Timeout, DefaultTimeout)

	if _, err := time.ParseDuration(cfg.Effective().Timeout); err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	return nil
}
