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
	"net/url"
	"strconv"
	"time"
)

// Properties returns the names accepted by SetProperty
func Properties() []string {
	return []string{"address", "burst", "requestsPerSecond", "timeout", "token"}
}

// SetProperty is a configuration change that updates a single property by name.
func SetProperty(name, value string) Change {
	return func(cfg *Config) error {
		switch name {
		case "address":
			u, err := url.Parse(value)
			if err != nil {
				return err
			}
			if u.Scheme != "http" && u.Scheme != "https" {
				return fmt.Errorf("invalid address %q: scheme must be http or https", value)
			}
			cfg.Address = value
		case "token":
			cfg.Token = value
		case "timeout":
			if _, err := time.ParseDuration(value); err != nil {
				return fmt.Errorf("invalid timeout: %w", err)
			}
			cfg.Timeout = value
		case "requestsPerSecond":
			f, err := strconv.ParseFloat(value, 64)
			if err != nil || f < 0 {
				return fmt.Errorf("invalid requestsPerSecond: %q", value)
			}
			cfg.RequestsPerSecond = f
		case "burst":
			i, err := strconv.Atoi(value)
			if err != nil || i < 0 {
				return fmt.Errorf("invalid burst: %q", value)
			}
			cfg.Burst = i
		default:
			return fmt.Errorf("unknown config property: %s", name)
		}
		return nil
	}
}
