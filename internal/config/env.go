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

import "os"

// envLoader adds environment variable overrides to the configuration, explicit overrides take precedence
func envLoader(cfg *TinkerConfig) error {
	defaultString(&cfg.Overrides.Address, os.Getenv("TINKER_ADDRESS"))
	defaultString(&cfg.Overrides.Token, os.Getenv("TINKER_TOKEN"))
	defaultString(&cfg.Overrides.Timeout, os.Getenv("TINKER_TIMEOUT"))
	return nil
}
