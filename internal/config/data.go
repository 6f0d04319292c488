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

// Config is the persisted client configuration
type Config struct {
	// Address is the base URL of the optimization service
	Address string `json:"address,omitempty"`
	// Token is an optional bearer token sent with every request
	Token string `json:"token,omitempty"`
	// Timeout is the maximum duration of a single request, e.g. "10s"
	Timeout string `json:"timeout,omitempty"`
	// RequestsPerSecond limits the client request rate, zero means no limit
	RequestsPerSecond float64 `json:"requestsPerSecond,omitempty"`
	// Burst is the number of requests allowed to exceed the rate
	Burst int `json:"burst,omitempty"`
}

// Overrides represent information which can be overridden in the configuration
type Overrides struct {
	// Address overrides the service address
	Address string
	// Token overrides the bearer token
	Token string
	// Timeout overrides the request timeout
	Timeout string
}

func mergeString(s1 *string, s2 string) {
	if s2 != "" {
		*s1 = s2
	}
}

func defaultString(s1 *string, s2 string) {
	if *s1 == "" {
		*s1 = s2
	}
}
