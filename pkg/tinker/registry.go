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

package tinker

import (
	"sort"
	"sync"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
)

// DefaultRegistry is shared by every caller that does not supply a registry, names are
// reserved in it for the lifetime of the process.
var DefaultRegistry = NewRegistry()

// Registry is a set of variable names, a name can be used by at most one variable.
// A registry is safe for concurrent use.
type Registry struct {
	// Log receives diagnostics for rejected variables
	Log logr.Logger

	mu    sync.Mutex
	names map[string]struct{}
}

// NewRegistry returns an empty registry
func NewRegistry() *Registry {
	return &Registry{
		Log:   nopLogger(),
		names: make(map[string]struct{}),
	}
}

// Contains checks if the name is reserved
func (r *Registry) Contains(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.names[name]
	return ok
}

// Names returns the sorted reserved names
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.names))
	for name := range r.names {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of reserved names
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.names)
}

// reserve adds the name, returning false if it was already present
func (r *Registry) reserve(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.names == nil {
		r.names = make(map[string]struct{})
	}
	if _, ok := r.names[name]; ok {
		return false
	}
	r.names[name] = struct{}{}
	return true
}

func (r *Registry) logger() logr.Logger {
	if r.Log == nil {
		return nopLogger()
	}
	return r.Log
}

func nopLogger() logr.Logger {
	return zapr.NewLogger(zap.NewNop())
}
