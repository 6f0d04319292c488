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

package experiments

import (
	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
	"github.com/thestormforge/tinker/tinkerapi"
	"github.com/thestormforge/tinker/tinkerapi/experiments/v1alpha1"
	"github.com/thestormforge/tinker/tinkerctl/internal/commander"
)

// Options are the common options for interacting with the optimization service
type Options struct {
	// Config is the Tinker client configuration
	Config tinkerapi.Config
	// Runtime holds the logging options
	Runtime *commander.Runtime
	// ExperimentsAPI is used to interact with the optimization service
	ExperimentsAPI v1alpha1.API
	// Log receives diagnostics from the client library
	Log logr.Logger
	// IOStreams are used to access the standard process streams
	commander.IOStreams
}

// complete fills in anything not explicitly configured
func (o *Options) complete(cmd *cobra.Command) error {
	commander.SetStreams(&o.IOStreams, cmd)

	if o.Log == nil {
		o.Log = o.Runtime.Logger(o.ErrOut)
	}

	if o.ExperimentsAPI == nil {
		api, err := commander.NewExperimentsAPI(cmd.Context(), o.Config)
		if err != nil {
			return err
		}
		o.ExperimentsAPI = api
	}

	return nil
}
