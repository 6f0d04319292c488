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

/*
Package tinker is a client for a remote hyperparameter optimization service.

A search space is described by Variables which are added to an Experiment. Once
submitted, the experiment produces suggested Configurations; the loss observed
for a configuration is sent back using ReportLoss:

	reg := tinker.NewRegistry()
	x, err := tinker.NewVariable(reg, "x", tinker.TypeFloat, tinker.WithRange(-10.0, 10.0))
	...
	exp, err := tinker.NewExperiment("demo", tinker.WithOptimizer(tinker.OptimizerRandom))
	...
	if err := exp.AddVariable(x); err != nil { ... }
	if _, err := exp.Submit(ctx, api); err != nil { ... }

	c, err := exp.NextConfiguration(ctx, 1)
	...
	v, err := c.Float64("x")
	...
	err = c.ReportLoss(ctx, loss)

Variables, experiments and configurations are validated on construction, a
failed construction never returns a usable value. Neither Experiment nor
Configuration may be mutated concurrently; a Registry may be shared.
*/
package tinker
