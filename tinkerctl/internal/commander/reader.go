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

package commander

import (
	"fmt"
	"io"
	"os"
)

// ReadFile returns the contents of the named file; "-" reads the supplied input stream instead.
func ReadFile(filename string, in io.Reader) ([]byte, error) {
	if filename == "" {
		return nil, fmt.Errorf("a file name is required")
	}

	if filename == "-" {
		if in == nil {
			in = os.Stdin
		}
		return io.ReadAll(in)
	}

	return os.ReadFile(filename)
}
