/*
Copyright 2011-2024 Frederic Langlet
Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
you may obtain a copy of the License at

                http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package config reads the CLI's optional YAML defaults file. Everything
// in it can also be set on the command line; flags always win over the
// file, and the file's zero value for a field means "not set" rather than
// "set to zero", so a present-but-empty config never silently overrides a
// flag with a bogus default.
package config

import (
	"fmt"
	"os"

	yaml "go.yaml.in/yaml/v2"
)

// File is the shape of an --config FILE.yaml document. All fields are
// pointers so an absent key is distinguishable from an explicit zero.
type File struct {
	MaxChain       *int  `yaml:"max_chain"`
	LazyMatching   *bool `yaml:"lazy_matching"`
	DefaultVerbose *int  `yaml:"verbosity"`
}

// Load reads and parses path. It returns an error if the file is missing,
// can't be read, or doesn't parse as the expected shape.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	var f File

	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}

	return &f, nil
}
