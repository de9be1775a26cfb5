/*
 * Copyright 2022 The Gremlins Authors
 *
 *    Licensed under the Apache License, Version 2.0 (the "License");
 *    you may not use this file except in compliance with the License.
 *    You may obtain a copy of the License at
 *
 *        http://www.apache.org/licenses/LICENSE-2.0
 *
 *    Unless required by applicable law or agreed to in writing, software
 *    distributed under the License is distributed on an "AS IS" BASIS,
 *    WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 *    See the License for the specific language governing permissions and
 *    limitations under the License.
 */

package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/gambit-sol/gambit/internal/compiler"
	"github.com/gambit-sol/gambit/internal/execution"
	"github.com/gambit-sol/gambit/internal/pipeline"
)

// mutateConfig is the JSON-facing mirror of pipeline.Params. A config
// document is a single object, an array of objects, or a
// mutateConfigFile-wrapped array; all relative paths inside it resolve
// against the config file's own directory.
type mutateConfig struct {
	Filename     string   `json:"filename"`
	SourceRoot   string   `json:"source-root"`
	Outdir       string   `json:"outdir"`
	Operators    []string `json:"operators"`
	Functions    []string `json:"functions"`
	Contract     string   `json:"contract"`
	NumMutants   int      `json:"num-mutants"`
	Seed         int64    `json:"seed"`
	RandomSeed   bool     `json:"random-seed"`
	SkipValidate bool     `json:"skip-validate"`
	Export       bool     `json:"export"`
	Overwrite    bool     `json:"overwrite"`
	Compiler     struct {
		Binary      string   `json:"binary"`
		BasePath    string   `json:"base-path"`
		AllowPaths  []string `json:"allow-paths"`
		IncludePath string   `json:"include-path"`
		Remappings  []string `json:"remappings"`
		Optimize    bool     `json:"optimize"`
	} `json:"compiler"`
}

// mutateConfigFile is the wrapped document shape: a "configurations" array
// alongside the bare array and single-object shapes loadMutateConfigs also
// accepts.
type mutateConfigFile struct {
	Configurations []mutateConfig `json:"configurations"`
}

// loadMutateConfigs reads a JSON configuration document and returns the
// pipeline.Params it describes. It accepts a single object, a bare array of
// objects, or an object wrapping the array under "configurations".
func loadMutateConfigs(path string) ([]pipeline.Params, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, execution.NewExitErr(execution.IOError, err)
	}

	var cfgs []mutateConfig

	var wrapped mutateConfigFile
	switch {
	case json.Unmarshal(data, &wrapped) == nil && wrapped.Configurations != nil:
		cfgs = wrapped.Configurations
	case json.Unmarshal(data, &cfgs) == nil:
		// bare array, cfgs already populated
	default:
		var single mutateConfig
		if err := json.Unmarshal(data, &single); err != nil {
			return nil, execution.NewExitErr(execution.ConfigurationError, err)
		}
		cfgs = []mutateConfig{single}
	}

	base := filepath.Dir(path)
	params := make([]pipeline.Params, 0, len(cfgs))
	for _, c := range cfgs {
		params = append(params, c.toParams(base))
	}

	return params, nil
}

func (c mutateConfig) toParams(base string) pipeline.Params {
	var allowPaths []string
	for _, p := range c.Compiler.AllowPaths {
		allowPaths = append(allowPaths, resolvePath(base, p))
	}

	return pipeline.Params{
		Filename:     resolvePath(base, c.Filename),
		SourceRoot:   resolvePath(base, c.SourceRoot),
		OutputDir:    resolvePath(base, c.Outdir),
		Operators:    c.Operators,
		Functions:    c.Functions,
		Contract:     c.Contract,
		NumMutants:   c.NumMutants,
		Seed:         c.Seed,
		RandomSeed:   c.RandomSeed,
		SkipValidate: c.SkipValidate,
		Export:       c.Export,
		Overwrite:    c.Overwrite,
		Compiler: compiler.Options{
			Binary:      c.Compiler.Binary,
			BasePath:    resolvePath(base, c.Compiler.BasePath),
			AllowPaths:  allowPaths,
			IncludePath: resolvePath(base, c.Compiler.IncludePath),
			Remappings:  c.Compiler.Remappings,
			Optimize:    c.Compiler.Optimize,
		},
	}
}

func resolvePath(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}

	return filepath.Join(base, p)
}
