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
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MakeNowJust/heredoc"
	"github.com/hako/durafmt"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/gambit-sol/gambit/cmd/internal/flags"
	"github.com/gambit-sol/gambit/internal/compiler"
	"github.com/gambit-sol/gambit/internal/configuration"
	"github.com/gambit-sol/gambit/internal/execution"
	"github.com/gambit-sol/gambit/internal/log"
	"github.com/gambit-sol/gambit/internal/operator"
	"github.com/gambit-sol/gambit/internal/pipeline"
)

type mutateCmd struct {
	cmd *cobra.Command
}

const (
	mutateCommandName = "mutate"

	paramFilename     = "filename"
	paramJSON         = "json"
	paramSourceRoot   = "source-root"
	paramOutdir       = "outdir"
	paramOperators    = "operators"
	paramFunctions    = "functions"
	paramContract     = "contract"
	paramNumMutants   = "num-mutants"
	paramSeed         = "seed"
	paramRandomSeed   = "random-seed"
	paramSkipValidate = "skip-validate"
	paramExport       = "export"
	paramOverwrite    = "overwrite"
	paramSolc         = "solc"
	paramBasePath     = "base-path"
	paramAllowPaths   = "allow-paths"
	paramIncludePath  = "include-path"
	paramRemappings   = "remappings"
	paramOptimize     = "optimize"
)

func newMutateCmd(ctx context.Context) (*mutateCmd, error) {
	cmd := &cobra.Command{
		Use:     mutateCommandName,
		Aliases: []string{"m"},
		Args:    cobra.MaximumNArgs(1),
		Short:   "Mutate Solidity contracts",
		Long:    mutateLongExplainer(),
		RunE:    runMutate(ctx),
	}

	if err := setMutateFlags(cmd); err != nil {
		return nil, err
	}

	if err := setOperatorFlags(cmd); err != nil {
		return nil, err
	}

	return &mutateCmd{cmd: cmd}, nil
}

func mutateLongExplainer() string {
	return heredoc.Doc(`
		Mutate applies Solidity mutation operators to a source file and
		writes every surviving mutant under the output directory, together
		with a machine readable gambit_results.json.

		Either --filename or --json must be given, never both. --json
		points to a configuration document holding one MutateParams object,
		an array of them, or a {"configurations": [...]} wrapper; relative
		paths inside it resolve against the configuration file's own
		directory.

		By default every mutant is validated by recompiling it; pass
		--skip-validate to keep every candidate unfiltered, or --num-mutants
		to down-sample to a target count using --seed for a reproducible
		draw.
	`)
}

func runMutate(ctx context.Context) func(cmd *cobra.Command, args []string) error {
	return func(_ *cobra.Command, _ []string) error {
		params, err := buildMutateParams()
		if err != nil {
			return err
		}

		log.Infoln("Starting...")
		start := time.Now()

		if err := pipeline.Run(ctx, params); err != nil {
			return err
		}

		elapsed := durafmt.Parse(time.Since(start)).LimitFirstN(2)
		log.Infof("Done in %s\n", elapsed)

		return nil
	}
}

func buildMutateParams() ([]pipeline.Params, error) {
	filename := configuration.Get[string](configuration.MutateFilenameKey)
	jsonPath := configuration.Get[string](configuration.MutateJSONKey)

	switch {
	case filename != "" && jsonPath != "":
		return nil, execution.NewExitErr(execution.ConfigurationError, errors.New("--filename and --json are mutually exclusive"))
	case jsonPath != "":
		return loadMutateConfigs(jsonPath)
	case filename != "":
		return []pipeline.Params{paramsFromFlags(filename)}, nil
	default:
		return nil, execution.NewExitErr(execution.ConfigurationError, errors.New("one of --filename or --json is required"))
	}
}

func paramsFromFlags(filename string) pipeline.Params {
	return pipeline.Params{
		Filename:     filename,
		SourceRoot:   configuration.Get[string](configuration.MutateSourceRootKey),
		OutputDir:    configuration.Get[string](configuration.MutateOutdirKey),
		Operators:    enabledOperators(),
		Functions:    configuration.Get[[]string](configuration.MutateFunctionsKey),
		Contract:     configuration.Get[string](configuration.MutateContractKey),
		NumMutants:   configuration.Get[int](configuration.MutateNumMutantsKey),
		Seed:         configuration.Get[int64](configuration.MutateSeedKey),
		RandomSeed:   configuration.Get[bool](configuration.MutateRandomSeedKey),
		SkipValidate: configuration.Get[bool](configuration.MutateSkipValidateKey),
		Export:       configuration.Get[bool](configuration.MutateExportKey),
		Overwrite:    configuration.Get[bool](configuration.MutateOverwriteKey),
		Compiler:     compilerOptionsFromFlags(),
	}
}

func setMutateFlags(cmd *cobra.Command) error {
	cmd.Flags().SortFlags = false
	cmd.Flags().SetNormalizeFunc(func(f *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fls := []*flags.Flag{
		{Name: paramFilename, CfgKey: configuration.MutateFilenameKey, DefaultV: "", Usage: "the Solidity file to mutate"},
		{Name: paramJSON, CfgKey: configuration.MutateJSONKey, DefaultV: "", Usage: "a JSON configuration document (mutually exclusive with --filename)"},
		{Name: paramSourceRoot, CfgKey: configuration.MutateSourceRootKey, DefaultV: "", Usage: "the source tree root, for resolving validation copies (defaults to the file's directory)"},
		{Name: paramOutdir, CfgKey: configuration.MutateOutdirKey, DefaultV: "", Usage: "the output directory (defaults to gambit_out)"},
		{Name: paramOperators, CfgKey: configuration.MutateOperatorsKey, DefaultV: []string(nil), Usage: "a comma-separated allowlist of operator short names (defaults to all)"},
		{Name: paramFunctions, CfgKey: configuration.MutateFunctionsKey, DefaultV: []string(nil), Usage: "restrict mutation to these function names"},
		{Name: paramContract, CfgKey: configuration.MutateContractKey, DefaultV: "", Usage: "restrict mutation to this contract's body"},
		{Name: paramNumMutants, CfgKey: configuration.MutateNumMutantsKey, DefaultV: 0, Usage: "down-sample to this many valid mutants"},
		{Name: paramSeed, CfgKey: configuration.MutateSeedKey, DefaultV: int64(0), Usage: "the seed driving the down-sample shuffle"},
		{Name: paramRandomSeed, CfgKey: configuration.MutateRandomSeedKey, DefaultV: false, Usage: "draw a fresh seed instead of --seed"},
		{Name: paramSkipValidate, CfgKey: configuration.MutateSkipValidateKey, DefaultV: false, Usage: "keep every generated mutant without validating it"},
		{Name: paramExport, CfgKey: configuration.MutateExportKey, DefaultV: false, Usage: "write each surviving mutant's source under the output directory"},
		{Name: paramOverwrite, CfgKey: configuration.MutateOverwriteKey, DefaultV: false, Usage: "remove a pre-existing output directory"},
		{Name: paramSolc, CfgKey: configuration.MutateSolcKey, DefaultV: "", Usage: "the compiler binary to invoke (defaults to solc)"},
		{Name: paramBasePath, CfgKey: configuration.MutateBasePathKey, DefaultV: "", Usage: "the compiler's --base-path"},
		{Name: paramAllowPaths, CfgKey: configuration.MutateAllowPathsKey, DefaultV: []string(nil), Usage: "the compiler's --allow-paths entries"},
		{Name: paramIncludePath, CfgKey: configuration.MutateIncludePathKey, DefaultV: "", Usage: "the compiler's --include-path"},
		{Name: paramRemappings, CfgKey: configuration.MutateRemappingsKey, DefaultV: []string(nil), Usage: "import remappings, forwarded verbatim"},
		{Name: paramOptimize, CfgKey: configuration.MutateOptimizeKey, DefaultV: false, Usage: "pass --optimize to the compiler"},
	}

	for _, f := range fls {
		if err := flags.Set(cmd, f); err != nil {
			return err
		}
	}

	return nil
}

// enabledOperators resolves the --operators allowlist (or, if empty, the
// full default catalog) down to the operators whose per-operator enabled
// flag is still set.
func enabledOperators() []string {
	names := configuration.Get[[]string](configuration.MutateOperatorsKey)
	if len(names) == 0 {
		for _, op := range operator.Default() {
			names = append(names, op.ShortName())
		}
	}

	var out []string
	for _, name := range names {
		if configuration.IsOperatorEnabled(name) {
			out = append(out, name)
		}
	}

	return out
}

// setOperatorFlags registers one --<operator>-enabled flag per catalog
// operator, each bound to configuration.OperatorEnabledKey and defaulting
// to enabled, the way the teacher's setMutantTypeFlags does for its own
// mutant types.
func setOperatorFlags(cmd *cobra.Command) error {
	for _, op := range operator.Default() {
		name := strings.ToLower(op.ShortName())
		param := fmt.Sprintf("%s-enabled", name)
		usage := fmt.Sprintf("enable the %q operator", op.ShortName())

		f := &flags.Flag{
			Name:     param,
			CfgKey:   configuration.OperatorEnabledKey(op.ShortName()),
			DefaultV: true,
			Usage:    usage,
		}
		if err := flags.Set(cmd, f); err != nil {
			return err
		}
	}

	return nil
}

func compilerOptionsFromFlags() compiler.Options {
	return compiler.Options{
		Binary:      configuration.Get[string](configuration.MutateSolcKey),
		BasePath:    configuration.Get[string](configuration.MutateBasePathKey),
		AllowPaths:  configuration.Get[[]string](configuration.MutateAllowPathsKey),
		IncludePath: configuration.Get[string](configuration.MutateIncludePathKey),
		Remappings:  configuration.Get[[]string](configuration.MutateRemappingsKey),
		Optimize:    configuration.Get[bool](configuration.MutateOptimizeKey),
	}
}
