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

// Package configuration wraps Viper to provide gambit's layered
// configuration: command flags, environment variables and a .gambit.yaml
// file, in that order of precedence.
package configuration

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// This is the list of the keys available in config files and as flags.
const (
	GambitSilentKey = "silent"

	MutateFilenameKey      = "mutate.filename"
	MutateJSONKey          = "mutate.json"
	MutateSourceRootKey    = "mutate.source-root"
	MutateOutdirKey        = "mutate.outdir"
	MutateOperatorsKey     = "mutate.operators"
	MutateFunctionsKey     = "mutate.functions"
	MutateContractKey      = "mutate.contract"
	MutateNumMutantsKey    = "mutate.num-mutants"
	MutateSeedKey          = "mutate.seed"
	MutateRandomSeedKey    = "mutate.random-seed"
	MutateSkipValidateKey  = "mutate.skip-validate"
	MutateExportKey        = "mutate.export"
	MutateOverwriteKey     = "mutate.overwrite"
	MutateSolcKey          = "mutate.solc"
	MutateBasePathKey      = "mutate.base-path"
	MutateAllowPathsKey    = "mutate.allow-paths"
	MutateIncludePathKey   = "mutate.include-path"
	MutateRemappingsKey    = "mutate.remappings"
	MutateOptimizeKey      = "mutate.optimize"
	SummaryDirectoryKey    = "summary.directory"
	SummaryMutantIDsKey    = "summary.mids"
)

const (
	gambitCfgName      = ".gambit"
	gambitEnvVarPrefix = "GAMBIT"

	xdgConfigHomeKey = "XDG_CONFIG_HOME"

	windowsOs = "windows"
)

// Init initializes the viper configuration for gambit.
//
// It sets the configuration file name as .gambit.yaml, adds the passed
// paths as ConfigPaths and enables AutomaticEnv with GAMBIT as prefix. The
// environment variables take precedence over the configuration file and
// must be set in the format:
//
//	GAMBIT_<SECTION>_<FLAG NAME>
func Init(cPaths []string) error {
	replacer := strings.NewReplacer(".", "_", "-", "_")
	viper.SetEnvKeyReplacer(replacer)
	viper.SetEnvPrefix(gambitEnvVarPrefix)
	viper.AutomaticEnv()
	viper.SetConfigName(gambitCfgName)
	viper.SetConfigType("yaml")

	if isSpecificFile(cPaths) {
		viper.SetConfigFile(cPaths[0])
		if err := viper.ReadInConfig(); err != nil {
			return err
		}
	} else if arePathsNotSet(cPaths) {
		cPaths = defaultConfigPaths()
	}

	for _, p := range cPaths {
		viper.AddConfigPath(p)
	}

	_ = viper.ReadInConfig() // ignoring error if file not present

	return nil
}

// OperatorEnabledKey returns the configuration key controlling whether a
// named mutation operator is enabled, e.g. "mutants.binaryopmutation.enabled".
func OperatorEnabledKey(shortName string) string {
	k := strings.ToLower(shortName)

	return fmt.Sprintf("mutants.%s.enabled", k)
}

// IsOperatorEnabled reports whether the named operator is enabled: it is
// false only when the operator's key is explicitly set to false. An
// operator with no explicit key (the common case, outside the mutate
// command's own flags) is enabled.
func IsOperatorEnabled(shortName string) bool {
	mutex.RLock()
	defer mutex.RUnlock()

	k := OperatorEnabledKey(shortName)
	if !viper.IsSet(k) {
		return true
	}

	return viper.GetBool(k)
}

func isSpecificFile(cPaths []string) bool {
	return len(cPaths) == 1 && filepath.Ext(cPaths[0]) != ""
}

func arePathsNotSet(cPaths []string) bool {
	return len(cPaths) == 0 || len(cPaths) == 1 && cPaths[0] == ""
}

func defaultConfigPaths() []string {
	result := make([]string, 0, 4)

	if runtime.GOOS != windowsOs {
		result = append(result, "/etc/gambit")
	}

	xchLocation, _ := homedir.Expand("~/.config")
	if x := os.Getenv(xdgConfigHomeKey); x != "" {
		xchLocation = x
	}
	xchLocation = filepath.Join(xchLocation, "gambit")
	result = append(result, xchLocation)

	homeLocation, err := homedir.Expand("~/.gambit")
	if err == nil {
		result = append(result, homeLocation)
	}

	result = append(result, ".")

	return result
}

var mutex sync.RWMutex

// Set offers synchronised access to Viper.
func Set[T any](k string, v T) {
	mutex.Lock()
	defer mutex.Unlock()
	viper.Set(k, v)
}

// Get offers synchronised access to Viper.
func Get[T any](k string) T {
	var r T
	mutex.RLock()
	defer mutex.RUnlock()
	r, _ = viper.Get(k).(T)

	return r
}

// Reset is used mainly for testing purposes, in order to clean up the Viper
// instance.
func Reset() {
	mutex.Lock()
	defer mutex.Unlock()
	viper.Reset()
}
