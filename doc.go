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

/*
Gambit is a mutation testing tool for Solidity contracts.
It mutates a single source file at a time, using the Solidity compiler to
tell a well-formed mutant from a broken one, and writes every surviving
mutant plus a machine readable report to an output directory.

Usage

To mutate a single file:

	$ gambit mutate --filename contracts/Token.sol

To mutate several files in one invocation, or to pin per-file options, pass
a JSON configuration document instead:

	$ gambit mutate --json gambit.json

Down-sampling to a fixed number of mutants, with a reproducible seed:

	$ gambit mutate --filename contracts/Token.sol --num-mutants 10 --seed 42

Validation recompiles every candidate by default; skip it to keep every
generated mutant, valid or not:

	$ gambit mutate --filename contracts/Token.sol --skip-validate

Once a run has written its gambit_results.json, print a readable summary:

	$ gambit summary gambit_out
	$ gambit summary gambit_out --mids 1,4,7

Configuration

Gambit uses Viper (https://github.com/spf13/viper) for configuration.

Options can be set in the following ways, each taking precedence over the
ones below it:

  - specific command flags
  - environment variables
  - configuration file

Environment variables follow:

	GAMBIT_<COMMAND NAME>_<FLAG NAME>

in which every dash in the option name must be replaced with an underscore.

Example:

	$ GAMBIT_MUTATE_SKIP_VALIDATE=true gambit mutate --filename contracts/Token.sol

The configuration file must be named

	.gambit.yaml

and must be in the following format:

	mutate:
	  skip-validate: false
	  operators: [BinaryOpMutation, RequireMutation]

and can be placed in one of the following folders (in order):

  - /etc/gambit (not on Windows)
  - $XDG_CONFIG_HOME/gambit (or $HOME/.config/gambit when unset)
  - $HOME/.gambit
  - the current folder
*/
package gambit
