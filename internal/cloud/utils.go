// Copyright 2024 Google, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// This file, `utils.go`, loads the configuration.
//
// Logic Flow:
//  1. The directory holding the TOML files comes from PHRASEMAP_CONFIG_PREFIX
//     (empty means the working directory).
//  2. The runtime comes from PHRASEMAP_RUNTIME and defaults to "test".
//  3. `.env.toml` is decoded first, then `.env.<runtime>.toml` on top of it, so
//     the runtime file only needs the keys it overrides. Missing files are skipped.
package cloud

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const (
	ConfigFileBaseName  = ".env"                    // Base name of every configuration file.
	ConfigFileExtension = ".toml"                   // Extension of every configuration file.
	ConfigSeparator     = "."                       // Separates base name and runtime.
	EnvConfigFilePrefix = "PHRASEMAP_CONFIG_PREFIX" // Directory holding the configuration files.
	EnvConfigRuntime    = "PHRASEMAP_RUNTIME"       // Runtime name, e.g. "local", "test", "prod".
	DefaultRuntime      = "test"
)

func fileExists(in string) bool {
	_, err := os.Stat(in)
	return !errors.Is(err, os.ErrNotExist)
}

// ConfigFiles returns the base and runtime configuration file names.
func ConfigFiles() (base, runtime string) {
	prefix := os.Getenv(EnvConfigFilePrefix)
	env := os.Getenv(EnvConfigRuntime)
	if env == "" {
		env = DefaultRuntime
	}
	base = filepath.Join(prefix, ConfigFileBaseName+ConfigFileExtension)
	runtime = filepath.Join(prefix, ConfigFileBaseName+ConfigSeparator+env+ConfigFileExtension)
	return base, runtime
}

// LoadConfig decodes the configuration files into baseConfig, which should
// already hold the defaults (see NewConfig).
//
// Inputs:
//   - baseConfig: A pointer to the struct to populate.
//
// Outputs:
//   - error: A decode error naming the offending file.
func LoadConfig(baseConfig any) error {
	base, runtime := ConfigFiles()
	for _, name := range []string{base, runtime} {
		if !fileExists(name) {
			slog.Debug("configuration file not found", "file", name)
			continue
		}
		if _, err := toml.DecodeFile(name, baseConfig); err != nil {
			return fmt.Errorf("failed to decode configuration file %s: %w", name, err)
		}
		slog.Info("loaded configuration file", "file", name)
	}
	return nil
}
