// seehuhn.de/go/fontbatch - batch generation of variable fonts
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Environment variable prefix for fontbatch settings.
const envPrefix = "FONTBATCH"

// Loader reads settings from the environment and a configuration file.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a new configuration loader.
func NewLoader() *Loader {
	v := viper.New()

	def := Default()
	v.SetDefault("output", def.Output)
	v.SetDefault("formats", def.Formats)
	v.SetDefault("variable", def.Variable)
	v.SetDefault("static", def.Static)
	v.SetDefault("suffix", def.Suffix)
	v.SetDefault("staticSuffix", def.StaticSuffix)
	v.SetDefault("subFolders", def.SubFolders)
	v.SetDefault("autohint", def.Autohint)
	v.SetDefault("release", def.Release)
	v.SetDefault("debug", def.Debug)
	v.SetDefault("fitToExtremes", def.FitToExtremes)
	v.SetDefault("tolerance", def.Tolerance)
	v.SetDefault("varlib", def.VarLib)
	v.SetDefault("fontmake", def.Fontmake)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return &Loader{v: v}
}

// Load reads the settings.  If configFile is empty, the default location
// is used.  A missing file is not an error.
func (l *Loader) Load(configFile string) (*Config, error) {
	if configFile == "" {
		var err error
		configFile, err = DefaultFile()
		if err != nil {
			return nil, fmt.Errorf("getting config file path: %w", err)
		}
	}

	l.v.SetConfigFile(configFile)
	l.v.SetConfigType("yaml")
	err := l.v.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if err != nil && !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := &Config{}
	err = l.v.Unmarshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	err = cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", configFile, err)
	}
	return cfg, nil
}

// DefaultFile returns the path of the configuration file.  If
// FONTBATCH_CONFIG is set, it takes precedence.
func DefaultFile() (string, error) {
	if path := os.Getenv(envPrefix + "_CONFIG"); path != "" {
		return path, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "fontbatch", "config.yaml"), nil
}

// WriteDefault stores the default settings at path.  An existing file is
// only replaced if force is set.
func WriteDefault(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file already exists at %s", path)
		}
	}
	err := os.MkdirAll(filepath.Dir(path), 0o755)
	if err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(Default())
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	header := []byte("# fontbatch configuration\n\n")
	return os.WriteFile(path, append(header, data...), 0o644)
}
