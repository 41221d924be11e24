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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoaderLoad(t *testing.T) {
	t.Run("loads config from file", func(t *testing.T) {
		configFile := filepath.Join(t.TempDir(), "config.yaml")
		content := `
output: /tmp/fonts
formats: [otf, ttf-woff]
suffix: ""
static: true
variable: false
staticSuffix: -Static
subFolders: false
autohint: true
fitToExtremes: true
tolerance: 0.5
varlib: [python3, -m, fontTools.varLib]
`
		require.NoError(t, os.WriteFile(configFile, []byte(content), 0o644))

		cfg, err := NewLoader().Load(configFile)

		require.NoError(t, err)
		assert.Equal(t, "/tmp/fonts", cfg.Output)
		assert.Equal(t, []string{"otf", "ttf-woff"}, cfg.Formats)
		assert.Empty(t, cfg.Suffix)
		assert.True(t, cfg.Static)
		assert.False(t, cfg.Variable)
		assert.Equal(t, "-Static", cfg.StaticSuffix)
		assert.False(t, cfg.SubFolders)
		assert.True(t, cfg.Autohint)
		assert.True(t, cfg.FitToExtremes)
		assert.Equal(t, 0.5, cfg.Tolerance)
		assert.Equal(t, []string{"python3", "-m", "fontTools.varLib"}, cfg.VarLib)
		assert.Equal(t, []string{"fontmake"}, cfg.Fontmake)
	})

	t.Run("returns defaults for missing file", func(t *testing.T) {
		configFile := filepath.Join(t.TempDir(), "nonexistent.yaml")

		cfg, err := NewLoader().Load(configFile)

		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("env vars override file values", func(t *testing.T) {
		t.Setenv("FONTBATCH_SUFFIX", "-Variable")
		t.Setenv("FONTBATCH_RELEASE", "true")

		configFile := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(configFile, []byte("suffix: -VAR\n"), 0o644))

		cfg, err := NewLoader().Load(configFile)

		require.NoError(t, err)
		assert.Equal(t, "-Variable", cfg.Suffix)
		assert.True(t, cfg.Release)
	})

	t.Run("rejects unknown formats", func(t *testing.T) {
		configFile := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(configFile, []byte("formats: [pdf]\n"), 0o644))

		_, err := NewLoader().Load(configFile)

		assert.Error(t, err)
	})

	t.Run("rejects invalid yaml", func(t *testing.T) {
		configFile := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(configFile, []byte("formats: [otf\n"), 0o644))

		_, err := NewLoader().Load(configFile)

		assert.Error(t, err)
	})
}

func TestDefaultFile(t *testing.T) {
	t.Setenv("FONTBATCH_CONFIG", "/etc/fontbatch.yaml")

	path, err := DefaultFile()

	require.NoError(t, err)
	assert.Equal(t, "/etc/fontbatch.yaml", path)
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")

	require.NoError(t, WriteDefault(path, false))
	assert.Error(t, WriteDefault(path, false), "existing file must not be replaced")
	require.NoError(t, WriteDefault(path, true))

	cfg, err := NewLoader().Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}
