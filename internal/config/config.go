// Copyright (C) 2025 Dyne.org foundation
// designed, written and maintained by Denis Roio <jaromil@dyne.org>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	fserrors "fsgate/internal/errors"
)

// Config represents the application configuration.
type Config struct {
	AllowedRoots      []string   `json:"allowed_roots"`
	BlockedRoots      []string   `json:"blocked_roots,omitempty"`
	AllowedExtensions []string   `json:"allowed_extensions,omitempty"`
	ToolLimits        ToolLimits `json:"tool_limits,omitempty"`
	LogFile           string     `json:"log_file,omitempty"`
	Debug             bool       `json:"debug,omitempty"`
}

// ToolLimits configures resource limits for tool execution.
type ToolLimits struct {
	MaxFileSizeBytes    int64 `json:"max_file_size_bytes,omitempty"`
	MaxDirectoryEntries int   `json:"max_directory_entries,omitempty"`
}

// DefaultConfig returns a config with default values: the working
// directory and the temp directory are writable, well-known system
// directories are blocked, and a conservative set of text extensions
// is permitted.
func DefaultConfig() *Config {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}
	return &Config{
		AllowedRoots: []string{cwd, os.TempDir()},
		BlockedRoots: []string{
			"/etc", "/usr", "/bin", "/sbin", "/var", "/boot",
		},
		AllowedExtensions: []string{
			"txt", "md", "json", "csv", "log", "xml", "yaml", "yml",
		},
		ToolLimits: ToolLimits{
			MaxFileSizeBytes:    10 * 1024 * 1024,
			MaxDirectoryEntries: 2000,
		},
	}
}

// LoadConfig loads configuration from a JSON file, applies env
// overrides, and validates. A missing file is not an error; defaults
// plus environment apply.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			if err := json.Unmarshal(data, config); err != nil {
				return nil, fserrors.Wrap(fserrors.CodeConfig, fmt.Sprintf("failed to parse %s", path), err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fserrors.Wrap(fserrors.CodeConfig, fmt.Sprintf("failed to read %s", path), err)
		}
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// applyEnvOverrides applies FSGATE_* environment variables on top of
// the loaded configuration. Root lists use the platform list separator,
// the extension list uses commas.
func applyEnvOverrides(config *Config) {
	if v := os.Getenv("FSGATE_ALLOWED_ROOTS"); v != "" {
		config.AllowedRoots = splitList(v, string(filepath.ListSeparator))
	}
	if v := os.Getenv("FSGATE_BLOCKED_ROOTS"); v != "" {
		config.BlockedRoots = splitList(v, string(filepath.ListSeparator))
	}
	if v := os.Getenv("FSGATE_ALLOWED_EXTENSIONS"); v != "" {
		config.AllowedExtensions = splitList(v, ",")
	}
	if v := os.Getenv("FSGATE_LOG_FILE"); v != "" {
		config.LogFile = v
	}
	if v := os.Getenv("FSGATE_DEBUG"); v != "" {
		config.Debug = v == "1" || strings.EqualFold(v, "true")
	}
}

func splitList(value, sep string) []string {
	var out []string
	for _, item := range strings.Split(value, sep) {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}

// Validate checks the configuration for obvious mistakes before the
// sandbox policy is built from it.
func (c *Config) Validate() error {
	if len(c.AllowedRoots) == 0 {
		return fserrors.New(fserrors.CodeConfig, "at least one allowed root is required")
	}
	for _, root := range c.AllowedRoots {
		if strings.TrimSpace(root) == "" {
			return fserrors.New(fserrors.CodeConfig, "allowed root cannot be empty")
		}
	}
	for _, root := range c.BlockedRoots {
		if strings.TrimSpace(root) == "" {
			return fserrors.New(fserrors.CodeConfig, "blocked root cannot be empty")
		}
	}
	if c.ToolLimits.MaxFileSizeBytes < 0 {
		return fserrors.New(fserrors.CodeConfig, "max_file_size_bytes cannot be negative")
	}
	if c.ToolLimits.MaxDirectoryEntries < 0 {
		return fserrors.New(fserrors.CodeConfig, "max_directory_entries cannot be negative")
	}
	return nil
}
