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

package tools

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/rs/zerolog"

	fserrors "fsgate/internal/errors"
	"fsgate/internal/sandbox"
)

// defaultSampleFilename is used by create_sample_file when the caller
// does not name a target.
const defaultSampleFilename = "sample.txt"

// ops binds the built-in executors to the sandbox policy and limits.
// Every path-bearing operation validates through the policy first and
// then performs all I/O on the normalized path the policy returned,
// never on the raw input.
type ops struct {
	policy *sandbox.Policy
	limits Limits
	logger zerolog.Logger
}

// gatePath runs path validation and, when requested, extension
// validation. Extension checks apply uniformly to every file-content
// operation; directory operations skip them since directories have no
// extension semantics.
func (o *ops) gatePath(raw string, checkExtension bool) (string, error) {
	decision := o.policy.ValidatePath(raw)
	if !decision.Allowed {
		o.logger.Warn().Str("path", raw).Str("reason", decision.Reason).Msg("path denied")
		return "", fserrors.Wrap(fserrors.CodePolicy, "access denied", decision.Err())
	}
	if checkExtension {
		if ext := o.policy.ValidateExtension(decision.Path); !ext.Allowed {
			o.logger.Warn().Str("path", decision.Path).Str("reason", ext.Reason).Msg("extension denied")
			return "", fserrors.Wrap(fserrors.CodePolicy, "access denied", ext.Err())
		}
	}
	return decision.Path, nil
}

func (o *ops) readFile(_ context.Context, args map[string]interface{}) (string, error) {
	resolved, err := o.gatePath(stringArg(args, "filepath"), true)
	if err != nil {
		return "", err
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return "", fserrors.Wrap(fserrors.CodeIO, "failed to read file", err)
	}
	if info.IsDir() {
		return "", fserrors.New(fserrors.CodeIO, fmt.Sprintf("not a file: %s", resolved))
	}
	if info.Size() > o.limits.MaxFileSizeBytes {
		return "", fserrors.New(fserrors.CodeIO,
			fmt.Sprintf("file exceeds maximum size of %d bytes: %s", o.limits.MaxFileSizeBytes, resolved))
	}

	f, err := os.Open(resolved)
	if err != nil {
		return "", fserrors.Wrap(fserrors.CodeIO, "failed to read file", err)
	}
	defer f.Close()
	content, err := io.ReadAll(io.LimitReader(f, o.limits.MaxFileSizeBytes))
	if err != nil {
		return "", fserrors.Wrap(fserrors.CodeIO, "failed to read file", err)
	}

	return fmt.Sprintf("Content of %s:\n\n%s", resolved, string(content)), nil
}

func (o *ops) writeFile(_ context.Context, args map[string]interface{}) (string, error) {
	resolved, err := o.gatePath(stringArg(args, "filepath"), true)
	if err != nil {
		return "", err
	}
	content := stringArg(args, "content")

	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return "", fserrors.Wrap(fserrors.CodeIO, "failed to create parent directories", err)
	}
	if err := os.WriteFile(resolved, []byte(content), 0o644); err != nil {
		return "", fserrors.Wrap(fserrors.CodeIO, "failed to write file", err)
	}

	o.logger.Info().Str("path", resolved).Int("bytes", len(content)).Msg("file written")
	return fmt.Sprintf("Successfully wrote %d bytes to %s", len(content), resolved), nil
}

func (o *ops) listDirectory(_ context.Context, args map[string]interface{}) (string, error) {
	resolved, err := o.gatePath(stringArg(args, "dirpath"), false)
	if err != nil {
		return "", err
	}

	entries, err := os.ReadDir(resolved)
	if err != nil {
		return "", fserrors.Wrap(fserrors.CodeIO, "failed to list directory", err)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Contents of %s (%d entries):\n", resolved, len(entries))
	for i, entry := range entries {
		if i >= o.limits.MaxDirectoryEntries {
			fmt.Fprintf(&sb, "... truncated at %d entries\n", o.limits.MaxDirectoryEntries)
			break
		}
		tag := "[FILE]"
		if entry.IsDir() {
			tag = "[DIR] "
		}
		fmt.Fprintf(&sb, "%s %s\n", tag, entry.Name())
	}
	return sb.String(), nil
}

func (o *ops) createSampleFile(_ context.Context, args map[string]interface{}) (string, error) {
	filename := strings.TrimSpace(stringArg(args, "filename"))
	if filename == "" {
		filename = defaultSampleFilename
	}
	resolved, err := o.gatePath(filename, true)
	if err != nil {
		return "", err
	}

	hostname, _ := os.Hostname()
	wd, _ := os.Getwd()
	content := fmt.Sprintf(`Sample file
===========

Created:           %s
Platform:          %s/%s
Hostname:          %s
Working directory: %s

This file was generated by the create_sample_file tool.
`, time.Now().Format(time.RFC3339), runtime.GOOS, runtime.GOARCH, hostname, wd)

	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return "", fserrors.Wrap(fserrors.CodeIO, "failed to create parent directories", err)
	}
	if err := os.WriteFile(resolved, []byte(content), 0o644); err != nil {
		return "", fserrors.Wrap(fserrors.CodeIO, "failed to create sample file", err)
	}

	o.logger.Info().Str("path", resolved).Msg("sample file created")
	return fmt.Sprintf("Created %s with content:\n\n%s", resolved, content), nil
}

func (o *ops) allowedPaths(_ context.Context, _ map[string]interface{}) (string, error) {
	roots := o.policy.AllowedRoots()
	var sb strings.Builder
	fmt.Fprintf(&sb, "Allowed directories (%d):\n", len(roots))
	for _, root := range roots {
		fmt.Fprintf(&sb, "[DIR]  %s\n", root)
	}
	if exts := o.policy.AllowedExtensions(); len(exts) > 0 {
		fmt.Fprintf(&sb, "Allowed extensions: .%s\n", strings.Join(exts, ", ."))
	}
	return sb.String(), nil
}
