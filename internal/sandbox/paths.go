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

package sandbox

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// maxPathLen bounds raw path input before any resolution happens.
const maxPathLen = 4096

// screenPathString validates raw path input before resolution.
func screenPathString(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("path cannot be empty")
	}
	if strings.IndexByte(path, 0) != -1 {
		return fmt.Errorf("path contains null byte")
	}
	if !utf8.ValidString(path) {
		return fmt.Errorf("path is not valid UTF-8")
	}
	if len(path) > maxPathLen {
		return fmt.Errorf("path exceeds maximum length of %d characters", maxPathLen)
	}
	return nil
}

// hasPathPrefix returns true when path equals base or sits below it.
// Comparison is component-aligned: "/sandboxed" is not inside "/sandbox".
func hasPathPrefix(path, base string) bool {
	rel, err := filepath.Rel(base, path)
	if err != nil {
		return false
	}
	return rel == "." || (!strings.HasPrefix(rel, ".."+string(os.PathSeparator)) && rel != "..")
}

// realPath resolves symlinks in an absolute, lexically clean path.
// For paths that do not exist yet, the nearest existing ancestor is
// resolved and the remaining components are re-joined, so a pending
// write under a symlinked directory is still checked against the
// directory's real location.
func realPath(path string) (string, error) {
	var pending []string
	cur := path
	for {
		if _, err := os.Lstat(cur); err == nil {
			resolved, err := filepath.EvalSymlinks(cur)
			if err != nil {
				return "", fmt.Errorf("failed to resolve path: %v", err)
			}
			for i := len(pending) - 1; i >= 0; i-- {
				resolved = filepath.Join(resolved, pending[i])
			}
			return resolved, nil
		} else if !os.IsNotExist(err) {
			return "", fmt.Errorf("failed to stat path: %v", err)
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			// nothing along the path exists; keep the lexical form
			return path, nil
		}
		pending = append(pending, filepath.Base(cur))
		cur = parent
	}
}

// canonicalRoot resolves a configured root to its canonical absolute form.
// Roots that exist are resolved through symlinks; roots that do not exist
// yet are kept in lexically cleaned form.
func canonicalRoot(entry string) (string, error) {
	candidate := entry
	if !filepath.IsAbs(candidate) {
		abs, err := filepath.Abs(candidate)
		if err != nil {
			return "", fmt.Errorf("invalid sandbox root %q: %v", entry, err)
		}
		candidate = abs
	}
	candidate = filepath.Clean(candidate)
	if _, err := os.Lstat(candidate); err == nil {
		resolved, err := filepath.EvalSymlinks(candidate)
		if err != nil {
			return "", fmt.Errorf("failed to resolve sandbox root %q: %v", entry, err)
		}
		return resolved, nil
	} else if os.IsNotExist(err) {
		return candidate, nil
	} else {
		return "", fmt.Errorf("failed to stat sandbox root %q: %v", entry, err)
	}
}
