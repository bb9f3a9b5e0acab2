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

// Package sandbox decides whether a client-supplied path may be touched.
// A Policy holds allowed roots, blocked roots and permitted file
// extensions; it is built once at startup and never mutated, so it can
// be shared read-only by every request.
package sandbox

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// Decision is the outcome of a sandbox check. Exactly one of the two
// shapes is populated: an allowed decision carries the normalized
// absolute path all subsequent I/O must use, a denied decision carries
// the reason and the path (or root) that triggered it.
type Decision struct {
	Allowed   bool
	Path      string
	Reason    string
	Attempted string
}

// Err returns nil for allowed decisions and a descriptive error otherwise.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	if d.Attempted != "" {
		return fmt.Errorf("%s: %s", d.Reason, d.Attempted)
	}
	return errors.New(d.Reason)
}

// Policy is the immutable sandbox configuration.
type Policy struct {
	allowedRoots []string
	blockedRoots []string
	allowedExts  map[string]bool
}

// NewPolicy builds a policy from configured root and extension lists.
// Every root is canonicalized up front: resolved to an absolute path,
// lexically cleaned, and resolved through symlinks when it exists.
// Extensions are stored lowercase without the leading dot; an empty
// extension list means no extension restriction at all.
func NewPolicy(allowedRoots, blockedRoots, allowedExtensions []string) (*Policy, error) {
	p := &Policy{
		allowedExts: make(map[string]bool, len(allowedExtensions)),
	}
	for _, root := range allowedRoots {
		canonical, err := canonicalRoot(root)
		if err != nil {
			return nil, err
		}
		p.allowedRoots = append(p.allowedRoots, canonical)
	}
	for _, root := range blockedRoots {
		canonical, err := canonicalRoot(root)
		if err != nil {
			return nil, err
		}
		p.blockedRoots = append(p.blockedRoots, canonical)
	}
	sort.Strings(p.allowedRoots)
	sort.Strings(p.blockedRoots)
	for _, ext := range allowedExtensions {
		normalized := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if normalized == "" {
			continue
		}
		p.allowedExts[normalized] = true
	}
	return p, nil
}

// ValidatePath decides whether any operation may touch the given path.
// The input is screened, resolved against the current working directory,
// cleaned, and resolved through symlinks to its real location before the
// containment checks run. The deny-list is checked first and always wins
// over the allow-list. Failures never escape as errors; every outcome is
// a Decision.
func (p *Policy) ValidatePath(input string) Decision {
	if err := screenPathString(input); err != nil {
		return Decision{Reason: fmt.Sprintf("invalid path: %v", err), Attempted: input}
	}
	abs, err := filepath.Abs(input)
	if err != nil {
		return Decision{Reason: fmt.Sprintf("invalid path: %v", err), Attempted: input}
	}
	resolved, err := realPath(abs)
	if err != nil {
		return Decision{Reason: fmt.Sprintf("invalid path: %v", err), Attempted: abs}
	}
	for _, blocked := range p.blockedRoots {
		if hasPathPrefix(resolved, blocked) {
			return Decision{Reason: "path is in a forbidden directory", Attempted: blocked}
		}
	}
	for _, allowed := range p.allowedRoots {
		if hasPathPrefix(resolved, allowed) {
			return Decision{Allowed: true, Path: resolved}
		}
	}
	return Decision{Reason: "path is outside permitted directories", Attempted: resolved}
}

// ValidateExtension checks the final extension of a path against the
// permitted set. Paths without an extension carry no opinion and are
// always permitted. Pure function, no filesystem access.
func (p *Policy) ValidateExtension(path string) Decision {
	if len(p.allowedExts) == 0 {
		return Decision{Allowed: true, Path: path}
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filepath.Base(path)), "."))
	if ext == "" {
		return Decision{Allowed: true, Path: path}
	}
	if !p.allowedExts[ext] {
		return Decision{Reason: fmt.Sprintf("extension %q is not permitted", "."+ext), Attempted: path}
	}
	return Decision{Allowed: true, Path: path}
}

// AllowedRoots returns a copy of the configured allow-list, for display.
func (p *Policy) AllowedRoots() []string {
	return append([]string{}, p.allowedRoots...)
}

// AllowedExtensions returns a sorted copy of the permitted extensions.
func (p *Policy) AllowedExtensions() []string {
	exts := make([]string, 0, len(p.allowedExts))
	for ext := range p.allowedExts {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}
