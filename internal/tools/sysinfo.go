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
	"runtime"
	"strings"

	"github.com/pbnjay/memory"
)

const bytesPerGiB = 1 << 30

// systemInfo is a point-in-time snapshot of the host environment.
type systemInfo struct {
	Platform    string
	Arch        string
	Release     string
	Hostname    string
	UptimeHours int64
	TotalMemGB  uint64
	FreeMemGB   uint64
	CPUs        int
	HomeDir     string
	TempDir     string
}

// collectSystemInfo reads the host environment. Probes that a platform
// cannot answer degrade to zero values instead of failing the call.
func collectSystemInfo() systemInfo {
	info := systemInfo{
		Platform:   runtime.GOOS,
		Arch:       runtime.GOARCH,
		CPUs:       runtime.NumCPU(),
		TotalMemGB: roundToGiB(memory.TotalMemory()),
		FreeMemGB:  roundToGiB(memory.FreeMemory()),
	}
	if release, err := osRelease(); err == nil {
		info.Release = release
	}
	if hostname, err := hostnameProbe(); err == nil {
		info.Hostname = hostname
	}
	if seconds, err := uptimeSeconds(); err == nil {
		info.UptimeHours = seconds / 3600
	}
	if home, err := userHomeDir(); err == nil {
		info.HomeDir = home
	}
	info.TempDir = tempDir()
	return info
}

func roundToGiB(b uint64) uint64 {
	return (b + bytesPerGiB/2) / bytesPerGiB
}

func (o *ops) systemInfo(_ context.Context, _ map[string]interface{}) (string, error) {
	info := collectSystemInfo()
	var sb strings.Builder
	fmt.Fprintf(&sb, "Platform:       %s\n", info.Platform)
	fmt.Fprintf(&sb, "Architecture:   %s\n", info.Arch)
	fmt.Fprintf(&sb, "OS release:     %s\n", info.Release)
	fmt.Fprintf(&sb, "Hostname:       %s\n", info.Hostname)
	fmt.Fprintf(&sb, "Uptime:         %d hours\n", info.UptimeHours)
	fmt.Fprintf(&sb, "Total memory:   %d GB\n", info.TotalMemGB)
	fmt.Fprintf(&sb, "Free memory:    %d GB\n", info.FreeMemGB)
	fmt.Fprintf(&sb, "Logical CPUs:   %d\n", info.CPUs)
	fmt.Fprintf(&sb, "Home directory: %s\n", info.HomeDir)
	fmt.Fprintf(&sb, "Temp directory: %s\n", info.TempDir)
	return sb.String(), nil
}
