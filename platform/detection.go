// Package platform normalizes operating system, CPU architecture, and
// CPU identity strings into a small canonical vocabulary so that
// callers never branch on the dozens of raw spellings the underlying
// platforms report.
package platform

import (
	"bufio"
	"os"
	"runtime"
	"strings"
	"sync"
)

// Canonical OS names
const (
	OSDarwin  = "darwin"
	OSLinux   = "linux"
	OSWindows = "windows"
)

// Canonical architecture names
const (
	ArchAMD64 = "amd64"
	ArchARM64 = "arm64"
	ArchX86   = "x86"
	ArchI386  = "i386"
)

// CPU vendor tokens
const (
	VendorIntel = "intel"
	VendorAMD   = "amd"
	VendorApple = "apple"
)

var (
	osOnce  sync.Once
	osName  string
	arOnce  sync.Once
	arName  string
	cpuOnce sync.Once
	cpuName string
)

// OSName returns the canonical name of the local operating system.
// The result is computed once and cached.
func OSName() string {
	osOnce.Do(func() {
		osName = NormalizeOS(runtime.GOOS)
	})
	return osName
}

// ArchName returns the canonical name of the local CPU architecture.
// The result is computed once and cached.
func ArchName() string {
	arOnce.Do(func() {
		arName = NormalizeArch(runtime.GOARCH)
	})
	return arName
}

// NormalizeOS maps a raw operating system name to its canonical token.
// Unknown names fall back to the lower-trimmed input.
func NormalizeOS(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case s == "darwin" || s == "macos" || s == "osx" || s == "mac os x" || strings.HasPrefix(s, "mac"):
		return OSDarwin
	case strings.HasPrefix(s, "linux"):
		return OSLinux
	case strings.HasPrefix(s, "win"):
		return OSWindows
	default:
		return s
	}
}

// NormalizeArch maps a raw CPU architecture name to its canonical token.
// Unknown names fall back to the lower-trimmed input.
func NormalizeArch(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	switch s {
	case "amd64", "x86_64", "x86-64", "x64":
		return ArchAMD64
	case "arm64", "aarch64", "arm64e":
		return ArchARM64
	case "i386", "i486", "i586", "i686", "386":
		return ArchI386
	case "x86", "win32", "ia32":
		return ArchX86
	default:
		return s
	}
}

// NormalizeComponents normalizes an (os, arch) pair in one call
func NormalizeComponents(osRaw, archRaw string) (string, string) {
	return NormalizeOS(osRaw), NormalizeArch(archRaw)
}

// CPUVendor classifies a CPU model string by vendor. Intel, AMD, and
// Apple matchers are tried in order; anything else falls back to the
// raw trimmed string.
func CPUVendor(model string) string {
	trimmed := strings.TrimSpace(model)
	s := strings.ToLower(trimmed)
	switch {
	case strings.Contains(s, "intel") || strings.Contains(s, "genuineintel") ||
		strings.Contains(s, "core(tm)") || strings.Contains(s, "xeon"):
		return VendorIntel
	case strings.Contains(s, "amd") || strings.Contains(s, "authenticamd") ||
		strings.Contains(s, "ryzen") || strings.Contains(s, "epyc") || strings.Contains(s, "opteron"):
		return VendorAMD
	case strings.Contains(s, "apple") || strings.HasPrefix(s, "m1") ||
		strings.HasPrefix(s, "m2") || strings.HasPrefix(s, "m3") || strings.HasPrefix(s, "m4"):
		return VendorApple
	default:
		return trimmed
	}
}

// CPUType returns the local machine's CPU model string. On Linux it is
// read from /proc/cpuinfo; elsewhere an architecture-derived label is
// used. The result is computed once and cached.
func CPUType() string {
	cpuOnce.Do(func() {
		cpuName = detectCPUModel()
	})
	return cpuName
}

func detectCPUModel() string {
	if runtime.GOOS == "linux" {
		if model := cpuModelFromProc("/proc/cpuinfo"); model != "" {
			return model
		}
	}
	return runtime.GOOS + "/" + ArchName()
}

// cpuModelFromProc extracts the first "model name" (x86) or "Hardware"
// (some ARM SoCs) line from a cpuinfo-format file.
func cpuModelFromProc(path string) string {
	f, err := os.Open(path) // #nosec G304 -- fixed procfs path outside tests
	if err != nil {
		return ""
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		switch strings.TrimSpace(key) {
		case "model name", "Hardware", "Model":
			if v := strings.TrimSpace(value); v != "" {
				return v
			}
		}
	}
	return ""
}

// NormalizeOSVersion reduces a raw OS version string to its dotted
// numeric prefix, dropping build metadata and suffixes.
// "14.4.1 (23E224)" -> "14.4.1"; "5.15.0-105-generic" -> "5.15.0".
func NormalizeOSVersion(raw string) string {
	s := strings.TrimSpace(raw)
	end := 0
	for i, r := range s {
		if (r >= '0' && r <= '9') || r == '.' {
			end = i + 1
			continue
		}
		break
	}
	return strings.Trim(s[:end], ".")
}
