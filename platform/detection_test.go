package platform

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNormalizeOS verifies OS name canonicalization
func TestNormalizeOS(t *testing.T) {
	cases := map[string]string{
		"Darwin":    OSDarwin,
		"darwin":    OSDarwin,
		"macOS":     OSDarwin,
		"Mac OS X":  OSDarwin,
		"Linux":     OSLinux,
		"linux-gnu": OSLinux,
		"Windows":   OSWindows,
		"win32":     OSWindows,
		"WINDOWS":   OSWindows,
		"  Linux ":  OSLinux,
		"plan9":     "plan9",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeOS(in), "input %q", in)
	}
}

// TestNormalizeArch verifies architecture canonicalization
func TestNormalizeArch(t *testing.T) {
	cases := map[string]string{
		"x86_64":  ArchAMD64,
		"amd64":   ArchAMD64,
		"x64":     ArchAMD64,
		"X86_64":  ArchAMD64,
		"aarch64": ArchARM64,
		"arm64":   ArchARM64,
		"i686":    ArchI386,
		"386":     ArchI386,
		"x86":     ArchX86,
		"win32":   ArchX86,
		"riscv64": "riscv64",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeArch(in), "input %q", in)
	}
}

// TestNormalizeComponents verifies the paired helper
func TestNormalizeComponents(t *testing.T) {
	osName, arch := NormalizeComponents("Darwin", "x86_64")
	assert.Equal(t, "darwin", osName)
	assert.Equal(t, "amd64", arch)
}

// TestCPUVendor verifies vendor matcher ordering and fallback
func TestCPUVendor(t *testing.T) {
	cases := map[string]string{
		"Intel(R) Core(TM) i7-9750H CPU @ 2.60GHz": VendorIntel,
		"Intel(R) Xeon(R) Platinum 8375C":          VendorIntel,
		"AMD Ryzen 9 5950X 16-Core Processor":      VendorAMD,
		"AMD EPYC 7763 64-Core Processor":          VendorAMD,
		"Apple M2 Pro":                             VendorApple,
		"M1 Max":                                   VendorApple,
		"  Cortex-A72  ":                           "Cortex-A72",
	}
	for in, want := range cases {
		assert.Equal(t, want, CPUVendor(in), "input %q", in)
	}
}

// TestCachedDetection verifies the cached local-machine accessors
func TestCachedDetection(t *testing.T) {
	assert.Equal(t, NormalizeOS(runtime.GOOS), OSName())
	assert.Equal(t, NormalizeArch(runtime.GOARCH), ArchName())
	assert.Equal(t, OSName(), OSName(), "stable across calls")
	assert.NotEmpty(t, CPUType())
}

// TestCPUModelFromProc verifies cpuinfo parsing against fixture files
func TestCPUModelFromProc(t *testing.T) {
	t.Run("x86 model name", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "cpuinfo")
		content := "processor\t: 0\nvendor_id\t: GenuineIntel\nmodel name\t: Intel(R) Xeon(R) CPU E5-2686 v4 @ 2.30GHz\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		assert.Equal(t, "Intel(R) Xeon(R) CPU E5-2686 v4 @ 2.30GHz", cpuModelFromProc(path))
	})

	t.Run("arm hardware line", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "cpuinfo")
		content := "processor\t: 0\nBogoMIPS\t: 108.00\nHardware\t: BCM2835\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		assert.Equal(t, "BCM2835", cpuModelFromProc(path))
	})

	t.Run("missing file", func(t *testing.T) {
		assert.Equal(t, "", cpuModelFromProc(filepath.Join(t.TempDir(), "absent")))
	})
}

// TestNormalizeOSVersion verifies version suffix stripping
func TestNormalizeOSVersion(t *testing.T) {
	cases := map[string]string{
		"14.4.1 (23E224)":    "14.4.1",
		"5.15.0-105-generic": "5.15.0",
		"10.0.19045":         "10.0.19045",
		"  12.6 ":            "12.6",
		"rolling":            "",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeOSVersion(in), "input %q", in)
	}
}
