package system

import (
	"github.com/mudler/xlog"
	"github.com/transformerlab/interactive/pkg/xsysinfo"
)

// SupportedAccelerators returns the accelerator keys this machine can serve,
// in the shape a local provider reports them. cpu is always present.
func (s *SystemState) SupportedAccelerators() []string {
	if len(s.ForcedAccelerators) > 0 {
		return s.ForcedAccelerators
	}

	var keys []string

	// Apple Silicon has no PCI GPU for ghw to find
	if s.OS == "darwin" && s.Arch == "arm64" {
		keys = append(keys, string(AcceleratorAppleSilicon))
	}

	for _, vendor := range s.GPUVendors {
		switch vendor {
		case xsysinfo.VendorNVIDIA:
			keys = append(keys, string(AcceleratorNVIDIA))
		case xsysinfo.VendorAMD:
			keys = append(keys, string(AcceleratorAMD))
		}
	}

	keys = append(keys, string(AcceleratorCPU))
	xlog.Debug("Supported accelerators", "accelerators", keys, "os", s.OS, "arch", s.Arch)
	return keys
}

// DetectSupportedAccelerators probes the host and returns its accelerator keys.
func DetectSupportedAccelerators() []string {
	state, err := GetSystemState()
	if err != nil {
		xlog.Warn("system detection failed, assuming cpu only", "error", err)
		return []string{string(AcceleratorCPU)}
	}
	return state.SupportedAccelerators()
}
