// Package system provides host detection utilities: GPU vendor discovery and
// the mapping from what the machine can do to interactive accelerator keys.
package system

import (
	"os"
	"runtime"
	"strings"

	"github.com/jaypipes/ghw/pkg/gpu"
	"github.com/mudler/xlog"
	"github.com/transformerlab/interactive/pkg/xsysinfo"
)

const forceAcceleratorEnv = "LAB_FORCE_ACCELERATOR"

type SystemState struct {
	GPUVendors []string
	OS        string
	Arch      string

	// ForcedAccelerators, when set, replaces detection entirely.
	ForcedAccelerators []string

	gpus []*gpu.GraphicsCard
}

type SystemStateOptions func(*SystemState)

func WithForcedAccelerators(keys ...string) SystemStateOptions {
	return func(s *SystemState) {
		s.ForcedAccelerators = keys
	}
}

func WithPlatform(goos, goarch string) SystemStateOptions {
	return func(s *SystemState) {
		s.OS = goos
		s.Arch = goarch
	}
}

func GetSystemState(opts ...SystemStateOptions) (*SystemState, error) {
	state := &SystemState{
		OS:   runtime.GOOS,
		Arch: runtime.GOARCH,
	}
	if forced := os.Getenv(forceAcceleratorEnv); forced != "" {
		state.ForcedAccelerators = splitList(forced)
	}
	for _, opt := range opts {
		opt(state)
	}

	if len(state.ForcedAccelerators) > 0 {
		xlog.Info("Using forced accelerators", "accelerators", state.ForcedAccelerators, "env", forceAcceleratorEnv)
		return state, nil
	}

	// Detection is best-effort here, we don't want to fail if it fails
	state.gpus, _ = xsysinfo.GPUs()
	xlog.Debug("GPUs", "count", len(state.gpus))
	state.GPUVendors = xsysinfo.Vendors(state.gpus)
	xlog.Debug("GPU vendors", "gpuVendors", state.GPUVendors)

	return state, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
