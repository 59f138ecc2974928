package system

import (
	"slices"
	"strings"
)

// AcceleratorKey is the canonical hardware tag used to key per-accelerator
// command variants in interactive gallery entries.
type AcceleratorKey string

const (
	AcceleratorDefault      AcceleratorKey = "default"
	AcceleratorCPU          AcceleratorKey = "cpu"
	AcceleratorNVIDIA       AcceleratorKey = "NVIDIA"
	AcceleratorAMD          AcceleratorKey = "AMD"
	AcceleratorAppleSilicon AcceleratorKey = "AppleSilicon"

	environmentLocal = "local"
)

// AcceleratorKeys lists every canonical key, in gallery order.
var AcceleratorKeys = []AcceleratorKey{
	AcceleratorDefault,
	AcceleratorCPU,
	AcceleratorNVIDIA,
	AcceleratorAMD,
	AcceleratorAppleSilicon,
}

// localPreference is the order in which locally reported capabilities win,
// regardless of the order the provider listed them in.
var localPreference = []AcceleratorKey{
	AcceleratorAppleSilicon,
	AcceleratorNVIDIA,
	AcceleratorAMD,
	AcceleratorCPU,
}

var acceleratorAliases = map[string]AcceleratorKey{
	"cuda":         AcceleratorNVIDIA,
	"nvidia":       AcceleratorNVIDIA,
	"rtx":          AcceleratorNVIDIA,
	"a100":         AcceleratorNVIDIA,
	"h100":         AcceleratorNVIDIA,
	"v100":         AcceleratorNVIDIA,
	"rocm":         AcceleratorAMD,
	"amd":          AcceleratorAMD,
	"apple":        AcceleratorAppleSilicon,
	"applesilicon": AcceleratorAppleSilicon,
	"mps":          AcceleratorAppleSilicon,
	"m1":           AcceleratorAppleSilicon,
	"m2":           AcceleratorAppleSilicon,
	"m3":           AcceleratorAppleSilicon,
}

// IsAcceleratorKey reports whether s is one of the canonical keys (case-sensitive).
func IsAcceleratorKey(s string) bool {
	return slices.Contains(AcceleratorKeys, AcceleratorKey(s))
}

// NormalizeAccelerator maps a free-form accelerator string (e.g. "RTX3090:1")
// and an optional provider capability list to a canonical key.
//
// For local environments the provider's reported capabilities are the
// machine's real ones, so they take precedence over the request string.
// Every input resolves; AcceleratorDefault is the catch-all.
func NormalizeAccelerator(accelerator string, supported []string, environment string) AcceleratorKey {
	if environment == environmentLocal && len(supported) > 0 {
		for _, key := range localPreference {
			if slices.Contains(supported, string(key)) {
				return key
			}
		}
		return AcceleratorDefault
	}

	if len(supported) > 0 {
		first := strings.TrimSpace(supported[0])
		if IsAcceleratorKey(first) {
			return AcceleratorKey(first)
		}
		return aliasOrDefault(strings.ToLower(first))
	}

	raw := strings.ToLower(strings.TrimSpace(accelerator))
	if raw == "" {
		return AcceleratorDefault
	}

	// "RTX3090:1" carries a device count after the colon
	if before, _, found := strings.Cut(raw, ":"); found {
		raw = strings.TrimSpace(before)
	}
	if raw == "" {
		return AcceleratorDefault
	}

	return aliasOrDefault(raw)
}

func aliasOrDefault(alias string) AcceleratorKey {
	if key, ok := acceleratorAliases[alias]; ok {
		return key
	}
	return AcceleratorDefault
}
