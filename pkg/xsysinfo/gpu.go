package xsysinfo

import (
	"sort"
	"strings"
	"sync"

	"github.com/jaypipes/ghw"
	"github.com/jaypipes/ghw/pkg/gpu"
)

// Vendors recognised on PCI graphics cards.
const (
	VendorNVIDIA = "nvidia"
	VendorAMD    = "amd"
	VendorIntel  = "intel"
)

type gpuProbe struct {
	once  sync.Once
	cards []*gpu.GraphicsCard
	err   error
}

var probe gpuProbe

// GPUs returns the host's graphics cards. ghw is only queried once per process.
func GPUs() ([]*gpu.GraphicsCard, error) {
	probe.once.Do(func() {
		info, err := ghw.GPU()
		if err != nil {
			probe.err = err
			return
		}
		probe.cards = info.GraphicsCards
	})
	return probe.cards, probe.err
}

// CardVendor classifies a card by its PCI vendor name, "" when unrecognised.
func CardVendor(card *gpu.GraphicsCard) string {
	if card == nil || card.DeviceInfo == nil || card.DeviceInfo.Vendor == nil {
		return ""
	}
	name := strings.ToUpper(card.DeviceInfo.Vendor.Name)
	switch {
	case strings.Contains(name, "NVIDIA"):
		return VendorNVIDIA
	case strings.Contains(name, "AMD"), strings.Contains(name, "ADVANCED MICRO DEVICES"):
		return VendorAMD
	case strings.Contains(name, "INTEL"):
		return VendorIntel
	}
	return ""
}

// vendorRank orders discrete accelerators ahead of integrated graphics.
var vendorRank = map[string]int{VendorNVIDIA: 0, VendorAMD: 1, VendorIntel: 2}

// Vendors returns each recognised vendor once, discrete GPUs first. Hybrid
// machines list the integrated card before the discrete one.
func Vendors(cards []*gpu.GraphicsCard) []string {
	seen := map[string]bool{}
	var vendors []string
	for _, card := range cards {
		vendor := CardVendor(card)
		if vendor == "" || seen[vendor] {
			continue
		}
		seen[vendor] = true
		vendors = append(vendors, vendor)
	}
	sort.Slice(vendors, func(i, j int) bool {
		return vendorRank[vendors[i]] < vendorRank[vendors[j]]
	})
	return vendors
}
