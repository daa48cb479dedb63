package kart

import "sort"

// DriftLevel is a tier of accumulated drift. Holding a drift long enough to reach
// a tier grants a boost of half its threshold on release.
type DriftLevel struct {
	Name      string  `yaml:"name"`
	Threshold float64 `yaml:"threshold"`
	Color     string  `yaml:"color"`
	Particles int     `yaml:"particles"`
	Level     int     `yaml:"level"`
}

// NoDrift is reported below the lowest threshold.
var NoDrift = DriftLevel{Name: "none", Color: "#ffffff", Particles: 5}

func DefaultDriftLevels() []DriftLevel {
	return []DriftLevel{
		{Name: "purple", Threshold: 6, Color: "#d677ff", Particles: 25, Level: 3},
		{Name: "yellow", Threshold: 3, Color: "#fab457", Particles: 5, Level: 2},
		{Name: "blue", Threshold: 1, Color: "#a3ffff", Particles: 15, Level: 1},
	}
}

// BoostPower is the turbo time granted when a drift at this level is released.
func (d DriftLevel) BoostPower() float64 {
	return d.Threshold / 2
}

// DriftLevels is a lookup table ordered by descending threshold.
type DriftLevels []DriftLevel

// NewDriftLevels copies levels into threshold order.
func NewDriftLevels(levels []DriftLevel) DriftLevels {
	out := append(DriftLevels(nil), levels...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Threshold > out[j].Threshold })
	return out
}

// For returns the highest level whose threshold power reaches, or NoDrift.
func (l DriftLevels) For(power float64) DriftLevel {
	for _, level := range l {
		if power >= level.Threshold {
			return level
		}
	}
	return NoDrift
}
