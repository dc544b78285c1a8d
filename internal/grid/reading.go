package grid

import (
	"math/rand/v2"
	"time"
)

// ClockLayout is how reading timestamps are shown on every surface.
const ClockLayout = "15:04:05"

// Defaults for the load distribution.
const (
	DefaultLoadMean   = 2000.0
	DefaultLoadStdDev = 250.0
	DefaultLoadFloor  = 200
)

// Reading is one simulated load sample for a substation.
type Reading struct {
	Time       time.Time `json:"time"`
	Substation string    `json:"substation"`
	LoadKW     int       `json:"load_kw"`
}

// Clock returns the reading time formatted as HH:MM:SS.
func (r Reading) Clock() string {
	return r.Time.Format(ClockLayout)
}

// LoadModel describes the normal distribution loads are drawn from.
type LoadModel struct {
	Mean   float64
	StdDev float64
	Floor  int
}

// DefaultLoadModel returns N(2000, 250) clamped at 200 kW.
func DefaultLoadModel() LoadModel {
	return LoadModel{
		Mean:   DefaultLoadMean,
		StdDev: DefaultLoadStdDev,
		Floor:  DefaultLoadFloor,
	}
}

// Generator produces synthetic readings. It is not safe for concurrent use;
// each session owns its own Generator.
type Generator struct {
	registry *Registry
	model    LoadModel
	rng      *rand.Rand
}

// NewGenerator creates a generator drawing substations from registry and
// loads from model, using src for all randomness.
func NewGenerator(registry *Registry, model LoadModel, src *rand.Rand) *Generator {
	return &Generator{
		registry: registry,
		model:    model,
		rng:      src,
	}
}

// Registry returns the registry readings are drawn from.
func (g *Generator) Registry() *Registry {
	return g.registry
}

// Next draws exactly one reading stamped with now (second precision).
// The substation is picked uniformly; the load is truncated to an integer
// and never drops below the model floor.
func (g *Generator) Next(now time.Time) Reading {
	var sid string
	if n := g.registry.Len(); n > 0 {
		sid, _ = g.registry.At(g.rng.IntN(n))
	}

	load := int(g.rng.NormFloat64()*g.model.StdDev + g.model.Mean)
	if load < g.model.Floor {
		load = g.model.Floor
	}

	return Reading{
		Time:       now.Truncate(time.Second),
		Substation: sid,
		LoadKW:     load,
	}
}
