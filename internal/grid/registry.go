package grid

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// Defaults for the simulated network.
const (
	DefaultSubstations = 15
	DefaultCapacityMin = 1800
	DefaultCapacityMax = 2600
)

// Substation is a simulated distribution node with a fixed capacity.
type Substation struct {
	ID         string `json:"id"`
	CapacityKW int    `json:"capacity_kw"`
}

// Registry is the immutable set of substations for the process lifetime.
// IDs are kept in registration order (S01, S02, ...).
type Registry struct {
	order    []string
	capacity map[string]int
}

// SubstationID formats the identifier for the n-th substation (1-based).
func SubstationID(n int) string {
	return fmt.Sprintf("S%02d", n)
}

// NewSource returns a seeded random source. A zero seed derives one from the
// wall clock, which makes every process start different.
func NewSource(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// NewRegistry creates count substations, each with a capacity drawn
// uniformly from [capMin, capMax). Callers validate the bounds; an empty or
// inverted range collapses every capacity to capMin.
func NewRegistry(count, capMin, capMax int, src *rand.Rand) *Registry {
	if count < 0 {
		count = 0
	}

	r := &Registry{
		order:    make([]string, 0, count),
		capacity: make(map[string]int, count),
	}

	for i := 1; i <= count; i++ {
		id := SubstationID(i)
		c := capMin
		if capMax > capMin {
			c = capMin + src.IntN(capMax-capMin)
		}
		r.order = append(r.order, id)
		r.capacity[id] = c
	}

	return r
}

// NewRegistryFromCapacities builds a registry with explicit capacities, in
// the order given. Mostly useful in tests.
func NewRegistryFromCapacities(subs ...Substation) *Registry {
	r := &Registry{
		order:    make([]string, 0, len(subs)),
		capacity: make(map[string]int, len(subs)),
	}
	for _, s := range subs {
		if _, dup := r.capacity[s.ID]; dup {
			continue
		}
		r.order = append(r.order, s.ID)
		r.capacity[s.ID] = s.CapacityKW
	}
	return r
}

// IDs returns the substation identifiers in registry order.
func (r *Registry) IDs() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Len returns the number of substations.
func (r *Registry) Len() int {
	return len(r.order)
}

// Contains reports whether id is a registered substation.
func (r *Registry) Contains(id string) bool {
	_, ok := r.capacity[id]
	return ok
}

// Capacity returns the capacity of a substation in kW.
func (r *Registry) Capacity(id string) (int, bool) {
	c, ok := r.capacity[id]
	return c, ok
}

// Index returns the position of id in registry order, or -1.
func (r *Registry) Index(id string) int {
	for i, v := range r.order {
		if v == id {
			return i
		}
	}
	return -1
}

// At returns the substation id at position i in registry order.
func (r *Registry) At(i int) (string, bool) {
	if i < 0 || i >= len(r.order) {
		return "", false
	}
	return r.order[i], true
}

// Substations returns every substation with its capacity, in registry order.
func (r *Registry) Substations() []Substation {
	out := make([]Substation, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, Substation{ID: id, CapacityKW: r.capacity[id]})
	}
	return out
}
