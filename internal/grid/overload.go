package grid

import (
	"fmt"
	"time"
)

// DefaultThreshold is the fraction of capacity at which a load is an overload.
const DefaultThreshold = 0.9

// AlertSymbol prefixes every alert message.
const AlertSymbol = "⚠"

// Alert records a reading that crossed the overload threshold.
type Alert struct {
	Time       time.Time `json:"time"`
	Substation string    `json:"substation"`
	LoadKW     int       `json:"load_kw"`
	CapacityKW int       `json:"capacity_kw"`
	Message    string    `json:"message"`
}

// NewAlert builds the alert for reading r against capacity.
func NewAlert(r Reading, capacity int) Alert {
	return Alert{
		Time:       r.Time,
		Substation: r.Substation,
		LoadKW:     r.LoadKW,
		CapacityKW: capacity,
		Message:    FormatAlert(r, capacity),
	}
}

// FormatAlert renders the alert message shown in the feed.
func FormatAlert(r Reading, capacity int) string {
	return fmt.Sprintf("%s %s overload at %s → %d kW (Capacity %d kW)",
		AlertSymbol, r.Substation, r.Clock(), r.LoadKW, capacity)
}

// String returns the alert message.
func (a Alert) String() string {
	return a.Message
}

// Evaluator applies the overload predicate. It holds no state beyond its
// configuration.
type Evaluator struct {
	registry  *Registry
	threshold float64
}

// NewEvaluator creates an evaluator; a non-positive threshold falls back to
// DefaultThreshold.
func NewEvaluator(registry *Registry, threshold float64) *Evaluator {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Evaluator{registry: registry, threshold: threshold}
}

// Threshold returns the configured fraction of capacity.
func (e *Evaluator) Threshold() float64 {
	return e.threshold
}

// LimitKW returns the load at which substation id starts alerting.
func (e *Evaluator) LimitKW(id string) (float64, bool) {
	c, ok := e.registry.Capacity(id)
	if !ok {
		return 0, false
	}
	return e.threshold * float64(c), true
}

// IsOverload reports whether load >= threshold * capacity[id].
// Unknown substations are never overloaded.
func (e *Evaluator) IsOverload(r Reading) bool {
	limit, ok := e.LimitKW(r.Substation)
	if !ok {
		return false
	}
	return float64(r.LoadKW) >= limit
}

// Evaluate returns the alert for r and true when r is an overload.
func (e *Evaluator) Evaluate(r Reading) (Alert, bool) {
	if !e.IsOverload(r) {
		return Alert{}, false
	}
	c, _ := e.registry.Capacity(r.Substation)
	return NewAlert(r, c), true
}
