// Package grid models the simulated substation network behind the dashboard.
//
// It holds the pieces that do not depend on any session or presentation
// state:
//
//	Registry   - the fixed set of substations and their capacities (kW)
//	Generator  - draws one synthetic Reading per call
//	Evaluator  - decides whether a Reading is an overload and builds the Alert
//	Forecast   - trailing moving average over a substation's readings
//
// All randomness flows through a *rand.Rand passed in at construction time,
// so a fixed seed reproduces the same registry and the same reading sequence.
package grid
