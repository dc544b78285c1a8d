// Package cli implements the greengrid command-line interface.
//
// Each Cobra command delegates to a plain function that does the work, so
// the work can be tested without going through flag parsing.
//
// # Command Structure
//
//	greengrid dashboard   - Interactive terminal dashboard (Bubble Tea)
//	greengrid serve       - Browser dashboard with per-browser sessions
//	greengrid simulate    - Headless run printing tables or JSON
//	greengrid init        - Create .greengrid.yaml
//	greengrid version     - Build information
//	greengrid completion  - Shell completion scripts
//
// # Wiring
//
// loadApp resolves the config (explicit --config, then .greengrid.yaml in the
// current or a parent directory, then ~/.config/greengrid/config.yaml),
// applies the --interval and --seed overrides and builds the substation
// registry and overload evaluator. Every session, whether the single
// terminal session or one per browser, gets its own generator seeded from
// the same master source, so a fixed seed reproduces a whole run.
//
// # Flag Handling
//
// Global flags (--config, --verbose, --no-color) are defined on the root
// command. --verbose turns on debug logging; --no-color (or NO_COLOR) makes
// all lipgloss output plain text. Commands that support --json switch to
// machine mode, where errors are also reported as a JSON envelope.
package cli
