// Package ui renders the plain (non-interactive) terminal output of the
// greengrid CLI: the header, reading tables, load sparklines and the
// simulation summary printed by `greengrid simulate`.
//
// # Color Scheme
//
// Colors are ANSI codes for broad terminal compatibility:
//
//	ColorSuccess   (green)  - Loads comfortably below the limit
//	ColorError     (red)    - Overloads and failures
//	ColorWarning   (yellow) - Loads approaching the limit
//	ColorInfo      (cyan)   - Informational messages
//	ColorMuted     (gray)   - Secondary text, timestamps
//	ColorSecondary (blue)   - Headings
//
// Use DisableColors() to switch to monochrome output (for --no-color).
//
// # Symbols
//
//	SymbolSuccess  (checkmark) - Command completed
//	SymbolFail     (X)         - Command failed
//	SymbolWarning  (warning)   - Overload alert
//	SymbolReading  (filled)    - A reading within limits
//	SymbolPending  (circle)    - Substation without readings
package ui
