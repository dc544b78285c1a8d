package ui

// Unicode symbols for status indicators.
const (
	SymbolSuccess = "✓" // Command completed
	SymbolFail    = "✗" // Command failed
	SymbolWarning = "⚠" // Overload alert
	SymbolReading = "●" // Reading within limits
	SymbolPending = "○" // No readings yet
)
