// Package dashboard implements the terminal flavour of the GreenGrid demo.
//
// The dashboard is a Bubble Tea program built around one session.Session.
// A timer tick (or the r key) is a refresh event: it draws one reading,
// appends it to the session and records an overload alert when needed.
// Everything on screen is rendered from a session.Snapshot of the selected
// substation, so rendering never changes session state.
//
// # Layout
//
// Two tabs share the screen:
//
//	Live Charts  substation selector, load chart with the overload threshold
//	             marked, and three metric cards (Capacity, Current Load, Forecast)
//	Alerts       scrollable feed of the most recent overload alerts
//
// The selector collapses to a single line on narrow terminals, following the
// same width breakpoints as the rest of the terminal UI.
//
// # Keyboard
//
//	tab / 1 / 2     switch tabs
//	up/k, down/j    select substation
//	home, end       first / last substation
//	pgup, pgdown    scroll the alert feed
//	r               take a reading now
//	p               pause or resume the timer
//	?               toggle help
//	q, ctrl+c       quit
package dashboard
