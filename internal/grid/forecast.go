package grid

// DefaultForecastWindow is the number of trailing readings averaged.
const DefaultForecastWindow = 5

// Forecast returns the integer mean of the last window readings (or all of
// them if fewer are available). ok is false for an empty sequence, in which
// case there is nothing to display.
func Forecast(readings []Reading, window int) (kw int, ok bool) {
	if len(readings) == 0 {
		return 0, false
	}
	if window <= 0 {
		window = DefaultForecastWindow
	}
	if len(readings) > window {
		readings = readings[len(readings)-window:]
	}

	sum := 0
	for _, r := range readings {
		sum += r.LoadKW
	}
	return sum / len(readings), true
}

// FilterBySubstation returns the readings for id, preserving order.
func FilterBySubstation(readings []Reading, id string) []Reading {
	var out []Reading
	for _, r := range readings {
		if r.Substation == id {
			out = append(out, r)
		}
	}
	return out
}
