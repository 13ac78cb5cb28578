package spread

// Window is an inclusive day-offset range selected for display.
type Window struct {
	MinDay int `json:"min_day"`
	MaxDay int `json:"max_day"`
}

// FullWindow returns the window covering the whole dataset.
func (d *Dataset) FullWindow() Window {
	return Window{MinDay: d.MinDay, MaxDay: d.MaxDay}
}

// FilterWindow keeps the events whose day offset falls inside the window,
// inclusive both ends. It performs no clamping: a window outside the
// observed range yields an empty slice, which every aggregate accepts.
func FilterWindow(events []Event, w Window) []Event {
	var out []Event
	for _, e := range events {
		if e.DaysSinceStart >= w.MinDay && e.DaysSinceStart <= w.MaxDay {
			out = append(out, e)
		}
	}
	return out
}
