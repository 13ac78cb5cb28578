package spread

import "sort"

// Summary holds the three window-level activity metrics.
type Summary struct {
	TotalEvents      int `json:"total_events"`
	ActiveSubreddits int `json:"active_subreddits"`
	ActiveNarratives int `json:"active_narratives"`
}

// Summarize computes the window summary. An empty slice yields zeros.
func Summarize(events []Event) Summary {
	subreddits := make(map[string]struct{})
	narratives := make(map[string]struct{})
	for _, e := range events {
		subreddits[e.Subreddit] = struct{}{}
		narratives[e.Narrative] = struct{}{}
	}
	return Summary{
		TotalEvents:      len(events),
		ActiveSubreddits: len(subreddits),
		ActiveNarratives: len(narratives),
	}
}

// NarrativeCount is one row of the narrative distribution table.
type NarrativeCount struct {
	Narrative string `json:"narrative"`
	Count     int    `json:"count"`
}

// Distribution counts events per narrative, sorted by descending count.
// Ties keep first-encounter order, so the table is stable across reruns.
func Distribution(events []Event) []NarrativeCount {
	counts := make(map[string]int)
	var order []string
	for _, e := range events {
		if _, seen := counts[e.Narrative]; !seen {
			order = append(order, e.Narrative)
		}
		counts[e.Narrative]++
	}

	rows := make([]NarrativeCount, 0, len(order))
	for _, name := range order {
		rows = append(rows, NarrativeCount{Narrative: name, Count: counts[name]})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Count > rows[j].Count
	})
	return rows
}

// DominantNarrative returns the narrative with the highest count in the
// given events; ties go to the first encountered. ok is false when the
// slice is empty — callers must check before rendering.
func DominantNarrative(events []Event) (string, bool) {
	rows := Distribution(events)
	if len(rows) == 0 {
		return "", false
	}
	return rows[0].Narrative, true
}

// DayCount is one point of a narrative's growth series.
type DayCount struct {
	Day   int `json:"day"`
	Count int `json:"count"`
}

// TimeSeries counts one narrative's events per day offset, ascending by
// day. Growth charts and peak-day lookups run it over the full event set
// so a narrative's life is shown independent of the display window.
func TimeSeries(events []Event, name string) []DayCount {
	counts := make(map[int]int)
	for _, e := range events {
		if e.Narrative == name {
			counts[e.DaysSinceStart]++
		}
	}

	days := make([]int, 0, len(counts))
	for day := range counts {
		days = append(days, day)
	}
	sort.Ints(days)

	series := make([]DayCount, 0, len(days))
	for _, day := range days {
		series = append(series, DayCount{Day: day, Count: counts[day]})
	}
	return series
}

// PeakDay returns the day offset with the most events for a narrative,
// scanning the series in ascending day order so the earliest day wins
// ties. ok is false when the narrative has no events.
func PeakDay(events []Event, name string) (int, bool) {
	series := TimeSeries(events, name)
	if len(series) == 0 {
		return 0, false
	}

	peak := series[0]
	for _, point := range series[1:] {
		if point.Count > peak.Count {
			peak = point
		}
	}
	return peak.Day, true
}

// CommunityCount is one bar of the community amplification chart.
type CommunityCount struct {
	Subreddit string `json:"subreddit"`
	Count     int    `json:"count"`
}

// TopCommunities counts a narrative's events per subreddit over the given
// (usually windowed) events, descending, truncated to limit. Ties keep
// first-encounter order.
func TopCommunities(events []Event, name string, limit int) []CommunityCount {
	counts := make(map[string]int)
	var order []string
	for _, e := range events {
		if e.Narrative != name {
			continue
		}
		if _, seen := counts[e.Subreddit]; !seen {
			order = append(order, e.Subreddit)
		}
		counts[e.Subreddit]++
	}

	rows := make([]CommunityCount, 0, len(order))
	for _, sub := range order {
		rows = append(rows, CommunityCount{Subreddit: sub, Count: counts[sub]})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Count > rows[j].Count
	})

	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows
}

// AvgEventsPerDay divides the event count by the number of distinct days
// present, matching a per-day groupby mean. Zero when events is empty.
func AvgEventsPerDay(events []Event) float64 {
	days := make(map[int]struct{})
	for _, e := range events {
		days[e.DaysSinceStart] = struct{}{}
	}
	if len(days) == 0 {
		return 0
	}
	return float64(len(events)) / float64(len(days))
}

// CountNarrative counts events for one narrative.
func CountNarrative(events []Event, name string) int {
	n := 0
	for _, e := range events {
		if e.Narrative == name {
			n++
		}
	}
	return n
}

// CountCommunities counts distinct subreddits for one narrative.
func CountCommunities(events []Event, name string) int {
	subs := make(map[string]struct{})
	for _, e := range events {
		if e.Narrative == name {
			subs[e.Subreddit] = struct{}{}
		}
	}
	return len(subs)
}
