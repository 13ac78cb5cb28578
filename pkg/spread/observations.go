package spread

import "fmt"

// EmptyWindowMessage replaces every observation when the selected window
// contains no events.
const EmptyWindowMessage = "No posts fall within the selected time window. " +
	"Please expand the window to view narrative activity."

// Observations is the formatted findings block rendered under the charts.
type Observations struct {
	Empty              bool     `json:"empty"`
	Message            string   `json:"message,omitempty"`
	DominantNarrative  string   `json:"dominant_narrative,omitempty"`
	DaysToPeak         int      `json:"days_to_peak"`
	CommunitiesReached int      `json:"communities_reached"`
	AvgEventsPerDay    float64  `json:"avg_events_per_day"`
	Statements         []string `json:"statements,omitempty"`
}

// BuildObservations derives the four observation statements for a
// selected narrative. windowed is the filtered event set; all is the full
// set, needed because peak day reflects the narrative's entire life.
func BuildObservations(all, windowed []Event, selected string) Observations {
	dominant, ok := DominantNarrative(windowed)
	if !ok {
		return Observations{Empty: true, Message: EmptyWindowMessage}
	}

	peak, _ := PeakDay(all, selected)
	communities := CountCommunities(windowed, selected)
	avg := AvgEventsPerDay(windowed)

	return Observations{
		DominantNarrative:  dominant,
		DaysToPeak:         peak,
		CommunitiesReached: communities,
		AvgEventsPerDay:    avg,
		Statements: []string{
			fmt.Sprintf("During the selected window, discussion was most concentrated around the %q narrative.", dominant),
			fmt.Sprintf("The %q narrative reached its peak activity approximately %d days after first appearing.", selected, peak),
			fmt.Sprintf("The narrative was discussed across %d different subreddits in the selected window.", communities),
			fmt.Sprintf("On average, approximately %.1f narrative-related posts per day fell within the selected window.", avg),
		},
	}
}
