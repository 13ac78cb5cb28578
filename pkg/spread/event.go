// Package spread turns a classified post corpus into amplification
// events and computes the aggregates the dashboard renders.
package spread

import (
	"sort"
	"time"

	"github.com/makadiyavatsall/reddit-narrative-spread-analysis/pkg/narrative"
	"github.com/makadiyavatsall/reddit-narrative-spread-analysis/pkg/source"
)

// Event is one post's contribution to one matched narrative. A post
// matching k narratives expands into k events.
type Event struct {
	Subreddit      string    `json:"subreddit"`
	Author         string    `json:"author"`
	Title          string    `json:"title"`
	Narrative      string    `json:"narrative"`
	CreatedAt      time.Time `json:"created_at"`
	FirstSeen      time.Time `json:"first_seen"`
	DaysSinceStart int       `json:"days_since_start"`
}

// Dataset is the immutable product of one load: the full event set plus
// derived bounds. It is built once at startup and shared read-only.
type Dataset struct {
	Events     []Event
	Narratives []string // sorted distinct narrative names present
	MinDay     int
	MaxDay     int

	firstSeen map[string]time.Time
}

// Expand classifies every post and produces the full event set. Posts
// matching no narrative contribute nothing. Each narrative's first-seen
// time is the minimum creation time over its events in the whole corpus,
// so day offsets do not move when the display window changes.
func Expand(posts []source.Post, rules *narrative.Ruleset) *Dataset {
	matches := make([][]string, len(posts))
	firstSeen := make(map[string]time.Time)

	for i, p := range posts {
		matched := rules.Classify(narrative.CombineText(p.Title, p.Selftext))
		matches[i] = matched

		created := p.CreatedTime()
		for _, name := range matched {
			if first, ok := firstSeen[name]; !ok || created.Before(first) {
				firstSeen[name] = created
			}
		}
	}

	d := &Dataset{firstSeen: firstSeen}
	for i, p := range posts {
		created := p.CreatedTime()
		for _, name := range matches[i] {
			first := firstSeen[name]
			d.Events = append(d.Events, Event{
				Subreddit:      p.Subreddit,
				Author:         p.Author,
				Title:          p.Title,
				Narrative:      name,
				CreatedAt:      created,
				FirstSeen:      first,
				DaysSinceStart: wholeDays(created.Sub(first)),
			})
		}
	}

	for name := range firstSeen {
		d.Narratives = append(d.Narratives, name)
	}
	sort.Strings(d.Narratives)

	for i, e := range d.Events {
		if i == 0 || e.DaysSinceStart < d.MinDay {
			d.MinDay = e.DaysSinceStart
		}
		if e.DaysSinceStart > d.MaxDay {
			d.MaxDay = e.DaysSinceStart
		}
	}

	return d
}

// FirstSeen returns a narrative's first observed creation time.
func (d *Dataset) FirstSeen(name string) (time.Time, bool) {
	t, ok := d.firstSeen[name]
	return t, ok
}

// DefaultNarrative returns the selector default: the first narrative in
// sorted order, or "" when the corpus produced no events.
func (d *Dataset) DefaultNarrative() string {
	if len(d.Narratives) == 0 {
		return ""
	}
	return d.Narratives[0]
}

// wholeDays truncates a delta to whole days. 23h is day 0, 25h is day 1.
func wholeDays(delta time.Duration) int {
	return int(delta / (24 * time.Hour))
}
