package narrative

import (
	"sort"
	"strings"
)

// Rule is a named narrative defined by an ordered keyword list.
// A post belongs to the narrative when any keyword is a substring
// of its lowercased text.
type Rule struct {
	Name     string   `yaml:"name" json:"name"`
	Keywords []string `yaml:"keywords" json:"keywords"`
}

// DefaultRules is the base narrative configuration.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name: "Technology / Big Tech",
			Keywords: []string{
				"technology", "tech", "ai", "artificial intelligence",
				"google", "meta", "facebook", "twitter", "musk", "data",
			},
		},
		{
			Name: "Politics / Government",
			Keywords: []string{
				"election", "vote", "government", "policy", "bill",
				"parliament", "congress", "minister", "president", "party",
			},
		},
		{
			Name: "Geopolitics / Conflict",
			Keywords: []string{
				"war", "attack", "terror", "terrorist", "military",
				"missile", "killed", "invasion", "border", "conflict",
			},
		},
		{
			Name: "Economy / Jobs",
			Keywords: []string{
				"economy", "inflation", "jobs", "unemployment",
				"recession", "market", "wages", "growth",
			},
		},
	}
}

// Ruleset holds the configured rules with pre-lowercased keywords.
type Ruleset struct {
	rules []Rule
}

// NewRuleset creates a ruleset. Rule order is preserved; keywords are
// lowercased once for case-insensitive matching.
func NewRuleset(rules []Rule) *Ruleset {
	rs := &Ruleset{rules: make([]Rule, len(rules))}
	for i, r := range rules {
		keywords := make([]string, len(r.Keywords))
		for j, kw := range r.Keywords {
			keywords[j] = strings.ToLower(kw)
		}
		rs.rules[i] = Rule{Name: r.Name, Keywords: keywords}
	}
	return rs
}

// CombineText joins a post's title and body into the text the classifier
// scans. Missing fields are passed as empty strings.
func CombineText(title, selftext string) string {
	return strings.ToLower(title + " " + selftext)
}

// Classify returns the names of all rules the text matches, in rule
// configuration order. Matching is raw substring containment; the first
// matching keyword settles a rule and its remaining keywords are skipped.
func (rs *Ruleset) Classify(text string) []string {
	lower := strings.ToLower(text)

	var matched []string
	for _, rule := range rs.rules {
		for _, kw := range rule.Keywords {
			if strings.Contains(lower, kw) {
				matched = append(matched, rule.Name)
				break
			}
		}
	}
	return matched
}

// Names returns all rule names in configuration order.
func (rs *Ruleset) Names() []string {
	names := make([]string, len(rs.rules))
	for i, r := range rs.rules {
		names[i] = r.Name
	}
	return names
}

// SortedNames returns all rule names in lexical order. This is the order
// narrative selectors are populated in.
func (rs *Ruleset) SortedNames() []string {
	names := rs.Names()
	sort.Strings(names)
	return names
}

// Len returns the number of configured rules.
func (rs *Ruleset) Len() int {
	return len(rs.rules)
}
