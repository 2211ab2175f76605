package category

import "time"

// RuleType selects which sampled field a rule inspects.
type RuleType string

const (
	RuleApp   RuleType = "app"
	RuleTitle RuleType = "title"
	RuleURL   RuleType = "url"
)

// Rule matches one field of a window sample, either as a case-insensitive
// substring or as a case-insensitive regular expression. IsValid records
// whether a regex pattern compiled; invalid rules never match.
type Rule struct {
	ID         string   `json:"id"`
	CategoryID string   `json:"category_id"`
	Type       RuleType `json:"type"`
	Pattern    string   `json:"pattern"`
	IsRegex    bool     `json:"is_regex"`
	IsValid    bool     `json:"is_valid"`
	Position   int      `json:"position"`
	TagIDs     []string `json:"tag_ids,omitempty"`
}

// Category is a named classification bucket with ordered rules and a set of
// default tags applied to every activity classified into it.
type Category struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Color         string    `json:"color"`
	IsDefault     bool      `json:"is_default"`
	Position      int       `json:"position"`
	Rules         []Rule    `json:"rules,omitempty"`
	DefaultTagIDs []string  `json:"default_tag_ids,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// OtherCategoryName is the seeded fallback bucket for unmatched samples.
const OtherCategoryName = "Other"
