package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Points are the fixed awards per action.
type Points struct {
	Vote         int `yaml:"vote"`
	Contribution int `yaml:"contribution"`
	Comment      int `yaml:"comment"`
	Feedback     int `yaml:"feedback"`
	Proposal     int `yaml:"proposal"`
}

// Flags switch the behaviours that are kept for compatibility but may be unwanted.
type Flags struct {
	// AwardVoteRemoval awards vote points when a vote is withdrawn as well as when cast.
	AwardVoteRemoval bool `yaml:"award_vote_removal"`
	// AdminStatusOverride lets an admin write any status, skipping the lifecycle order.
	AdminStatusOverride bool `yaml:"admin_status_override"`
	// FundOnApproval recomputes an event's total from approved fund pledges on review.
	FundOnApproval bool `yaml:"fund_on_approval"`
}

// Rules is the content of the rules file.
type Rules struct {
	Points Points `yaml:"points"`
	Flags  Flags  `yaml:"flags"`
}

// DefaultRules returns the stock point amounts and flags.
func DefaultRules() Rules {
	return Rules{
		Points: Points{Vote: 5, Contribution: 10, Comment: 2, Feedback: 3, Proposal: 10},
		Flags:  Flags{AwardVoteRemoval: true, AdminStatusOverride: true, FundOnApproval: false},
	}
}

// LoadRules reads rules from path. Keys missing from the file keep their defaults.
func LoadRules(path string) (Rules, error) {
	rules := DefaultRules()
	data, err := os.ReadFile(path)
	if err != nil {
		return rules, fmt.Errorf("failed to read rules file: %w", err)
	}
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return rules, fmt.Errorf("failed to parse rules file: %w", err)
	}
	if err := rules.Validate(); err != nil {
		return rules, err
	}
	return rules, nil
}

// LoadRulesOrDefault loads rules from path, or returns the defaults when the
// file does not exist. A file that exists but is invalid is still an error.
func LoadRulesOrDefault(path string) (Rules, error) {
	rules, err := LoadRules(path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultRules(), nil
	}
	return rules, err
}

// Validate rejects negative awards.
func (r Rules) Validate() error {
	p := r.Points
	for name, v := range map[string]int{
		"vote": p.Vote, "contribution": p.Contribution, "comment": p.Comment,
		"feedback": p.Feedback, "proposal": p.Proposal,
	} {
		if v < 0 {
			return fmt.Errorf("points.%s must not be negative", name)
		}
	}
	return nil
}
