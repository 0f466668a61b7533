// Package chat answers common donor questions from a rule file.
package chat

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed rules.yaml
var defaultRules []byte

// Rule maps a set of trigger keywords to a canned answer.
type Rule struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
	Answer   string   `yaml:"answer"`
}

// RuleSet holds the FAQ rules plus the fallback reply.
type RuleSet struct {
	Rules    []Rule `yaml:"rules"`
	Fallback string `yaml:"fallback"`
}

// LoadRules reads the rule file at path, or the embedded defaults when
// path is empty.
func LoadRules(path string) (*RuleSet, error) {
	raw := defaultRules
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("chat: read rules file %q: %w", path, err)
		}
		raw = b
	}

	var rs RuleSet
	if err := yaml.Unmarshal(raw, &rs); err != nil {
		return nil, fmt.Errorf("chat: parse rules: %w", err)
	}
	if len(rs.Rules) == 0 {
		return nil, fmt.Errorf("chat: rule set is empty")
	}
	if rs.Fallback == "" {
		rs.Fallback = "Sorry, I don't have an answer for that. Please contact our support team."
	}

	// Lowercase keywords once so Reply can match case-insensitively.
	for i := range rs.Rules {
		for j, kw := range rs.Rules[i].Keywords {
			rs.Rules[i].Keywords[j] = strings.ToLower(kw)
		}
	}
	return &rs, nil
}

// Reply picks the rule with the most keyword hits in the message.
// Ties go to the earlier rule; zero hits returns the fallback.
func (rs *RuleSet) Reply(message string) (string, string) {
	lower := strings.ToLower(message)

	bestScore := 0
	var best *Rule
	for i := range rs.Rules {
		score := 0
		for _, kw := range rs.Rules[i].Keywords {
			if strings.Contains(lower, kw) {
				score++
			}
		}
		if score > bestScore {
			bestScore = score
			best = &rs.Rules[i]
		}
	}

	if best == nil {
		return rs.Fallback, ""
	}
	return best.Answer, best.Name
}
