package chat

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadRulesEmbeddedDefaults(t *testing.T) {
	rs, err := LoadRules("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rs.Rules) == 0 {
		t.Fatal("expected embedded rules")
	}
	if rs.Fallback == "" {
		t.Fatal("expected a fallback answer")
	}
}

func TestLoadRulesFromFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	content := `
rules:
  - name: hours
    keywords: [open, hours]
    answer: We are open 9 to 5.
fallback: Ask me about opening hours.
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write rules file: %v", err)
	}

	rs, err := LoadRules(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rs.Rules) != 1 || rs.Rules[0].Name != "hours" {
		t.Fatalf("unexpected rules: %+v", rs.Rules)
	}
}

func TestLoadRulesRejectsMissingFileAndEmptySet(t *testing.T) {
	if _, err := LoadRules("/nonexistent/rules.yaml"); err == nil {
		t.Fatal("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "empty.yaml")
	if err := os.WriteFile(path, []byte("rules: []\n"), 0o644); err != nil {
		t.Fatalf("write rules file: %v", err)
	}
	if _, err := LoadRules(path); err == nil {
		t.Fatal("expected error for empty rule set")
	}
}

func TestReplyMatchesKeywordsCaseInsensitively(t *testing.T) {
	rs, err := LoadRules("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	answer, topic := rs.Reply("Am I ELIGIBLE to donate blood?")
	if topic != "eligibility" {
		t.Fatalf("expected eligibility topic, got %q (answer %q)", topic, answer)
	}
	if answer == rs.Fallback {
		t.Fatal("expected a rule answer, got the fallback")
	}
}

func TestReplyPicksRuleWithMostKeywordHits(t *testing.T) {
	rs := &RuleSet{
		Rules: []Rule{
			{Name: "one", Keywords: []string{"blood"}, Answer: "a"},
			{Name: "two", Keywords: []string{"blood", "type"}, Answer: "b"},
		},
		Fallback: "none",
	}

	answer, topic := rs.Reply("what blood type do I need")
	if topic != "two" || answer != "b" {
		t.Fatalf("expected best-scoring rule, got topic=%q answer=%q", topic, answer)
	}
}

func TestReplyFallsBackWhenNothingMatches(t *testing.T) {
	rs, err := LoadRules("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	answer, topic := rs.Reply("zzzzz qqqqq")
	if topic != "" {
		t.Fatalf("expected no topic, got %q", topic)
	}
	if answer != rs.Fallback {
		t.Fatalf("expected fallback, got %q", answer)
	}
}
