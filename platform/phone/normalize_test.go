package phone

import "testing"

func TestNormalizeE164FormatsLocalBangladeshiNumbers(t *testing.T) {
	got := NormalizeE164("01712345678")
	if got != "+8801712345678" {
		t.Fatalf("expected +8801712345678, got %q", got)
	}
}

func TestNormalizeE164KeepsInternationalPrefix(t *testing.T) {
	got := NormalizeE164("+880 1712 345 678")
	if got != "+8801712345678" {
		t.Fatalf("expected +8801712345678, got %q", got)
	}
}

func TestNormalizeE164ReturnsTrimmedInputOnParseFailure(t *testing.T) {
	if got := NormalizeE164("  not-a-number  "); got != "not-a-number" {
		t.Fatalf("expected trimmed input back, got %q", got)
	}
}

func TestNormalizeE164EmptyInput(t *testing.T) {
	if got := NormalizeE164("   "); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
}
