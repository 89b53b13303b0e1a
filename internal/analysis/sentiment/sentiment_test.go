package sentiment

import (
	"math"
	"testing"
)

func TestTierOfStarLabels(t *testing.T) {
	cases := map[string]Tier{
		"1 star":  Negative,
		"2 stars": Negative,
		"3 stars": Neutral,
		"4 stars": Positive,
		"5 stars": Positive,
	}
	for label, want := range cases {
		if got := TierOf(label); got != want {
			t.Fatalf("TierOf(%q) = %s, want %s", label, got, want)
		}
	}
}

func TestTierOfLoosePrefix(t *testing.T) {
	if got := TierOf("2"); got != Negative {
		t.Fatalf("TierOf(\"2\") = %s, want negative", got)
	}
	if got := TierOf("3 STARS"); got != Neutral {
		t.Fatalf("TierOf(\"3 STARS\") = %s, want neutral", got)
	}
}

func TestNormalizeDefaults(t *testing.T) {
	label, score := Normalize("", 0)
	if label != DefaultLabel {
		t.Fatalf("expected default label, got %q", label)
	}
	if score != DefaultScore {
		t.Fatalf("expected default score, got %v", score)
	}
}

func TestNormalizeRejectsNaN(t *testing.T) {
	_, score := Normalize("4 stars", math.NaN())
	if score != DefaultScore {
		t.Fatalf("expected default score for NaN, got %v", score)
	}
}

func TestNormalizeKeepsValidInput(t *testing.T) {
	label, score := Normalize("5 stars", 0.93)
	if label != "5 stars" || score != 0.93 {
		t.Fatalf("valid input modified: %q %v", label, score)
	}
}
