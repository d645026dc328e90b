package pipeline

import (
	"testing"

	"github.com/PrimaveraSA/PrimaveraDistribuidores/internal"
)

func TestScoreSelfSimilarity(t *testing.T) {
	scorer := NewScorer(nil, testIgnore)

	for _, text := range []string{
		"Leche Gloria Entera 400g",
		"Arroz Costeño Extra 5kg",
		"Café Altomayo Clásico 200g",
	} {
		if got := scorer.Score(text, text); got != 100 {
			t.Fatalf("Score(%q, %q) = %v, want 100", text, text, got)
		}
	}
}

func TestScoreConfirmedGuard(t *testing.T) {
	confirmed := []internal.ConfirmedMatch{
		{ProductA: "Leche Gloria Entera 400gr", ProductB: "Leche Gloria Entera 400g"},
	}
	scorer := NewScorer(confirmed, testIgnore)

	if got := scorer.Score("Leche Gloria Entera 400gr", "Leche Gloria Entera 400gr"); got != 0 {
		t.Fatalf("confirmed productA as first arg scored %v, want 0", got)
	}
	if got := scorer.Score("Leche Gloria Entera 400g", "Leche Gloria Entera 400gr"); got != 0 {
		t.Fatalf("confirmed productA as second arg scored %v, want 0", got)
	}
}

func TestScoreTokenRules(t *testing.T) {
	scorer := NewScorer(nil, testIgnore)

	// Substring: 400G is contained in 400GR.
	if got := scorer.Score("Leche Gloria Entera 400g", "Leche Gloria Entera 400gr"); got != 100 {
		t.Fatalf("got %v, want 100", got)
	}

	// Digit projection: 400G and G-400 share the digit string 400.
	if got := scorer.Score("Leche Gloria 400g", "Leche Gloria g400"); got != 100 {
		t.Fatalf("digit projection got %v, want 100", got)
	}

	// Partial overlap is scored against the left side's token count.
	got := scorer.Score("Leche Gloria Entera 400g", "Leche Evaporada Gloria 400g")
	if got != 75 {
		t.Fatalf("got %v, want 75", got)
	}
}

func TestScoreUsesLearnedSynonyms(t *testing.T) {
	confirmed := []internal.ConfirmedMatch{
		{ProductA: "Ace Deterjente 1kg", ProductB: "Ace Detergente 1kg"},
	}
	scorer := NewScorer(confirmed, testIgnore)

	// DETERGENTE and DETERJENTE are not substrings of each other; only the
	// learned substitution lets them count as a match.
	got := scorer.Score("Bolivar Detergente 2kg", "Bolivar Deterjente 2kg")
	if got != 100 {
		t.Fatalf("got %v, want 100", got)
	}

	bare := NewScorer(nil, testIgnore)
	if got := bare.Score("Bolivar Detergente 2kg", "Bolivar Deterjente 2kg"); got >= 100 {
		t.Fatalf("unlearned scorer should not reach 100, got %v", got)
	}
}

func TestScoreIgnoreWordFallback(t *testing.T) {
	scorer := NewScorer(nil, testIgnore)
	if got := scorer.Score("el la", "el la"); got != 100 {
		t.Fatalf("got %v, want 100", got)
	}
}

func TestScoreRepeatedTokensCountOnce(t *testing.T) {
	scorer := NewScorer(nil, testIgnore)
	// Three tokens on the left, the repeated one matches only once.
	got := scorer.Score("Leche Leche Gloria", "Leche Gloria")
	want := 2.0 / 3.0 * 100
	if got != want {
		t.Fatalf("got %v, want %v", got, want)
	}
}
