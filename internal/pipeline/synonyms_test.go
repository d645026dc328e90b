package pipeline

import (
	"testing"

	"github.com/PrimaveraSA/PrimaveraDistribuidores/internal"
)

var testIgnore = map[string]struct{}{
	"DEL": {}, "LA": {}, "EL": {}, "LOS": {}, "LAS": {}, "Y": {}, "EN": {}, "CON": {}, "PARA": {}, "S/": {},
}

func TestLearnSynonyms(t *testing.T) {
	confirmed := []internal.ConfirmedMatch{
		{ProductA: "Ace Deterjente 1kg", ProductB: "Ace Detergente 1kg"},
	}

	dict := LearnSynonyms(confirmed, testIgnore)
	if dict["DETERJENTE"] != "DETERGENTE" || dict["DETERGENTE"] != "DETERJENTE" {
		t.Fatalf("expected symmetric pair, got %v", dict)
	}
}

func TestLearnSynonymsSymmetry(t *testing.T) {
	confirmed := []internal.ConfirmedMatch{
		{ProductA: "Ace Deterjente 1kg", ProductB: "Ace Detergente 1kg"},
		{ProductA: "Sublime Chocolat 30g Nestle", ProductB: "Sublime Chocolate 30g Nestle"},
	}

	dict := LearnSynonyms(confirmed, testIgnore)
	for k, v := range dict {
		if dict[v] != k {
			t.Fatalf("dict[dict[%q]] = %q, want %q", k, dict[v], k)
		}
	}
}

func TestLearnSkipsDissimilarPairs(t *testing.T) {
	// Coarse overlap below 50: nothing should be learned from this pair.
	confirmed := []internal.ConfirmedMatch{
		{ProductA: "Taladro Bosch 500w", ProductB: "Leche Gloria Entera 400g"},
	}

	if dict := LearnSynonyms(confirmed, testIgnore); len(dict) != 0 {
		t.Fatalf("learned from dissimilar pair: %v", dict)
	}
}

func TestLearnSkipsShortWords(t *testing.T) {
	confirmed := []internal.ConfirmedMatch{
		{ProductA: "Pil Leche Entera 1L", ProductB: "Pil Leche Entera 1L"},
	}

	if dict := LearnSynonyms(confirmed, testIgnore); len(dict) != 0 {
		t.Fatalf("identical pair taught something: %v", dict)
	}
}

func TestSimpleWordSim(t *testing.T) {
	cases := []struct {
		a, b string
		want float64
	}{
		{"DETERGENTE", "DETERJENTE", 0.9},
		{"400G", "400GR", 0.8},
		{"LECHE", "LECHE", 1},
		{"", "LECHE", 0},
	}
	for _, tc := range cases {
		if got := simpleWordSim(tc.a, tc.b); got != tc.want {
			t.Fatalf("simpleWordSim(%q,%q)=%v want %v", tc.a, tc.b, got, tc.want)
		}
	}
}
