package pipeline

import (
	"github.com/PrimaveraSA/PrimaveraDistribuidores/internal"
	"github.com/PrimaveraSA/PrimaveraDistribuidores/internal/util"
)

const (
	learnMinOverlap = 50
	learnMinWordSim = 0.8
	learnMinWordLen = 3
)

// LearnSynonyms derives a symmetric word-equivalence table from the current
// confirmed-match set. It only admits likely spelling or abbreviation
// variants sitting in the same token slot of a pair that already overlaps
// heavily, so a stray confirmation cannot teach arbitrary associations.
func LearnSynonyms(confirmed []internal.ConfirmedMatch, ignore map[string]struct{}) map[string]string {
	dict := map[string]string{}

	for _, c := range confirmed {
		p1 := util.Normalize(c.ProductA)
		p2 := util.Normalize(c.ProductB)
		if p1 == "" || p2 == "" {
			continue
		}
		if simpleSimilarity(p1, p2) < learnMinOverlap {
			continue
		}

		words1 := util.FilterWords(util.SplitWords(p1), ignore)
		words2 := util.FilterWords(util.SplitWords(p2), ignore)

		n := len(words1)
		if len(words2) < n {
			n = len(words2)
		}
		for i := 0; i < n; i++ {
			w1, w2 := words1[i], words2[i]
			if w1 == w2 || len(w1) < learnMinWordLen || len(w2) < learnMinWordLen {
				continue
			}
			if simpleWordSim(w1, w2) >= learnMinWordSim {
				dict[w1] = w2
				dict[w2] = w1
			}
		}
	}

	return dict
}

// simpleSimilarity is the coarse gate used before learning: the percentage
// of left-side tokens found verbatim on the right.
func simpleSimilarity(t1, t2 string) float64 {
	w1 := util.SplitWords(t1)
	w2 := util.SplitWords(t2)

	set := make(map[string]struct{}, len(w2))
	for _, w := range w2 {
		set[w] = struct{}{}
	}

	hits := 0
	for _, w := range w1 {
		if _, ok := set[w]; ok {
			hits++
		}
	}

	denom := len(w1)
	if denom < 1 {
		denom = 1
	}
	return float64(hits) / float64(denom) * 100
}

// simpleWordSim compares two words character by character at equal positions,
// scaled by the longer length.
func simpleWordSim(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	ra, rb := []rune(a), []rune(b)
	n := len(ra)
	if len(rb) < n {
		n = len(rb)
	}
	same := 0
	for i := 0; i < n; i++ {
		if ra[i] == rb[i] {
			same++
		}
	}
	longer := len(ra)
	if len(rb) > longer {
		longer = len(rb)
	}
	return float64(same) / float64(longer)
}
