package pipeline

import (
	"sort"
	"strings"

	"github.com/PrimaveraSA/PrimaveraDistribuidores/internal"
	"github.com/PrimaveraSA/PrimaveraDistribuidores/internal/util"
)

// Scorer rates how much of a master description is explained by a price-list
// description, in [0,100]. It is built once per run from a snapshot of the
// confirmed set: the learned dictionary and the confirmed guard stay frozen
// until the confirmed cache is reloaded, which matches the run boundaries.
type Scorer struct {
	ignore   map[string]struct{}
	dict     map[string]string
	dictKeys []string
	// confirmed price-side descriptions, normalized; anything here must not
	// be offered as a candidate again.
	guard map[string]struct{}
}

func NewScorer(confirmed []internal.ConfirmedMatch, ignore map[string]struct{}) *Scorer {
	dict := LearnSynonyms(confirmed, ignore)
	keys := make([]string, 0, len(dict))
	for k := range dict {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	guard := make(map[string]struct{}, len(confirmed))
	for _, c := range confirmed {
		guard[util.Normalize(c.ProductA)] = struct{}{}
	}

	return &Scorer{ignore: ignore, dict: dict, dictKeys: keys, guard: guard}
}

func (s *Scorer) Score(a, b string) float64 {
	textA := util.Normalize(a)
	textB := util.Normalize(b)

	if _, hit := s.guard[textA]; hit {
		return 0
	}
	if _, hit := s.guard[textB]; hit {
		return 0
	}

	wordsA := s.tokenize(textA)
	wordsB := s.tokenize(textB)
	if len(wordsA) == 0 {
		return 0
	}

	setB := make(map[string]struct{}, len(wordsB))
	for _, w := range wordsB {
		setB[w] = struct{}{}
	}

	matches := 0
	counted := map[string]struct{}{}
	for _, word := range wordsA {
		if _, done := counted[word]; done {
			continue
		}
		if matchesAny(word, wordsB, setB) {
			matches++
			counted[word] = struct{}{}
		}
	}

	return float64(matches) / float64(len(wordsA)) * 100
}

// tokenize applies the learned substitutions and then splits and filters.
// Substitution is sequential in sorted key order: a symmetric pair therefore
// collapses onto one canonical spelling in both texts, which is what lets
// learned variants count as matches.
func (s *Scorer) tokenize(text string) []string {
	words := util.SplitWords(text)
	for _, key := range s.dictKeys {
		val := s.dict[key]
		for i, w := range words {
			if w == key {
				words[i] = val
			}
		}
	}

	filtered := util.FilterWords(words, s.ignore)
	if len(filtered) == 0 {
		return words
	}
	return filtered
}

func matchesAny(word string, wordsB []string, setB map[string]struct{}) bool {
	if _, ok := setB[word]; ok {
		return true
	}
	for _, bw := range wordsB {
		if strings.Contains(bw, word) || strings.Contains(word, bw) {
			return true
		}
	}
	if util.HasDigit(word) {
		proj := util.DigitsOnly(word)
		for _, bw := range wordsB {
			if util.DigitsOnly(bw) == proj {
				return true
			}
		}
	}
	return false
}
