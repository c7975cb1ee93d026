package summarizer

import (
	"math"
	"sort"
	"strings"

	"ragchat/internal/textutil"
)

// FrequencySummarizer ranks sentences by normalized term frequency and,
// when a query is given, by term overlap with that query.
type FrequencySummarizer struct {
	// QueryWeight scales the query-overlap bonus added to each sentence score.
	QueryWeight float64
}

// NewFrequencySummarizer creates a frequency-based sentence ranker summarizer.
func NewFrequencySummarizer() *FrequencySummarizer {
	return &FrequencySummarizer{QueryWeight: 2}
}

// Summarize returns up to maxSentences sentences of text, kept in their
// original order.
func (s *FrequencySummarizer) Summarize(text string, maxSentences int) (string, error) {
	return s.SummarizeFor("", text, maxSentences)
}

// SummarizeFor is Summarize biased towards sentences that share terms with query.
func (s *FrequencySummarizer) SummarizeFor(query, text string, maxSentences int) (string, error) {
	if maxSentences <= 0 {
		maxSentences = 5
	}
	sentences := dedupe(textutil.Sentences(text))
	if len(sentences) == 0 {
		return "", nil
	}

	freq := map[string]float64{}
	maxF := 0.0
	for _, sent := range sentences {
		for _, term := range textutil.Terms(sent) {
			freq[term]++
			maxF = math.Max(maxF, freq[term])
		}
	}

	qset := textutil.TermSet(query)
	type pair struct {
		idx   int
		score float64
	}
	scores := make([]pair, len(sentences))
	for i, sent := range sentences {
		terms := textutil.Terms(sent)
		score := 0.0
		for _, term := range terms {
			score += freq[term] / maxF
		}
		// length normalization keeps long sentences from winning by size alone
		if n := float64(len(terms)); n > 0 {
			score /= math.Sqrt(n)
		}
		if len(qset) > 0 {
			score += s.QueryWeight * textutil.Ochiai(qset, sent)
		}
		scores[i] = pair{i, score}
	}
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].score > scores[j].score })

	n := min(maxSentences, len(scores))
	selected := make([]int, n)
	for i := range selected {
		selected[i] = scores[i].idx
	}
	sort.Ints(selected)
	out := make([]string, n)
	for i, idx := range selected {
		out[i] = sentences[idx]
	}
	return strings.Join(out, " "), nil
}

// dedupe drops repeated sentences, which overlapping chunks produce.
func dedupe(sentences []string) []string {
	seen := make(map[string]struct{}, len(sentences))
	out := sentences[:0]
	for _, s := range sentences {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
