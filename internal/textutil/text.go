// Package textutil holds the tokenizer, sentence splitter and stopword list
// shared by the chunker, the TF-IDF embedder, the summarizer and lexical ranking.
package textutil

import (
	"math"
	"regexp"
	"strings"
)

var (
	wordRe     = regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*|\p{N}+`)
	sentenceRe = regexp.MustCompile(`(?m)(?U)([^.!?]+[.!?])`)
	stopwords  = buildStopwords()
)

// Words returns the lower-cased word tokens of s, stopwords included.
func Words(s string) []string {
	return wordRe.FindAllString(strings.ToLower(s), -1)
}

// Terms returns the lower-cased word tokens of s with stopwords removed.
func Terms(s string) []string {
	words := Words(s)
	out := words[:0]
	for _, w := range words {
		if !IsStopword(w) {
			out = append(out, w)
		}
	}
	return out
}

// TermSet is the set of distinct Terms of s.
func TermSet(s string) map[string]struct{} {
	terms := Terms(s)
	set := make(map[string]struct{}, len(terms))
	for _, t := range terms {
		set[t] = struct{}{}
	}
	return set
}

// IsStopword reports whether w (already lower-cased) carries no retrieval signal.
func IsStopword(w string) bool {
	_, ok := stopwords[w]
	return ok
}

// Sentences splits text into trimmed sentences. Text without terminal
// punctuation comes back as a single sentence; blank text as none.
func Sentences(text string) []string {
	raw := sentenceRe.FindAllString(text, -1)
	tail := text
	if len(raw) > 0 {
		last := raw[len(raw)-1]
		tail = text[strings.LastIndex(text, last)+len(last):]
	}
	out := make([]string, 0, len(raw)+1)
	for _, s := range raw {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	if t := strings.TrimSpace(tail); t != "" {
		out = append(out, t)
	}
	return out
}

// Ochiai is |A∩B| / sqrt(|A||B|) between a query term set and the terms of text.
func Ochiai(query map[string]struct{}, text string) float64 {
	doc := TermSet(text)
	if len(query) == 0 || len(doc) == 0 {
		return 0
	}
	inter := 0
	for t := range doc {
		if _, ok := query[t]; ok {
			inter++
		}
	}
	return float64(inter) / math.Sqrt(float64(len(query))*float64(len(doc)))
}

func buildStopwords() map[string]struct{} {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "for", "to", "of", "in", "on", "at", "by", "with", "as", "is", "are", "was", "were", "be", "been", "being", "it", "this", "that", "these", "those", "from", "up", "down", "over", "under", "again", "further", "than", "so", "such", "into", "about", "between", "through", "during", "before", "after", "above", "below", "out", "off", "own", "same", "too", "very", "can", "will", "just", "don", "should", "now",
		"what", "which", "who", "how", "does", "do", "did", "i", "me", "my", "you", "your", "we", "our",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
