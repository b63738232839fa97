package summarizer

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"travelchat/internal/documents"
	"travelchat/internal/domain"
)

var (
	tokenPattern    = regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`)
	sentencePattern = regexp.MustCompile(`[^.!?]+[.!?]+`)
)

// FrequencySummarizer picks the sentences whose words recur most across
// the text, stopwords excluded.
type FrequencySummarizer struct {
	stopwords map[string]struct{}
}

// NewFrequencySummarizer creates a frequency-based summarizer.
func NewFrequencySummarizer() *FrequencySummarizer {
	return &FrequencySummarizer{stopwords: defaultStopwords()}
}

// Summarize returns up to maxSentences sentences in their original order.
func (s *FrequencySummarizer) Summarize(text string, maxSentences int) (string, error) {
	if maxSentences <= 0 {
		maxSentences = 2
	}
	sentences := sentencePattern.FindAllString(text, -1)
	if len(sentences) == 0 {
		return strings.TrimSpace(text), nil
	}

	freq := map[string]float64{}
	tokens := make([][]string, len(sentences))
	for i, sent := range sentences {
		tokens[i] = s.tokens(sent)
		for _, tok := range tokens[i] {
			if _, ok := s.stopwords[tok]; !ok {
				freq[tok]++
			}
		}
	}
	maxF := 0.0
	for _, v := range freq {
		maxF = math.Max(maxF, v)
	}

	type scored struct {
		idx   int
		score float64
	}
	scores := make([]scored, len(sentences))
	for i := range sentences {
		total := 0.0
		for _, tok := range tokens[i] {
			total += freq[tok]
		}
		if maxF > 0 {
			total /= maxF
		}
		if l := float64(len(tokens[i])); l > 0 {
			total /= math.Sqrt(l)
		}
		scores[i] = scored{i, total}
	}
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].score > scores[j].score })
	if maxSentences > len(scores) {
		maxSentences = len(scores)
	}

	selected := make([]int, maxSentences)
	for i := range selected {
		selected[i] = scores[i].idx
	}
	sort.Ints(selected)
	out := make([]string, len(selected))
	for i, idx := range selected {
		out[i] = strings.TrimSpace(sentences[idx])
	}
	return strings.Join(out, " "), nil
}

func (s *FrequencySummarizer) tokens(text string) []string {
	return tokenPattern.FindAllString(strings.ToLower(text), -1)
}

// Corpus summarizes the descriptions of every document into a short
// overview of the catalog.
func Corpus(sum domain.Summarizer, docs []domain.TravelDocument, maxSentences int) (string, error) {
	var b strings.Builder
	for _, d := range docs {
		desc := strings.TrimSpace(d.Description)
		if desc == "" {
			desc = strings.TrimSpace(documents.Text(d))
		}
		if desc == "" {
			continue
		}
		b.WriteString(desc)
		if !strings.ContainsAny(desc[len(desc)-1:], ".!?") {
			b.WriteString(".")
		}
		b.WriteString(" ")
	}
	return sum.Summarize(b.String(), maxSentences)
}

func defaultStopwords() map[string]struct{} {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "for", "to", "of", "in", "on", "at", "by", "with", "as", "is", "are", "was", "were", "be", "been", "being", "it", "this", "that", "these", "those", "from", "up", "down", "over", "under", "again", "further", "than", "so", "such", "into", "about", "between", "through", "during", "before", "after", "above", "below", "out", "off", "own", "same", "too", "very", "can", "will", "just", "don", "should", "now",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
