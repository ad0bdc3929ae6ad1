// Package sentiment tags message text by counting keyword hits.
package sentiment

import (
	"math"
	"strings"

	"github.com/onurcolak/whatsapp-bridge-service/internal/domain"
)

const (
	keywordWeight  = 0.3
	confidenceBase = 0.5
)

var positiveKeywords = []string{
	"obrigad", "ótimo", "otimo", "excelente", "perfeito", "maravilh",
	"adorei", "gostei", "parabéns", "parabens", "bom", "boa", "feliz",
	"incrível", "incrivel", "satisfeit",
	"thank", "great", "excellent", "perfect", "awesome", "love", "good", "happy",
}

var negativeKeywords = []string{
	"problema", "erro", "ruim", "péssim", "pessim", "horrível", "horrivel",
	"grave", "crítico", "critico", "reclama", "demora", "atraso", "cancelar",
	"insatisfeit", "defeito", "falha",
	"problem", "terrible", "awful", "broken", "fail", "wrong",
}

// Result carries the tag plus the bounded score used where a confidence is
// surfaced. Confidence is |score| + 0.5 and may exceed 1.
type Result struct {
	Sentiment  domain.Sentiment `json:"sentiment"`
	Score      float64          `json:"score"`
	Confidence float64          `json:"confidence"`
}

// Tag returns positive, negative or neutral for text.
func Tag(text string) domain.Sentiment {
	pos, neg := count(text)
	return tagFromCounts(pos, neg)
}

func Analyze(text string) Result {
	pos, neg := count(text)

	score := keywordWeight*float64(pos) - keywordWeight*float64(neg)
	score = math.Max(-1, math.Min(1, score))

	return Result{
		Sentiment:  tagFromCounts(pos, neg),
		Score:      score,
		Confidence: math.Abs(score) + confidenceBase,
	}
}

func count(text string) (pos, neg int) {
	if text == "" {
		return 0, 0
	}

	lower := strings.ToLower(text)
	return hits(lower, positiveKeywords), hits(lower, negativeKeywords)
}

// hits counts the keywords found in lower. A keyword is not counted when a
// longer keyword containing it also matched, so "problema" is one hit and
// not two.
func hits(lower string, keywords []string) int {
	n := 0
	for _, kw := range keywords {
		if strings.Contains(lower, kw) && !shadowed(lower, kw, keywords) {
			n++
		}
	}
	return n
}

func shadowed(lower, kw string, keywords []string) bool {
	for _, other := range keywords {
		if len(other) > len(kw) && strings.Contains(other, kw) && strings.Contains(lower, other) {
			return true
		}
	}
	return false
}

func tagFromCounts(pos, neg int) domain.Sentiment {
	switch {
	case pos > neg:
		return domain.SentimentPositive
	case neg > pos:
		return domain.SentimentNegative
	default:
		return domain.SentimentNeutral
	}
}
