package sentiment

import (
	"strings"
	"testing"

	"github.com/onurcolak/whatsapp-bridge-service/internal/domain"
)

func TestTag_KnownPhrases(t *testing.T) {
	cases := []struct {
		text string
		want domain.Sentiment
	}{
		{"Ótimo, obrigado!", domain.SentimentPositive},
		{"Problema grave, erro crítico", domain.SentimentNegative},
		{"", domain.SentimentNeutral},
		{"obrigado pelo excelente atendimento", domain.SentimentPositive},
		{"amanhã às 10h", domain.SentimentNeutral},
		// one hit on each side cancels out
		{"bom, mas ruim", domain.SentimentNeutral},
		// "problema" counts once even though it contains "problem"
		{"obrigado, o problema foi resolvido", domain.SentimentNeutral},
		{"there is a problem", domain.SentimentNegative},
	}

	for _, tc := range cases {
		if got := Tag(tc.text); got != tc.want {
			t.Errorf("Tag(%q) = %q, want %q", tc.text, got, tc.want)
		}
	}
}

func TestTag_CaseInvariant(t *testing.T) {
	inputs := []string{
		"Ótimo, obrigado!",
		"Problema grave, erro crítico",
		"Thank you, GREAT service",
		"nothing to see here",
	}

	for _, in := range inputs {
		lower := Tag(strings.ToLower(in))
		upper := Tag(strings.ToUpper(in))
		if lower != upper || lower != Tag(in) {
			t.Errorf("Tag not case invariant for %q: lower=%q upper=%q", in, lower, upper)
		}
	}
}

func TestAnalyze_ScoreIsClampedAndConfidenceUnbounded(t *testing.T) {
	res := Analyze("obrigado, ótimo, excelente, perfeito, adorei, maravilhoso")
	if res.Sentiment != domain.SentimentPositive {
		t.Fatalf("expected positive, got %q", res.Sentiment)
	}
	if res.Score != 1 {
		t.Errorf("expected score clamped to 1, got %v", res.Score)
	}
	if res.Confidence != 1.5 {
		t.Errorf("expected confidence 1.5, got %v", res.Confidence)
	}

	neg := Analyze("Problema grave, erro crítico")
	if neg.Score != -1 {
		t.Errorf("expected score clamped to -1, got %v", neg.Score)
	}

	neutral := Analyze("")
	if neutral.Score != 0 || neutral.Confidence != 0.5 {
		t.Errorf("expected zero score and 0.5 confidence, got %+v", neutral)
	}
}
