// Package ai produces reply text: suggested answers for inbound messages and
// companion replies.
package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/onurcolak/whatsapp-bridge-service/internal/domain"
)

type Generator interface {
	Suggest(ctx context.Context, message string, sentiment domain.Sentiment) (string, error)
	Reply(ctx context.Context, personality domain.Personality, message string) (string, error)
}

// TemplateGenerator answers from fixed templates. It is used when no model
// is configured and as the deterministic generator in tests.
type TemplateGenerator struct{}

var suggestionTemplates = map[domain.Sentiment]string{
	domain.SentimentPositive: "Muito obrigado pelo seu retorno! Ficamos felizes em ajudar. Posso fazer mais alguma coisa por você?",
	domain.SentimentNegative: "Sentimos muito pelo transtorno. Já estamos verificando o ocorrido e retornaremos em breve com uma solução.",
	domain.SentimentNeutral:  "Obrigado pela mensagem! Recebemos sua solicitação e responderemos em instantes.",
}

var personalityOpeners = map[domain.Personality]string{
	domain.PersonalityFriendly:     "Oi! 😊",
	domain.PersonalityProfessional: "Olá, obrigado pelo contato.",
	domain.PersonalityCasual:       "E aí!",
	domain.PersonalityEmpathetic:   "Entendo como você se sente.",
}

func (TemplateGenerator) Suggest(ctx context.Context, message string, sentiment domain.Sentiment) (string, error) {
	tpl, ok := suggestionTemplates[sentiment]
	if !ok {
		tpl = suggestionTemplates[domain.SentimentNeutral]
	}
	return tpl, nil
}

func (TemplateGenerator) Reply(ctx context.Context, personality domain.Personality, message string) (string, error) {
	opener, ok := personalityOpeners[personality]
	if !ok {
		return "", fmt.Errorf("%w: unknown personality %q", domain.ErrInvalidInput, personality)
	}
	msg := strings.TrimSpace(message)
	if msg == "" {
		return opener, nil
	}
	return fmt.Sprintf("%s Recebi sua mensagem: \"%s\".", opener, msg), nil
}
