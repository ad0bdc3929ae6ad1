package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/onurcolak/whatsapp-bridge-service/environments"
	"github.com/onurcolak/whatsapp-bridge-service/internal/domain"
	"github.com/onurcolak/whatsapp-bridge-service/pkg/logger"
)

type GeminiGenerator struct {
	client *genai.Client
	model  *genai.GenerativeModel
	cfg    environments.AIConfig
}

// NewGeminiGenerator builds a generator safe for concurrent use. Extra
// options are appended to the API key, e.g. a custom endpoint.
func NewGeminiGenerator(ctx context.Context, cfg environments.AIConfig, opts ...option.ClientOption) (*GeminiGenerator, error) {
	opts = append([]option.ClientOption{option.WithAPIKey(cfg.GeminiAPIKey)}, opts...)
	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	model := client.GenerativeModel(cfg.GeminiModel)
	model.SetTemperature(0.7)
	model.SetTopP(0.9)
	model.SetTopK(40)

	logger.Infof("Gemini generator initialised with model %s", cfg.GeminiModel)

	return &GeminiGenerator{client: client, model: model, cfg: cfg}, nil
}

func (g *GeminiGenerator) Close() error {
	return g.client.Close()
}

func (g *GeminiGenerator) Suggest(ctx context.Context, message string, sentiment domain.Sentiment) (string, error) {
	var prompt strings.Builder
	prompt.WriteString("Você é um atendente de suporte via WhatsApp. ")
	prompt.WriteString("Escreva uma resposta curta, educada e em português para a mensagem do cliente abaixo. ")
	fmt.Fprintf(&prompt, "O sentimento detectado é %q.\n\n", sentiment)
	fmt.Fprintf(&prompt, "Cliente: %s\nResposta:", message)

	return g.generate(ctx, prompt.String())
}

func (g *GeminiGenerator) Reply(ctx context.Context, personality domain.Personality, message string) (string, error) {
	prompt := fmt.Sprintf(
		"Você é um companheiro virtual no WhatsApp com personalidade %q. "+
			"Responda em uma ou duas frases, em português, mantendo essa personalidade.\n\nMensagem: %s\nResposta:",
		personality, message,
	)
	return g.generate(ctx, prompt)
}

func (g *GeminiGenerator) generate(ctx context.Context, prompt string) (string, error) {
	if g.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.cfg.Timeout)
		defer cancel()
	}

	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("model returned no candidates")
	}

	var out strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			out.WriteString(string(text))
		}
	}

	reply := strings.TrimSpace(out.String())
	if reply == "" {
		return "", fmt.Errorf("model returned an empty reply")
	}
	return reply, nil
}
