package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/Guilhem-Bonnet/Omni-Reader/internal/domain"
)

var ErrAIChatNotConfigured = errors.New("ai api key not configured")

const aiSystemPrompt = "You are a helpful assistant for manga and anime. Provide concise and relevant information."

// AIChatService proxifie une complétion de chat vers un endpoint compatible
// OpenAI. Provider, modèle et clé viennent des settings; la clé peut aussi
// être injectée par l'environnement au démarrage.
type AIChatService struct {
	settings  func(ctx context.Context) (domain.AppSettings, error)
	envAPIKey string
	endpoint  string
	client    *http.Client
}

func NewAIChatService(settingsGetter func(ctx context.Context) (domain.AppSettings, error), envAPIKey string) *AIChatService {
	return &AIChatService{
		settings:  settingsGetter,
		envAPIKey: envAPIKey,
		client:    &http.Client{Timeout: 60 * time.Second},
	}
}

// WithEndpoint force l'endpoint de complétion (tests).
func (s *AIChatService) WithEndpoint(endpoint string) *AIChatService {
	if strings.TrimSpace(endpoint) != "" {
		s.endpoint = strings.TrimSpace(endpoint)
	}
	return s
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (s *AIChatService) Chat(ctx context.Context, message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		verr := &ValidationError{}
		verr.add("message", "required")
		return "", verr
	}

	settings, err := s.settings(ctx)
	if err != nil {
		return "", err
	}
	key := strings.TrimSpace(settings.AIAPIKey)
	if key == "" {
		key = strings.TrimSpace(s.envAPIKey)
	}
	if key == "" {
		return "", ErrAIChatNotConfigured
	}

	model := settings.AIModel
	if model == "" {
		model = domain.DefaultAppSettings().AIModel
	}

	body, err := json.Marshal(chatCompletionRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: aiSystemPrompt},
			{Role: "user", Content: message},
		},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.resolveEndpoint(settings), bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+key)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", errors.New("ai provider http error: " + resp.Status)
	}

	var out chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if len(out.Choices) == 0 {
		return "", errors.New("ai provider returned no choices")
	}
	return out.Choices[0].Message.Content, nil
}

func (s *AIChatService) resolveEndpoint(settings domain.AppSettings) string {
	if s.endpoint != "" {
		return s.endpoint
	}
	switch settings.AIProvider {
	case "custom":
		if u := strings.TrimSpace(settings.CustomAPIURL); u != "" {
			return strings.TrimRight(u, "/") + "/v1/chat/completions"
		}
	case "anthropic":
		return "https://api.anthropic.com/v1/chat/completions"
	case "google":
		return "https://generativelanguage.googleapis.com/v1beta/openai/chat/completions"
	}
	return "https://api.openai.com/v1/chat/completions"
}
