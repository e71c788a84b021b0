// Package enhance rewrites free-text character descriptions through an
// external language model. The feature is strictly best-effort: when the
// backend is unconfigured, unreachable, or returns garbage, the caller
// gets their original text back unchanged. Enhancement may improve a
// description; it must never lose one.
package enhance

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"github.com/keyxmakerx/dossier/internal/config"
	"github.com/keyxmakerx/dossier/internal/sanitize"
)

const systemPrompt = "You are a creative writing assistant for tabletop RPG " +
	"character descriptions. Rewrite the provided description to be more vivid " +
	"and evocative while preserving every stated fact. Answer with the rewritten " +
	"description only, no preamble, no markup."

// Backend is the model call behind the enhancement service. Implementations
// return the rewritten text or an error; the service decides what a failure
// means for the caller.
type Backend interface {
	Rewrite(ctx context.Context, system, prompt string) (string, error)
}

// EnhanceService rewrites character descriptions.
type EnhanceService interface {
	// Enhance returns an improved version of text, or text itself when
	// enhancement is unavailable or fails. The error channel is absent on
	// purpose: there is no failure mode the caller should handle.
	Enhance(ctx context.Context, text, name, setting string) string
}

type enhanceService struct {
	backend Backend
	timeout time.Duration
}

// NewEnhanceService creates an enhancement service over the given backend.
// A nil backend is valid and yields a permanent pass-through.
func NewEnhanceService(backend Backend, timeout time.Duration) EnhanceService {
	return &enhanceService{backend: backend, timeout: timeout}
}

// Enhance rewrites text in the context of a character name and campaign
// setting. Whatever goes wrong, the caller gets usable text back.
func (s *enhanceService) Enhance(ctx context.Context, text, name, setting string) string {
	if strings.TrimSpace(text) == "" {
		return text
	}
	if s.backend == nil {
		return text
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	prompt := buildPrompt(text, name, setting)
	out, err := s.backend.Rewrite(ctx, systemPrompt, prompt)
	if err != nil {
		slog.Warn("enhancement backend failed, returning original text",
			slog.Any("error", err),
		)
		return text
	}

	out = sanitize.Text(out)
	if out == "" {
		slog.Warn("enhancement backend returned empty text, returning original")
		return text
	}
	return out
}

// buildPrompt frames the description with whatever context the caller has.
func buildPrompt(text, name, setting string) string {
	var b strings.Builder
	if name != "" {
		fmt.Fprintf(&b, "Character name: %s\n", name)
	}
	if setting != "" {
		fmt.Fprintf(&b, "Campaign setting: %s\n", setting)
	}
	fmt.Fprintf(&b, "Description to rewrite:\n%s", text)
	return b.String()
}

// --- OpenAI backend ---

// openaiBackend implements Backend against an OpenAI-compatible chat
// completions API.
type openaiBackend struct {
	client openai.Client
	model  string
}

// NewOpenAIBackend creates a backend from the enhancement config, or nil
// when no API key is configured. Retries are disabled; the service's
// pass-through already covers transient failures, and a stalled retry
// loop would hold the request open past its point.
func NewOpenAIBackend(cfg config.EnhanceConfig) Backend {
	if cfg.APIKey == "" {
		return nil
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &openaiBackend{
		client: openai.NewClient(opts...),
		model:  cfg.Model,
	}
}

// Rewrite performs one chat completion round trip.
func (b *openaiBackend) Rewrite(ctx context.Context, system, prompt string) (string, error) {
	resp, err := b.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(b.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
