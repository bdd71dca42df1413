package llm

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"homewise/internal/domain"
	"homewise/internal/llmclient"
)

// historyWindow caps how many recent turns are replayed per call. Text only;
// images are one-shot and never replayed.
const historyWindow = 6

// Options tunes the gateway. Zero values fall back to the defaults below.
type Options struct {
	Retry RetryPolicy
	// MinInterval is the minimum spacing between consecutive user-initiated
	// calls. Calls arriving sooner are delayed, not rejected.
	MinInterval time.Duration
	Logger      *slog.Logger
}

// Gateway wraps the generative-AI clients with throttling, retry, and model
// fallback. It exposes the two shapes the product needs: a single-shot analyze
// call and a streaming conversational turn.
type Gateway struct {
	chain llmclient.Client
}

// NewGateway builds the middleware chain around a primary and an optional
// cheaper fallback model. Both models share one retry policy and one pace
// limiter, the fallback starting with a fresh attempt budget.
func NewGateway(primary, fallback llmclient.Client, opts Options) *Gateway {
	if opts.MinInterval <= 0 {
		opts.MinInterval = 2500 * time.Millisecond
	}
	if opts.Retry.MaxAttempts == 0 {
		opts.Retry = DefaultRetryPolicy()
	}

	limiter := NewPaceLimiter(opts.MinInterval)

	mws := []Middleware{
		Throttle(limiter),
		WithLogging(opts.Logger),
	}
	if fallback != nil {
		mws = append(mws, Fallback(Wrap(fallback, Retry(opts.Retry))))
	}
	mws = append(mws, Retry(opts.Retry))

	return &Gateway{chain: Wrap(primary, mws...)}
}

// Analyze is the single-shot path: one prompt, optional inline image, full text
// back.
func (g *Gateway) Analyze(ctx context.Context, prompt string, image *llmclient.Image) (string, error) {
	return g.chain.Generate(ctx, llmclient.Request{
		Prompt: diagnosisPrompt(prompt),
		Image:  image,
	})
}

// SendTurn is the streaming conversational path. Chunks arrive in order through
// onChunk; the accumulated response is returned once the stream ends. History
// is capped to the most recent window and replayed text-only.
func (g *Gateway) SendTurn(ctx context.Context, text string, image *llmclient.Image, history []domain.Message, onChunk func(chunk string)) (string, error) {
	return g.chain.GenerateStream(ctx, llmclient.Request{
		Prompt:  diagnosisPrompt(text),
		Image:   image,
		History: historyTurns(history),
	}, onChunk)
}

func (g *Gateway) Close() error { return g.chain.Close() }

// historyTurns converts the recent window of session messages into replayable
// turns, dropping images and empty texts.
func historyTurns(history []domain.Message) []llmclient.Turn {
	if len(history) > historyWindow {
		history = history[len(history)-historyWindow:]
	}
	turns := make([]llmclient.Turn, 0, len(history))
	for _, msg := range history {
		text := strings.TrimSpace(msg.Text)
		if text == "" {
			continue
		}
		role := "user"
		if msg.Role == domain.RoleAssistant {
			role = "model"
		}
		turns = append(turns, llmclient.Turn{Role: role, Text: text})
	}
	return turns
}
