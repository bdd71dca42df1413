package llmclient

import (
	"context"
	"errors"
	"strings"

	genai "google.golang.org/genai"
)

// GeminiClient is a thin wrapper around the official genai client. It only
// focuses on the API call itself; retries, throttling and fallback are applied
// via middleware in internal/llm.
type GeminiClient struct {
	cli   *genai.Client
	model string
}

func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	return &GeminiClient{cli: cli, model: model}, nil
}

func (g *GeminiClient) Name() string { return "Gemini:" + g.model }
func (g *GeminiClient) Close() error { return nil }

// Generate performs a single-shot call: prompt plus optional inline image.
func (g *GeminiClient) Generate(ctx context.Context, req Request) (string, error) {
	resp, err := g.cli.Models.GenerateContent(ctx, g.model, buildContents(req), nil)
	if err != nil {
		return "", classify(err)
	}
	text := responseText(resp)
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

// GenerateStream yields chunks in arrival order and returns the accumulated
// text. A canceled context stops chunk delivery without error noise beyond
// ctx.Err().
func (g *GeminiClient) GenerateStream(ctx context.Context, req Request, onChunk func(chunk string)) (string, error) {
	var full strings.Builder
	for resp, err := range g.cli.Models.GenerateContentStream(ctx, g.model, buildContents(req), nil) {
		if err != nil {
			return "", classify(err)
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		chunk := responseText(resp)
		if chunk == "" {
			continue
		}
		full.WriteString(chunk)
		if onChunk != nil {
			onChunk(chunk)
		}
	}
	if full.Len() == 0 {
		return "", ErrEmptyResponse
	}
	return full.String(), nil
}

// buildContents replays the text-only history window, then appends the new user
// turn with its optional inline image.
func buildContents(req Request) []*genai.Content {
	contents := make([]*genai.Content, 0, len(req.History)+1)
	for _, turn := range req.History {
		role := genai.Role(genai.RoleUser)
		if turn.Role == "model" || turn.Role == "assistant" {
			role = genai.RoleModel
		}
		text := strings.TrimSpace(turn.Text)
		if text == "" {
			continue
		}
		contents = append(contents, genai.NewContentFromText(text, role))
	}

	parts := []*genai.Part{genai.NewPartFromText(req.Prompt)}
	if req.Image != nil && len(req.Image.Data) > 0 {
		mime := req.Image.MIME
		if mime == "" {
			mime = "image/jpeg"
		}
		parts = append(parts, genai.NewPartFromBytes(req.Image.Data, mime))
	}
	contents = append(contents, genai.NewContentFromParts(parts, genai.RoleUser))
	return contents
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	content := resp.Candidates[0].Content
	if content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range content.Parts {
		if part != nil {
			b.WriteString(part.Text)
		}
	}
	return b.String()
}

// classify wraps non-retryable provider failures as permanent so retry
// middleware fails fast on them.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case 400, 401, 403, 404:
			return NewPermanentError(err)
		}
	}
	return err
}
