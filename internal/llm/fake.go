package llm

import (
	"context"
	"sync"

	"homewise/internal/llmclient"
)

// FakeClient replays a scripted sequence of responses and errors for offline
// use and tests. Each call consumes one script entry; when the script runs out
// the last entry repeats.
type FakeClient struct {
	ClientName string

	mu     sync.Mutex
	script []FakeResult
	calls  int
}

type FakeResult struct {
	Text string
	// Err fails the call. On the streaming path any Chunks are delivered first,
	// which simulates a stream dying partway through.
	Err error
	// Chunks overrides how Text is delivered on the streaming path. When empty
	// the whole text is yielded as a single chunk.
	Chunks []string
}

func NewFakeClient(name string, script ...FakeResult) *FakeClient {
	if name == "" {
		name = "FakeLLM"
	}
	if len(script) == 0 {
		script = []FakeResult{{Text: "ok"}}
	}
	return &FakeClient{ClientName: name, script: script}
}

func (f *FakeClient) Name() string { return f.ClientName }
func (f *FakeClient) Close() error { return nil }

// Calls reports how many generate calls the fake has served.
func (f *FakeClient) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *FakeClient) take() FakeResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	idx := f.calls
	if idx >= len(f.script) {
		idx = len(f.script) - 1
	}
	f.calls++
	return f.script[idx]
}

func (f *FakeClient) Generate(ctx context.Context, req llmclient.Request) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	res := f.take()
	if res.Err != nil {
		return "", res.Err
	}
	return res.Text, nil
}

func (f *FakeClient) GenerateStream(ctx context.Context, req llmclient.Request, onChunk func(chunk string)) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	res := f.take()
	if res.Err != nil && len(res.Chunks) == 0 {
		return "", res.Err
	}
	chunks := res.Chunks
	if len(chunks) == 0 {
		chunks = []string{res.Text}
	}
	var full string
	for _, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		full += chunk
		if onChunk != nil {
			onChunk(chunk)
		}
	}
	if res.Err != nil {
		return "", res.Err
	}
	return full, nil
}
