package llm

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"homewise/internal/domain"
	"homewise/internal/llmclient"
	"homewise/internal/tester"
)

var errQuota = errors.New("429 RESOURCE_EXHAUSTED: quota exceeded")

func fastOptions() Options {
	return Options{
		Retry:       RetryPolicy{MaxAttempts: 3, BaseDelay: time.Millisecond},
		MinInterval: time.Millisecond,
	}
}

func TestGatewayReturnsPrimaryResponse(t *testing.T) {
	primary := NewFakeClient("primary", FakeResult{Text: "IDENTIFIED ISSUE: ok"})
	fallback := NewFakeClient("fallback")
	g := NewGateway(primary, fallback, fastOptions())

	text, err := g.Analyze(context.Background(), "my sink drips", nil)
	tester.NoErr(t, err)
	tester.Eq(t, text, "IDENTIFIED ISSUE: ok")
	tester.Eq(t, primary.Calls(), 1)
	tester.Eq(t, fallback.Calls(), 0)
}

func TestGatewayRetriesTransientThenSucceeds(t *testing.T) {
	primary := NewFakeClient("primary",
		FakeResult{Err: errQuota},
		FakeResult{Err: errQuota},
		FakeResult{Text: "recovered"},
	)
	g := NewGateway(primary, nil, fastOptions())

	text, err := g.Analyze(context.Background(), "prompt", nil)
	tester.NoErr(t, err)
	tester.Eq(t, text, "recovered")
	tester.Eq(t, primary.Calls(), 3)
}

func TestGatewayFallsBackAfterPrimaryExhausted(t *testing.T) {
	primary := NewFakeClient("primary", FakeResult{Err: errQuota})
	fallback := NewFakeClient("fallback", FakeResult{Text: "from the cheaper model"})
	g := NewGateway(primary, fallback, fastOptions())

	var fallbacks int
	ctx := WithStatusFunc(context.Background(), func(st Status) {
		if st.Phase == PhaseFallback {
			fallbacks++
		}
	})

	text, err := g.Analyze(ctx, "prompt", nil)
	tester.NoErr(t, err)
	tester.Eq(t, text, "from the cheaper model")
	tester.Eq(t, primary.Calls(), 3, "primary retries its full budget first")
	tester.Eq(t, fallback.Calls(), 1)
	tester.Eq(t, fallbacks, 1, "exactly one fallback notification")
}

func TestGatewayCapacityWhenBothExhausted(t *testing.T) {
	primary := NewFakeClient("primary", FakeResult{Err: errQuota})
	fallback := NewFakeClient("fallback", FakeResult{Err: errors.New("503 service unavailable")})
	g := NewGateway(primary, fallback, fastOptions())

	_, err := g.Analyze(context.Background(), "prompt", nil)
	tester.True(t, errors.Is(err, ErrCapacity), "both models exhausted must map to ErrCapacity")
	tester.Eq(t, primary.Calls(), 3)
	tester.Eq(t, fallback.Calls(), 3)
}

func TestGatewayPermanentErrorFailsFast(t *testing.T) {
	primary := NewFakeClient("primary",
		FakeResult{Err: llmclient.NewPermanentError(errors.New("API key not valid"))},
	)
	fallback := NewFakeClient("fallback")
	g := NewGateway(primary, fallback, fastOptions())

	_, err := g.Analyze(context.Background(), "prompt", nil)
	tester.Err(t, err)
	tester.True(t, llmclient.IsPermanent(err))
	tester.Eq(t, primary.Calls(), 1, "permanent errors are not retried")
	tester.Eq(t, fallback.Calls(), 0, "permanent errors do not fall back")
}

func TestGatewayStreamDeliversChunksInOrder(t *testing.T) {
	primary := NewFakeClient("primary", FakeResult{Chunks: []string{"Check ", "the ", "trap."}})
	g := NewGateway(primary, nil, fastOptions())

	var got []string
	text, err := g.SendTurn(context.Background(), "hello", nil, nil, func(chunk string) {
		got = append(got, chunk)
	})
	tester.NoErr(t, err)
	tester.Eq(t, text, "Check the trap.")
	tester.Eq(t, got, []string{"Check ", "the ", "trap."})
}

func TestGatewayStreamNoRetryAfterDeliveredChunks(t *testing.T) {
	// The first call dies mid-stream after text reached the caller; a retry
	// would replay it, so the failure must surface instead.
	primary := NewFakeClient("primary",
		FakeResult{Chunks: []string{"partial "}, Err: errQuota},
		FakeResult{Text: "should never be reached"},
	)
	g := NewGateway(primary, nil, fastOptions())

	var got strings.Builder
	_, err := g.SendTurn(context.Background(), "hello", nil, nil, func(chunk string) {
		got.WriteString(chunk)
	})
	tester.Err(t, err)
	tester.Eq(t, primary.Calls(), 1)
	tester.Eq(t, got.String(), "partial ")
}

func TestGatewayStreamRetriesWhenNothingDelivered(t *testing.T) {
	primary := NewFakeClient("primary",
		FakeResult{Err: errQuota},
		FakeResult{Chunks: []string{"all ", "good"}},
	)
	g := NewGateway(primary, nil, fastOptions())

	text, err := g.SendTurn(context.Background(), "hello", nil, nil, nil)
	tester.NoErr(t, err)
	tester.Eq(t, text, "all good")
	tester.Eq(t, primary.Calls(), 2)
}

func TestGatewayRetryNotifiesStatus(t *testing.T) {
	primary := NewFakeClient("primary",
		FakeResult{Err: errQuota},
		FakeResult{Text: "ok"},
	)
	g := NewGateway(primary, nil, fastOptions())

	var statuses []Status
	ctx := WithStatusFunc(context.Background(), func(st Status) {
		statuses = append(statuses, st)
	})

	_, err := g.Analyze(ctx, "prompt", nil)
	tester.NoErr(t, err)
	tester.Eq(t, len(statuses), 1)
	tester.Eq(t, statuses[0].Phase, PhaseRetrying)
	tester.Eq(t, statuses[0].Attempt, 1)
	tester.Eq(t, statuses[0].Model, "primary")
}

func TestGatewayCancelStopsRetries(t *testing.T) {
	primary := NewFakeClient("primary", FakeResult{Err: errQuota})
	opts := fastOptions()
	opts.Retry.BaseDelay = time.Minute
	g := NewGateway(primary, nil, opts)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := g.Analyze(ctx, "prompt", nil)
		done <- err
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		tester.True(t, errors.Is(err, context.Canceled))
	case <-time.After(2 * time.Second):
		t.Fatal("call did not stop after cancel")
	}
	tester.Eq(t, primary.Calls(), 1)
}

func TestHistoryTurnsWindowAndRoles(t *testing.T) {
	history := make([]domain.Message, 0, 10)
	for i := 0; i < 10; i++ {
		role := domain.RoleUser
		if i%2 == 1 {
			role = domain.RoleAssistant
		}
		history = append(history, domain.Message{Role: role, Text: "turn"})
	}

	turns := historyTurns(history)
	tester.Eq(t, len(turns), historyWindow)
	tester.Eq(t, turns[0].Role, "user")
	tester.Eq(t, turns[1].Role, "model")
}

func TestPaceLimiterSpacesCalls(t *testing.T) {
	limiter := NewPaceLimiter(60 * time.Millisecond)
	ctx := context.Background()

	start := time.Now()
	tester.NoErr(t, limiter.Wait(ctx))
	tester.NoErr(t, limiter.Wait(ctx))
	tester.True(t, time.Since(start) >= 60*time.Millisecond, "second call must be delayed")
}

func TestPaceLimiterNilIsNoOp(t *testing.T) {
	var limiter *PaceLimiter
	tester.NoErr(t, limiter.Wait(context.Background()))
}

func TestPaceLimiterHonorsCancel(t *testing.T) {
	limiter := NewPaceLimiter(time.Minute)
	ctx, cancel := context.WithCancel(context.Background())

	tester.NoErr(t, limiter.Wait(ctx))
	cancel()
	err := limiter.Wait(ctx)
	tester.True(t, errors.Is(err, context.Canceled))
}
