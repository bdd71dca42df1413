package llmclient

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"homewise/internal/tester"
)

func TestIsTransient(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{errors.New("429 RESOURCE_EXHAUSTED: quota exceeded"), true},
		{errors.New("the model is overloaded, please try again later"), true},
		{errors.New("503 Service Unavailable"), true},
		{errors.New("Rate Limit reached for requests"), true},
		{errors.New("invalid argument: contents must not be empty"), false},
		{context.Canceled, false},
		{context.DeadlineExceeded, false},
		{fmt.Errorf("call model: %w", context.Canceled), false},
		{NewPermanentError(errors.New("quota project not found")), false},
	}
	for _, tc := range cases {
		tester.Eq(t, IsTransient(tc.err), tc.want, fmt.Sprintf("%v", tc.err))
	}
}

func TestPermanentErrorWrapping(t *testing.T) {
	base := errors.New("API key not valid")
	err := NewPermanentError(base)

	tester.True(t, IsPermanent(err))
	tester.True(t, errors.Is(err, base), "the cause must stay reachable")
	tester.Eq(t, err.Error(), "API key not valid")

	wrapped := fmt.Errorf("generate: %w", err)
	tester.True(t, IsPermanent(wrapped), "IsPermanent must see through wrapping")
	tester.False(t, IsPermanent(base))
}
