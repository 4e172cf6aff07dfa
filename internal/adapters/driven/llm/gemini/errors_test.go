package gemini

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/veridian-labs/docqa/internal/core/domain"
)

func TestClassify_QuotaErrors(t *testing.T) {
	cases := []error{
		genai.APIError{Code: 429, Status: "RESOURCE_EXHAUSTED", Message: "quota exceeded"},
		genai.APIError{Code: 429, Message: "too many requests"},
		errors.New("rpc error: code 429, please slow down"),
		errors.New("quota exceeded for metric generate_content"),
	}
	for _, err := range cases {
		assert.ErrorIs(t, classify(err), domain.ErrRateLimited, "input: %v", err)
	}
}

func TestClassify_TransientErrors(t *testing.T) {
	cases := []error{
		genai.APIError{Code: 500, Message: "internal"},
		genai.APIError{Code: 503, Status: "UNAVAILABLE", Message: "overloaded"},
		context.DeadlineExceeded,
		errors.New("connection reset by peer"),
	}
	for _, err := range cases {
		assert.ErrorIs(t, classify(err), domain.ErrUpstreamUnavailable, "input: %v", err)
	}
}

func TestClassify_PermanentErrorsPassThrough(t *testing.T) {
	apiErr := genai.APIError{Code: 400, Status: "INVALID_ARGUMENT", Message: "bad request"}
	got := classify(apiErr)
	require.Error(t, got)
	assert.NotErrorIs(t, got, domain.ErrRateLimited)
	assert.NotErrorIs(t, got, domain.ErrUpstreamUnavailable)

	plain := errors.New("invalid api key")
	assert.Equal(t, plain, classify(plain))
}

func TestClassify_Nil(t *testing.T) {
	assert.NoError(t, classify(nil))
}
